package budgetcore

import (
	"fmt"
	"regexp"
	"strings"
)

// IDColumn is the opaque row identifier column. It never appears in exports.
const IDColumn = "_rid"

// Narrow schema: one row per (client, product, month) budget line.
var NarrowColumns = []string{
	"Business Unit", "Section", "Client", "Category", "Product", "Month",
	"Qty (MT)", "PMT (JOD)", "GP %", "Sales (JOD)", "GP (JOD)", "PPMT (JOD)",
	"Sector", "Booked",
}

var NarrowNumericColumns = []string{
	"Qty (MT)", "PMT (JOD)", "GP %", "Sales (JOD)", "GP (JOD)", "PPMT (JOD)",
}

// Wide schema: one row per (client, product) spanning a full year. External
// ingestion form only, always reshaped to narrow rows before persistence.
var WideColumns = []string{
	"Business Unit", "Section", "Client", "Category", "Product",
	"PMT_Q1 (JOD)", "PMT_Q2 (JOD)", "PMT_Q3 (JOD)", "PMT_Q4 (JOD)",
	"GP %",
	"Qty_Jan (MT)", "Qty_Feb (MT)", "Qty_Mar (MT)", "Qty_Apr (MT)", "Qty_May (MT)", "Qty_Jun (MT)",
	"Qty_Jul (MT)", "Qty_Aug (MT)", "Qty_Sep (MT)", "Qty_Oct (MT)", "Qty_Nov (MT)", "Qty_Dec (MT)",
	"Sales_Q1 (JOD)", "Sales_Q2 (JOD)", "Sales_Q3 (JOD)", "Sales_Q4 (JOD)", "Total_Sales (JOD)",
	"GP_Q1 (JOD)", "GP_Q2 (JOD)", "GP_Q3 (JOD)", "GP_Q4 (JOD)", "Total_GP (JOD)",
	"Sector", "Booked",
}

var quarterPMTColumns = [4]string{
	"PMT_Q1 (JOD)", "PMT_Q2 (JOD)", "PMT_Q3 (JOD)", "PMT_Q4 (JOD)",
}

var monthQtyColumns = [12]string{
	"Qty_Jan (MT)", "Qty_Feb (MT)", "Qty_Mar (MT)", "Qty_Apr (MT)", "Qty_May (MT)", "Qty_Jun (MT)",
	"Qty_Jul (MT)", "Qty_Aug (MT)", "Qty_Sep (MT)", "Qty_Oct (MT)", "Qty_Nov (MT)", "Qty_Dec (MT)",
}

// ExportColumns is the fixed column order for spreadsheet export.
// Identifier column is excluded.
func ExportColumns() []string {
	cols := make([]string, len(NarrowColumns))
	copy(cols, NarrowColumns)
	return cols
}

// Row is the canonical narrow-schema budget line. Category, Sales, GP and
// PPMT are derived fields: they are always recomputed from the other inputs
// and the product catalog, never trusted from uploads.
type Row struct {
	RID          string  `json:"_rid"`
	BusinessUnit string  `json:"Business Unit"`
	Section      string  `json:"Section"`
	Client       string  `json:"Client"`
	Category     string  `json:"Category"`
	Product      string  `json:"Product"`
	Month        int     `json:"Month"`
	Qty          float64 `json:"Qty (MT)"`
	PMT          float64 `json:"PMT (JOD)"`
	GPPercent    float64 `json:"GP %"`
	Sales        float64 `json:"Sales (JOD)"`
	GP           float64 `json:"GP (JOD)"`
	PPMT         float64 `json:"PPMT (JOD)"`
	Sector       string  `json:"Sector"`
	Booked       string  `json:"Booked"`
}

// WideRow is the external yearly ingestion form. Quarterly and annual
// sales/GP are derived and recomputed before reshaping.
type WideRow struct {
	RID          string
	BusinessUnit string
	Section      string
	Client       string
	Category     string
	Product      string
	PMTQ         [4]float64
	GPPercent    float64
	QtyMonth     [12]float64
	SalesQ       [4]float64
	TotalSales   float64
	GPQ          [4]float64
	TotalGP      float64
	Sector       string
	Booked       string
}

// CatalogEntry is one row of the Products master sheet.
type CatalogEntry struct {
	Product          string  `json:"Product"`
	Category         string  `json:"Category"`
	DefaultPMT       float64 `json:"Default_PMT"`
	DefaultGMPercent float64 `json:"Default_GM%"`
}

// Catalog maps product name to category for recalculation lookups.
type Catalog map[string]string

// BuildCatalog builds the lookup table from master product entries.
// Later duplicates win, matching spreadsheet reading order.
func BuildCatalog(entries []CatalogEntry) Catalog {
	c := make(Catalog, len(entries))
	for _, e := range entries {
		if e.Product != "" {
			c[e.Product] = e.Category
		}
	}
	return c
}

// Regime selects the financial formula set for a row. It is decided once
// from the Section field rather than re-derived on every computation.
type Regime int

const (
	StandardRegime Regime = iota
	FlatRateRegime
)

func (r Regime) String() string {
	if r == FlatRateRegime {
		return "flat-rate"
	}
	return "standard"
}

// Sections billed on a flat profit-per-ton basis instead of a margin.
var flatRateSections = []string{"Broker", "Mining"}

// RegimeForSection returns the calculation regime gated by the row's section.
func RegimeForSection(section string) Regime {
	s := strings.TrimSpace(section)
	for _, f := range flatRateSections {
		if strings.EqualFold(s, f) {
			return FlatRateRegime
		}
	}
	return StandardRegime
}

// Shape discriminates the two ingestion layouts.
type Shape int

const (
	NarrowShape Shape = iota
	WideShape
)

var (
	reMonthQtyCol   = regexp.MustCompile(`^Qty_[A-Za-z]{3,} \(MT\)$`)
	reQuarterPMTCol = regexp.MustCompile(`^PMT_Q[1-4] \(JOD\)$`)
)

// DetectShape inspects a header row and picks the ingestion layout.
// Wide wins when any monthly-quantity or quarterly-price column is present.
func DetectShape(header []string) Shape {
	for _, h := range header {
		h = strings.TrimSpace(h)
		if reMonthQtyCol.MatchString(h) || reQuarterPMTCol.MatchString(h) {
			return WideShape
		}
	}
	return NarrowShape
}

// SchemaError reports input that cannot be interpreted as tabular data at
// all. Column-level problems are repaired by the normalizer, not rejected.
type SchemaError struct {
	Msg string
	Err error
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *SchemaError) Unwrap() error { return e.Err }
