package budgetcore

import "strings"

// Table is a header-indexed view over the raw cell grid that spreadsheet and
// CSV parsers produce. The first record is the header row.
type Table struct {
	Header []string
	Rows   [][]string
}

// NewTable wraps raw records into a Table. A nil record set is the only
// structural failure; a header-only or fully empty sheet is a valid table
// that normalizes to an empty typed slice.
func NewTable(records [][]string) (*Table, error) {
	if records == nil {
		return nil, &SchemaError{Msg: "input is not tabular"}
	}
	t := &Table{}
	if len(records) > 0 {
		t.Header = records[0]
		t.Rows = records[1:]
	}
	return t, nil
}

func (t *Table) index() map[string]int {
	idx := make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func cellAt(row []string, idx map[string]int, col string) (string, bool) {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return "", false
	}
	return row[i], true
}

// NormalizeNarrow coerces a raw table into typed narrow rows. Every declared
// column is materialized: absent numeric columns read as 0.0, absent text
// columns as the empty string, and every cell passes through value coercion.
// Cell-level parse failures are repaired via the documented fallbacks, never
// surfaced as errors.
func NormalizeNarrow(t *Table) []Row {
	if t == nil || len(t.Rows) == 0 {
		return []Row{}
	}
	idx := t.index()
	rows := make([]Row, 0, len(t.Rows))
	for _, rec := range t.Rows {
		str := func(col string) string {
			v, _ := cellAt(rec, idx, col)
			return v
		}
		num := func(col string) float64 {
			v, _ := cellAt(rec, idx, col)
			return CleanNumeric(v)
		}
		r := Row{
			RID:          str(IDColumn),
			BusinessUnit: str("Business Unit"),
			Section:      str("Section"),
			Client:       str("Client"),
			Category:     str("Category"),
			Product:      str("Product"),
			Month:        MonthNameToNum(str("Month")),
			Qty:          num("Qty (MT)"),
			PMT:          num("PMT (JOD)"),
			GPPercent:    num("GP %"),
			Sales:        num("Sales (JOD)"),
			GP:           num("GP (JOD)"),
			PPMT:         num("PPMT (JOD)"),
			Sector:       str("Sector"),
			Booked:       str("Booked"),
		}
		rows = append(rows, r)
	}
	return rows
}

// NormalizeWide coerces a raw table into typed wide rows, same repair policy
// as NormalizeNarrow.
func NormalizeWide(t *Table) []WideRow {
	if t == nil || len(t.Rows) == 0 {
		return []WideRow{}
	}
	idx := t.index()
	rows := make([]WideRow, 0, len(t.Rows))
	for _, rec := range t.Rows {
		str := func(col string) string {
			v, _ := cellAt(rec, idx, col)
			return v
		}
		num := func(col string) float64 {
			v, _ := cellAt(rec, idx, col)
			return CleanNumeric(v)
		}
		w := WideRow{
			RID:          str(IDColumn),
			BusinessUnit: str("Business Unit"),
			Section:      str("Section"),
			Client:       str("Client"),
			Category:     str("Category"),
			Product:      str("Product"),
			GPPercent:    num("GP %"),
			TotalSales:   num("Total_Sales (JOD)"),
			TotalGP:      num("Total_GP (JOD)"),
			Sector:       str("Sector"),
			Booked:       str("Booked"),
		}
		for q := 0; q < 4; q++ {
			w.PMTQ[q] = num(quarterPMTColumns[q])
			w.SalesQ[q] = num(quarterSalesColumn(q))
			w.GPQ[q] = num(quarterGPColumn(q))
		}
		for m := 0; m < 12; m++ {
			w.QtyMonth[m] = num(monthQtyColumns[m])
		}
		rows = append(rows, w)
	}
	return rows
}

func quarterSalesColumn(q int) string {
	return "Sales_Q" + string(rune('1'+q)) + " (JOD)"
}

// The source workbooks once shipped a "GP_4 (JOD)" header by mistake; the
// canonical name is GP_Q<n> and that is the only one recognized here.
func quarterGPColumn(q int) string {
	return "GP_Q" + string(rune('1'+q)) + " (JOD)"
}
