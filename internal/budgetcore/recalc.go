package budgetcore

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// round2 applies monetary rounding to 2 decimal places. Rounding happens
// after every derived-field computation, not only at the end, so exports
// stay bit-identical with conventional spreadsheet arithmetic.
func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// applyStandard recomputes derived fields under the margin-based regime:
// sales = qty * pmt, gp = sales * gp% / 100, ppmt = gp / qty.
func applyStandard(r *Row) {
	qty := decimal.NewFromFloat(r.Qty)
	sales := qty.Mul(decimal.NewFromFloat(r.PMT)).Round(2)
	gp := sales.Mul(decimal.NewFromFloat(r.GPPercent)).Div(decimal.NewFromInt(100)).Round(2)
	r.Sales = sales.InexactFloat64()
	r.GP = gp.InexactFloat64()
	if r.Qty > 0 {
		r.PPMT = round2(gp.Div(qty))
	} else {
		r.PPMT = 0
	}
}

// applyFlatRate recomputes derived fields for Broker/Mining sections, which
// book a flat profit per ton: gp = qty * ppmt. Sales is not a meaningful
// concept under this regime and is explicitly zeroed, never left stale.
func applyFlatRate(r *Row) {
	gp := decimal.NewFromFloat(r.Qty).Mul(decimal.NewFromFloat(r.PPMT)).Round(2)
	r.GP = gp.InexactFloat64()
	r.Sales = 0
}

// Recalculate resolves every row's category against the product catalog and
// recomputes the derived financial fields under the row's regime. It is a
// pure function: the input slice is not mutated and the catalog is only read.
//
// A product missing from the catalog keeps the row's existing category, or
// falls back to "Unknown" when the row has none.
func Recalculate(rows []Row, catalog Catalog) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		if cat, ok := catalog[r.Product]; ok {
			r.Category = cat
		} else if strings.TrimSpace(r.Category) == "" {
			r.Category = "Unknown"
		}
		switch RegimeForSection(r.Section) {
		case FlatRateRegime:
			applyFlatRate(&r)
		default:
			applyStandard(&r)
		}
		out[i] = r
	}
	return out
}

// RecalculateWide refreshes category and the derived quarterly and annual
// sales/GP columns of wide rows before they are reshaped. Each quarter's
// sales is the quarter's total quantity times the quarter price; GP applies
// the annual GP% to each quarter. Rounded at every step.
func RecalculateWide(rows []WideRow, catalog Catalog) []WideRow {
	out := make([]WideRow, len(rows))
	for i, w := range rows {
		if cat, ok := catalog[w.Product]; ok {
			w.Category = cat
		} else if strings.TrimSpace(w.Category) == "" {
			w.Category = "Unknown"
		}
		gmFactor := decimal.NewFromFloat(w.GPPercent).Div(decimal.NewFromInt(100))
		totalSales := decimal.Zero
		totalGP := decimal.Zero
		for q := 0; q < 4; q++ {
			qty := decimal.NewFromFloat(w.QtyMonth[q*3]).
				Add(decimal.NewFromFloat(w.QtyMonth[q*3+1])).
				Add(decimal.NewFromFloat(w.QtyMonth[q*3+2]))
			sales := qty.Mul(decimal.NewFromFloat(w.PMTQ[q])).Round(2)
			gp := sales.Mul(gmFactor).Round(2)
			w.SalesQ[q] = sales.InexactFloat64()
			w.GPQ[q] = gp.InexactFloat64()
			totalSales = totalSales.Add(sales)
			totalGP = totalGP.Add(gp)
		}
		w.TotalSales = round2(totalSales)
		w.TotalGP = round2(totalGP)
		out[i] = w
	}
	return out
}

// ValidateEntry enforces the stricter interactive entry-creation rules. The
// bulk-ingestion fallback policy (bad cell -> 0.0) never applies here: a
// required field that is zero rejects the entry with a field-specific
// message before any row is created.
func ValidateEntry(r Row) error {
	var msgs []string
	if r.Qty == 0 {
		msgs = append(msgs, "Qty (MT) cannot be 0.")
	}
	switch RegimeForSection(r.Section) {
	case FlatRateRegime:
		if r.PPMT == 0 {
			msgs = append(msgs, "PPMT (JOD) cannot be 0.")
		}
	default:
		if r.PMT == 0 {
			msgs = append(msgs, "PMT (JOD) cannot be 0.")
		}
		if r.GPPercent == 0 {
			msgs = append(msgs, "GP % cannot be 0.")
		}
	}
	if len(msgs) > 0 {
		return errors.New(strings.Join(msgs, " "))
	}
	return nil
}
