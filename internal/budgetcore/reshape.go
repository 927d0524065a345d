package budgetcore

// WideToNarrow unpivots yearly wide rows into one narrow row per active
// month. Months with zero or negative quantity are not materialized as
// budget lines. The unit price for each surviving row comes from the quarter
// containing its month, GP% carries over from the annual figure, and sales
// and GP are computed with the standard-regime formulas.
//
// Row identifiers are not carried over: a wide row fans out into many narrow
// rows, so identifiers are assigned fresh after reshaping.
func WideToNarrow(wide []WideRow) []Row {
	rows := make([]Row, 0, len(wide))
	for _, w := range wide {
		for m := 0; m < 12; m++ {
			qty := w.QtyMonth[m]
			if qty <= 0 {
				continue
			}
			r := Row{
				BusinessUnit: w.BusinessUnit,
				Section:      w.Section,
				Client:       w.Client,
				Category:     w.Category,
				Product:      w.Product,
				Month:        m + 1,
				Qty:          qty,
				PMT:          w.PMTQ[m/3],
				GPPercent:    w.GPPercent,
				Sector:       w.Sector,
				Booked:       w.Booked,
			}
			applyStandard(&r)
			rows = append(rows, r)
		}
	}
	return rows
}
