package budgetcore

import "testing"

func TestWideToNarrow(t *testing.T) {
	w := WideRow{
		BusinessUnit: "Metals", Section: "Trading",
		Client: "Apex Steel Industries", Category: "Long Steel", Product: "Rebar ASTM A615",
		GPPercent: 10, Sector: "Construction", Booked: "Yes",
	}
	w.QtyMonth[0] = 10 // Jan
	w.QtyMonth[1] = 0  // Feb: dropped
	w.PMTQ[0] = 100

	rows := WideToNarrow([]WideRow{w})
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	r := rows[0]
	if r.Month != 1 {
		t.Errorf("month = %d, want 1", r.Month)
	}
	if r.Sales != 1000 || r.GP != 100 {
		t.Errorf("sales=%v gp=%v, want 1000/100", r.Sales, r.GP)
	}
	if r.Client != w.Client || r.Sector != "Construction" || r.Booked != "Yes" {
		t.Errorf("identity fields not carried: %+v", r)
	}
	if r.RID != "" {
		t.Errorf("reshaped rows must not inherit an identifier, got %q", r.RID)
	}
}

func TestWideToNarrowQuarterPrice(t *testing.T) {
	w := WideRow{GPPercent: 0}
	for m := 0; m < 12; m++ {
		w.QtyMonth[m] = 1
	}
	w.PMTQ = [4]float64{10, 20, 30, 40}

	rows := WideToNarrow([]WideRow{w})
	if len(rows) != 12 {
		t.Fatalf("got %d rows, want 12", len(rows))
	}
	for _, r := range rows {
		wantPMT := w.PMTQ[(r.Month-1)/3]
		if r.PMT != wantPMT {
			t.Errorf("month %d: pmt = %v, want %v", r.Month, r.PMT, wantPMT)
		}
	}
}

func TestWideToNarrowNegativeQtyDropped(t *testing.T) {
	w := WideRow{}
	w.QtyMonth[3] = -5
	if rows := WideToNarrow([]WideRow{w}); len(rows) != 0 {
		t.Errorf("negative quantity months must be dropped, got %d rows", len(rows))
	}
}

func TestWideToNarrowEmpty(t *testing.T) {
	if rows := WideToNarrow(nil); len(rows) != 0 {
		t.Errorf("nil input should yield no rows")
	}
	if rows := WideToNarrow([]WideRow{{}}); len(rows) != 0 {
		t.Errorf("all-zero wide row should yield no rows")
	}
}
