package budgetcore

import (
	"strings"
	"testing"
)

func TestRegimeForSection(t *testing.T) {
	tests := []struct {
		section string
		want    Regime
	}{
		{"Trading", StandardRegime},
		{"", StandardRegime},
		{"Broker", FlatRateRegime},
		{"Mining", FlatRateRegime},
		{"  mining ", FlatRateRegime},
		{"BROKER", FlatRateRegime},
	}
	for _, tt := range tests {
		if got := RegimeForSection(tt.section); got != tt.want {
			t.Errorf("RegimeForSection(%q) = %v, want %v", tt.section, got, tt.want)
		}
	}
}

func TestRecalculateStandard(t *testing.T) {
	catalog := Catalog{"Iron Ore 62%": "Iron Ore"}
	rows := []Row{{
		Section: "Trading", Product: "Iron Ore 62%",
		Qty: 5, PMT: 100, GPPercent: 20,
	}}
	out := Recalculate(rows, catalog)
	r := out[0]
	if r.Category != "Iron Ore" {
		t.Errorf("category = %q, want Iron Ore", r.Category)
	}
	if r.Sales != 500 || r.GP != 100 || r.PPMT != 20 {
		t.Errorf("got sales=%v gp=%v ppmt=%v, want 500/100/20", r.Sales, r.GP, r.PPMT)
	}
}

func TestRecalculateFlatRate(t *testing.T) {
	rows := []Row{{
		Section: "Mining", Product: "Coking Coal",
		Qty: 5, PMT: 99, GPPercent: 35, PPMT: 30,
		Sales: 1234, // stale, must be zeroed
	}}
	out := Recalculate(rows, Catalog{})
	r := out[0]
	if r.GP != 150 {
		t.Errorf("gp = %v, want 150", r.GP)
	}
	if r.Sales != 0 {
		t.Errorf("sales = %v, want 0 under flat-rate regime", r.Sales)
	}
}

func TestRecalculateCategoryFallback(t *testing.T) {
	rows := []Row{
		{Product: "Unlisted", Category: "Legacy"},
		{Product: "Unlisted", Category: ""},
	}
	out := Recalculate(rows, Catalog{})
	if out[0].Category != "Legacy" {
		t.Errorf("existing category should be kept, got %q", out[0].Category)
	}
	if out[1].Category != "Unknown" {
		t.Errorf("missing category should fall back to Unknown, got %q", out[1].Category)
	}
}

func TestRecalculateRounding(t *testing.T) {
	rows := []Row{{Qty: 3, PMT: 33.333, GPPercent: 7.77}}
	out := Recalculate(rows, Catalog{})
	r := out[0]
	// sales rounds first (99.999 -> 100.00), then GP is taken from the
	// rounded figure, then PPMT from rounded GP.
	if r.Sales != 100.00 {
		t.Errorf("sales = %v, want 100.00", r.Sales)
	}
	if r.GP != 7.77 {
		t.Errorf("gp = %v, want 7.77", r.GP)
	}
	if r.PPMT != 2.59 {
		t.Errorf("ppmt = %v, want 2.59", r.PPMT)
	}
}

func TestRecalculateZeroQty(t *testing.T) {
	out := Recalculate([]Row{{Qty: 0, PMT: 100, GPPercent: 10}}, Catalog{})
	if out[0].PPMT != 0 {
		t.Errorf("ppmt with zero qty = %v, want 0", out[0].PPMT)
	}
}

func TestRecalculateIsPure(t *testing.T) {
	rows := []Row{{Product: "Sugar", Qty: 2, PMT: 10}}
	_ = Recalculate(rows, Catalog{"Sugar": "Commodities"})
	if rows[0].Category != "" || rows[0].Sales != 0 {
		t.Errorf("input slice was mutated: %+v", rows[0])
	}
}

func TestRecalculateWide(t *testing.T) {
	w := WideRow{Product: "HBI Premium", GPPercent: 10}
	w.QtyMonth[0] = 10 // Jan
	w.QtyMonth[4] = 20 // May
	w.PMTQ[0] = 100
	w.PMTQ[1] = 50
	out := RecalculateWide([]WideRow{w}, Catalog{"HBI Premium": "DRI/HBI"})
	g := out[0]
	if g.Category != "DRI/HBI" {
		t.Errorf("category = %q", g.Category)
	}
	if g.SalesQ[0] != 1000 || g.SalesQ[1] != 1000 || g.SalesQ[2] != 0 {
		t.Errorf("quarter sales wrong: %v", g.SalesQ)
	}
	if g.GPQ[0] != 100 || g.GPQ[1] != 100 {
		t.Errorf("quarter GP wrong: %v", g.GPQ)
	}
	if g.TotalSales != 2000 || g.TotalGP != 200 {
		t.Errorf("totals wrong: sales=%v gp=%v", g.TotalSales, g.TotalGP)
	}
}

func TestValidateEntry(t *testing.T) {
	tests := []struct {
		name    string
		row     Row
		wantErr string
	}{
		{"valid standard", Row{Section: "Trading", Qty: 5, PMT: 100, GPPercent: 10}, ""},
		{"valid flat rate", Row{Section: "Broker", Qty: 5, PPMT: 12}, ""},
		{"zero qty", Row{Section: "Trading", PMT: 100, GPPercent: 10}, "Qty (MT) cannot be 0."},
		{"zero pmt", Row{Section: "Trading", Qty: 5, GPPercent: 10}, "PMT (JOD) cannot be 0."},
		{"zero gp percent", Row{Section: "Trading", Qty: 5, PMT: 100}, "GP % cannot be 0."},
		{"zero ppmt flat rate", Row{Section: "Mining", Qty: 5}, "PPMT (JOD) cannot be 0."},
		// Flat-rate entries do not require PMT or GP%.
		{"flat rate ignores pmt", Row{Section: "Mining", Qty: 5, PPMT: 30}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEntry(tt.row)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateEntryCollectsAllMessages(t *testing.T) {
	err := ValidateEntry(Row{Section: "Trading"})
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"Qty (MT)", "PMT (JOD)", "GP %"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err.Error(), want)
		}
	}
}
