package budgetcore

import "testing"

func TestNewTable(t *testing.T) {
	if _, err := NewTable(nil); err == nil {
		t.Fatal("expected SchemaError for nil records")
	}
	tb, err := NewTable([][]string{})
	if err != nil {
		t.Fatalf("empty records: %v", err)
	}
	if len(NormalizeNarrow(tb)) != 0 {
		t.Error("empty table should normalize to zero rows")
	}
}

func TestNormalizeNarrow(t *testing.T) {
	tb, _ := NewTable([][]string{
		{"Client", "Product", "Month", "Qty (MT)", "PMT (JOD)", "GP %"},
		{"ACME Mining Corp", "Iron Ore 62%", "Feb", "1,000", "120.50 JOD", "8.5%"},
		{"Cedar Trading Co", "Flour", "bogus", "junk", "(25.00)", ""},
	})
	rows := NormalizeNarrow(tb)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	r := rows[0]
	if r.Client != "ACME Mining Corp" || r.Product != "Iron Ore 62%" {
		t.Errorf("identity fields wrong: %+v", r)
	}
	if r.Month != 2 || r.Qty != 1000 || r.PMT != 120.50 || r.GPPercent != 8.5 {
		t.Errorf("coerced fields wrong: %+v", r)
	}
	// Columns absent from the sheet are back-filled with defaults.
	if r.BusinessUnit != "" || r.Sales != 0 || r.GP != 0 || r.PPMT != 0 {
		t.Errorf("missing columns not defaulted: %+v", r)
	}

	r = rows[1]
	if r.Month != 1 {
		t.Errorf("invalid month should coerce to 1, got %d", r.Month)
	}
	if r.Qty != 0 {
		t.Errorf("unparseable qty should coerce to 0, got %v", r.Qty)
	}
	if r.PMT != -25 {
		t.Errorf("parenthesized PMT should be -25, got %v", r.PMT)
	}
}

func TestNormalizeNarrowHeaderOnly(t *testing.T) {
	tb, _ := NewTable([][]string{{"Client", "Product", "Month"}})
	if rows := NormalizeNarrow(tb); len(rows) != 0 {
		t.Errorf("header-only sheet should yield no rows, got %d", len(rows))
	}
}

func TestNormalizeWide(t *testing.T) {
	tb, _ := NewTable([][]string{
		{"Client", "Product", "PMT_Q1 (JOD)", "PMT_Q4 (JOD)", "GP %", "Qty_Jan (MT)", "Qty_Dec (MT)"},
		{"BlueWater Ports Ltd", "Coking Coal", "210.75", "215.00", "10.2", "500", "750"},
	})
	rows := NormalizeWide(tb)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	w := rows[0]
	if w.PMTQ[0] != 210.75 || w.PMTQ[3] != 215.00 {
		t.Errorf("quarter prices wrong: %v", w.PMTQ)
	}
	if w.PMTQ[1] != 0 || w.PMTQ[2] != 0 {
		t.Errorf("absent quarter prices should default to 0: %v", w.PMTQ)
	}
	if w.QtyMonth[0] != 500 || w.QtyMonth[11] != 750 {
		t.Errorf("month quantities wrong: %v", w.QtyMonth)
	}
	if w.GPPercent != 10.2 {
		t.Errorf("GP%% = %v, want 10.2", w.GPPercent)
	}
}

func TestDetectShape(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		want   Shape
	}{
		{"narrow", []string{"Client", "Product", "Month", "Qty (MT)"}, NarrowShape},
		{"wide by month qty", []string{"Client", "Qty_Jan (MT)"}, WideShape},
		{"wide by quarter pmt", []string{"Client", "PMT_Q1 (JOD)"}, WideShape},
		{"wide by full month name", []string{"Qty_January (MT)"}, WideShape},
		{"empty header", nil, NarrowShape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectShape(tt.header); got != tt.want {
				t.Errorf("DetectShape(%v) = %v, want %v", tt.header, got, tt.want)
			}
		})
	}
}
