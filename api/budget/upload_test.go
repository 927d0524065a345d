package budget

import (
	"errors"
	"testing"

	"TradeBudgetSaas/internal/budgetcore"
)

func TestIngestRecordsNarrow(t *testing.T) {
	records := [][]string{
		{"Business Unit", "Section", "Client", "Product", "Month", "Qty (MT)", "PMT (JOD)", "GP %"},
		{"Grain", "Trading", "Acme", "Wheat", "Feb", "10", "100", "10"},
	}
	catalog := budgetcore.Catalog{"Wheat": "Cereals"}

	rows, err := ingestRecords(records, catalog)
	if err != nil {
		t.Fatalf("ingestRecords: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	r := rows[0]
	if r.RID == "" {
		t.Error("row id not assigned")
	}
	if r.Month != 2 {
		t.Errorf("Month = %d, want 2", r.Month)
	}
	if r.Category != "Cereals" {
		t.Errorf("Category = %q, want Cereals", r.Category)
	}
	if r.Sales != 1000 || r.GP != 100 {
		t.Errorf("Sales/GP = %v/%v, want 1000/100", r.Sales, r.GP)
	}
}

func TestIngestRecordsWide(t *testing.T) {
	records := [][]string{
		{"Business Unit", "Section", "Client", "Product", "PMT_Q1 (JOD)", "PMT_Q3 (JOD)", "GP %", "Qty_Jan (MT)", "Qty_Aug (MT)"},
		{"Grain", "Trading", "Acme", "Barley", "200", "250", "5", "10", "4"},
	}

	rows, err := ingestRecords(records, budgetcore.Catalog{})
	if err != nil {
		t.Fatalf("ingestRecords: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2 (one per nonzero month)", len(rows))
	}
	byMonth := map[int]budgetcore.Row{}
	for _, r := range rows {
		if r.RID == "" {
			t.Error("row id not assigned")
		}
		byMonth[r.Month] = r
	}
	jan, ok := byMonth[1]
	if !ok {
		t.Fatal("no January row")
	}
	if jan.PMT != 200 || jan.Sales != 2000 {
		t.Errorf("Jan PMT/Sales = %v/%v, want 200/2000", jan.PMT, jan.Sales)
	}
	aug, ok := byMonth[8]
	if !ok {
		t.Fatal("no August row")
	}
	if aug.PMT != 250 || aug.Sales != 1000 {
		t.Errorf("Aug PMT/Sales = %v/%v, want 250/1000", aug.PMT, aug.Sales)
	}
}

func TestIngestRecordsHeaderOnly(t *testing.T) {
	records := [][]string{
		{"Business Unit", "Section", "Client", "Product", "Month", "Qty (MT)"},
	}
	rows, err := ingestRecords(records, nil)
	if err != nil {
		t.Fatalf("ingestRecords: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows, want 0", len(rows))
	}
}

func TestIngestRecordsNotTabular(t *testing.T) {
	_, err := ingestRecords(nil, nil)
	var se *budgetcore.SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("got %v, want SchemaError", err)
	}
}
