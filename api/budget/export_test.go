package budget

import (
	"bytes"
	"testing"

	"TradeBudgetSaas/internal/budgetcore"
	"TradeBudgetSaas/internal/config"

	"github.com/xuri/excelize/v2"
)

func TestBuildExportWorkbook(t *testing.T) {
	rows := []budgetcore.Row{
		{
			RID: "rid-1", BusinessUnit: "Grain", Section: "Trading", Client: "Acme",
			Category: "Cereals", Product: "Wheat", Month: 3,
			Qty: 10, PMT: 100, GPPercent: 10, Sales: 1000, GP: 100, PPMT: 10,
			Sector: "Private", Booked: "Yes",
		},
	}
	f, err := buildExportWorkbook(rows)
	if err != nil {
		t.Fatalf("buildExportWorkbook: %v", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	rf, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer rf.Close()

	got, err := rf.GetRows(config.ExportSheet)
	if err != nil {
		t.Fatalf("GetRows(%s): %v", config.ExportSheet, err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d sheet rows, want 2", len(got))
	}

	wantHeader := budgetcore.ExportColumns()
	if len(got[0]) != len(wantHeader) {
		t.Fatalf("header has %d columns, want %d", len(got[0]), len(wantHeader))
	}
	for i, h := range wantHeader {
		if got[0][i] != h {
			t.Errorf("header[%d] = %q, want %q", i, got[0][i], h)
		}
	}
	for _, cell := range got[0] {
		if cell == budgetcore.IDColumn {
			t.Error("identifier column leaked into export header")
		}
	}
	for _, cell := range got[1] {
		if cell == "rid-1" {
			t.Error("identifier value leaked into export row")
		}
	}
	if got[1][0] != "Grain" || got[1][4] != "Wheat" {
		t.Errorf("data row = %v", got[1])
	}
}

func TestBuildExportWorkbookEmpty(t *testing.T) {
	f, err := buildExportWorkbook(nil)
	if err != nil {
		t.Fatalf("buildExportWorkbook: %v", err)
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	rf, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer rf.Close()
	got, err := rf.GetRows(config.ExportSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("got %d sheet rows, want header only", len(got))
	}
}
