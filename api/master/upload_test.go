package master

import (
	"bytes"
	"errors"
	"testing"

	"TradeBudgetSaas/internal/budgetcore"
	"TradeBudgetSaas/internal/config"

	"github.com/xuri/excelize/v2"
)

func TestParseClientRows(t *testing.T) {
	records := [][]string{
		{"Client", "Business Unit"},
		{" Acme ", "Grain"},
		{"", "Orphan BU"},
		{"Globex", ""},
	}
	got, err := parseClientRows(records)
	if err != nil {
		t.Fatalf("parseClientRows: %v", err)
	}
	want := []ClientEntry{
		{Client: "Acme", BusinessUnit: "Grain"},
		{Client: "Globex", BusinessUnit: ""},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestParseProductRows(t *testing.T) {
	records := [][]string{
		{"Product", "Category", "Default_PMT", "Default_GM%"},
		{"Wheat", "Cereals", "1,250.50", "12%"},
		{"", "Nameless", "1", "1"},
	}
	got, err := parseProductRows(records)
	if err != nil {
		t.Fatalf("parseProductRows: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d entries, want 1", len(got))
	}
	e := got[0]
	if e.Product != "Wheat" || e.Category != "Cereals" {
		t.Errorf("entry = %+v", e)
	}
	if e.DefaultPMT != 1250.50 {
		t.Errorf("DefaultPMT = %v, want 1250.50", e.DefaultPMT)
	}
	if e.DefaultGMPercent != 12 {
		t.Errorf("DefaultGMPercent = %v, want 12", e.DefaultGMPercent)
	}
}

func TestParseRowsNotTabular(t *testing.T) {
	var se *budgetcore.SchemaError
	if _, err := parseClientRows(nil); !errors.As(err, &se) {
		t.Errorf("parseClientRows(nil) = %v, want SchemaError", err)
	}
	if _, err := parseProductRows(nil); !errors.As(err, &se) {
		t.Errorf("parseProductRows(nil) = %v, want SchemaError", err)
	}
}

func TestBuildMasterTemplate(t *testing.T) {
	f, err := buildMasterTemplate()
	if err != nil {
		t.Fatalf("buildMasterTemplate: %v", err)
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

	clients, err := rf.GetRows(config.ClientsSheet)
	if err != nil {
		t.Fatalf("GetRows(%s): %v", config.ClientsSheet, err)
	}
	if len(clients) < 2 {
		t.Fatalf("Clients sheet has %d rows, want header plus samples", len(clients))
	}
	if clients[0][0] != "Client" || clients[0][1] != "Business Unit" {
		t.Errorf("Clients header = %v", clients[0])
	}

	products, err := rf.GetRows(config.ProductsSheet)
	if err != nil {
		t.Fatalf("GetRows(%s): %v", config.ProductsSheet, err)
	}
	if len(products) < 2 {
		t.Fatalf("Products sheet has %d rows, want header plus samples", len(products))
	}
	wantHeader := []string{"Product", "Category", "Default_PMT", "Default_GM%"}
	for i, h := range wantHeader {
		if products[0][i] != h {
			t.Errorf("Products header[%d] = %q, want %q", i, products[0][i], h)
		}
	}

	// template round-trips through the upload parsers
	if _, err := parseClientRows(clients); err != nil {
		t.Errorf("template Clients sheet rejected: %v", err)
	}
	parsed, err := parseProductRows(products)
	if err != nil {
		t.Errorf("template Products sheet rejected: %v", err)
	}
	if len(parsed) == 0 {
		t.Error("template Products sheet parsed to zero entries")
	}
}
