package master

import (
	"context"

	"TradeBudgetSaas/internal/budgetcore"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ClientEntry is one row of the Clients master sheet. Clients are dropdown
// values only: budget rows are never validated against this list.
type ClientEntry struct {
	Client       string `json:"Client"`
	BusinessUnit string `json:"Business Unit"`
}

// Seed catalog for users who have not uploaded master data yet. Mirrors the
// commodity book the tool ships with.
var seededClients = []ClientEntry{
	{"ACME Mining Corp", "Metals"},
	{"Apex Steel Industries", "Metals"},
	{"BlueWater Ports Ltd", "Logistics"},
	{"Cedar Trading Co", "Agri"},
	{"Delta Manufacturing", "Industrial"},
	{"Eagle Logistics", "Logistics"},
	{"Global Petrochem", "Chemicals"},
	{"Quantum Energy", "Energy"},
	{"Fresh Produce Inc.", "Agri"},
}

var seededProducts = []budgetcore.CatalogEntry{
	{Product: "Iron Ore 62%", Category: "Iron Ore", DefaultPMT: 120.50, DefaultGMPercent: 8.5},
	{Product: "HBI Premium", Category: "DRI/HBI", DefaultPMT: 350.00, DefaultGMPercent: 12.0},
	{Product: "Coking Coal", Category: "Coal", DefaultPMT: 210.75, DefaultGMPercent: 10.2},
	{Product: "Rebar ASTM A615", Category: "Long Steel", DefaultPMT: 650.00, DefaultGMPercent: 15.5},
	{Product: "Crude Palm Oil", Category: "Vegetable Oils", DefaultPMT: 950.00, DefaultGMPercent: 12.5},
	{Product: "Soybean Oil", Category: "Vegetable Oils", DefaultPMT: 1100.00, DefaultGMPercent: 11.0},
	{Product: "Caustic Soda", Category: "Chlor-Alkali", DefaultPMT: 450.00, DefaultGMPercent: 22.0},
	{Product: "Sulfuric Acid", Category: "Acids", DefaultPMT: 300.00, DefaultGMPercent: 18.5},
	{Product: "Kraft Paper", Category: "Packaging", DefaultPMT: 880.00, DefaultGMPercent: 15.0},
	{Product: "Corrugated Boxes", Category: "Packaging", DefaultPMT: 1200.00, DefaultGMPercent: 20.0},
	{Product: "Flour", Category: "Milling", DefaultPMT: 550.00, DefaultGMPercent: 10.0},
	{Product: "Sugar", Category: "Commodities", DefaultPMT: 720.00, DefaultGMPercent: 9.5},
}

// LoadClients returns the user's client master, falling back to the seeded
// list when nothing has been uploaded yet.
func LoadClients(ctx context.Context, pool *pgxpool.Pool, userID string) ([]ClientEntry, error) {
	rows, err := pool.Query(ctx,
		`SELECT client, business_unit FROM master_clients WHERE user_id=$1 ORDER BY client`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ClientEntry, 0)
	for rows.Next() {
		var c ClientEntry
		if err := rows.Scan(&c.Client, &c.BusinessUnit); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return append([]ClientEntry(nil), seededClients...), nil
	}
	return out, nil
}

// LoadProducts returns the user's product master, seeded when empty. The
// budget service uses it to build the category lookup for recalculation.
func LoadProducts(ctx context.Context, pool *pgxpool.Pool, userID string) ([]budgetcore.CatalogEntry, error) {
	rows, err := pool.Query(ctx,
		`SELECT product, category, default_pmt, default_gm_percent
		 FROM master_products WHERE user_id=$1 ORDER BY product`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]budgetcore.CatalogEntry, 0)
	for rows.Next() {
		var e budgetcore.CatalogEntry
		if err := rows.Scan(&e.Product, &e.Category, &e.DefaultPMT, &e.DefaultGMPercent); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return append([]budgetcore.CatalogEntry(nil), seededProducts...), nil
	}
	return out, nil
}

// replaceMasters swaps both master lists in one transaction, so a failed
// upload never leaves clients and products out of step.
func replaceMasters(ctx context.Context, tx pgx.Tx, userID string, clients []ClientEntry, products []budgetcore.CatalogEntry) error {
	if _, err := tx.Exec(ctx, `DELETE FROM master_clients WHERE user_id=$1`, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM master_products WHERE user_id=$1`, userID); err != nil {
		return err
	}
	for _, c := range clients {
		if c.Client == "" {
			continue
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO master_clients (user_id, client, business_unit) VALUES ($1,$2,$3)
			 ON CONFLICT (user_id, client) DO UPDATE SET business_unit = EXCLUDED.business_unit`,
			userID, c.Client, c.BusinessUnit); err != nil {
			return err
		}
	}
	for _, p := range products {
		if p.Product == "" {
			continue
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO master_products (user_id, product, category, default_pmt, default_gm_percent)
			 VALUES ($1,$2,$3,$4,$5)
			 ON CONFLICT (user_id, product) DO UPDATE SET
			   category = EXCLUDED.category,
			   default_pmt = EXCLUDED.default_pmt,
			   default_gm_percent = EXCLUDED.default_gm_percent`,
			userID, p.Product, p.Category, p.DefaultPMT, p.DefaultGMPercent); err != nil {
			return err
		}
	}
	return nil
}
