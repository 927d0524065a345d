package budget

import (
	"context"

	"TradeBudgetSaas/internal/budgetcore"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const entryColumns = `rid, business_unit, section, client, category, product, month,
	qty_mt, pmt_jod, gp_percent, sales_jod, gp_jod, ppmt_jod, sector, booked`

// fetchEntries loads a user's full canonical row set, oldest first.
func fetchEntries(ctx context.Context, pool *pgxpool.Pool, userID string) ([]budgetcore.Row, error) {
	q := `SELECT ` + entryColumns + ` FROM budget_entries WHERE user_id = $1 ORDER BY created_at, rid`
	rows, err := pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]budgetcore.Row, 0)
	for rows.Next() {
		var r budgetcore.Row
		if err := rows.Scan(
			&r.RID, &r.BusinessUnit, &r.Section, &r.Client, &r.Category, &r.Product, &r.Month,
			&r.Qty, &r.PMT, &r.GPPercent, &r.Sales, &r.GP, &r.PPMT, &r.Sector, &r.Booked,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func insertEntry(ctx context.Context, tx pgx.Tx, userID string, r budgetcore.Row) error {
	q := `INSERT INTO budget_entries (` + entryColumns + `, user_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`
	_, err := tx.Exec(ctx, q,
		r.RID, r.BusinessUnit, r.Section, r.Client, r.Category, r.Product, r.Month,
		r.Qty, r.PMT, r.GPPercent, r.Sales, r.GP, r.PPMT, r.Sector, r.Booked, userID)
	return err
}

func updateEntry(ctx context.Context, tx pgx.Tx, userID string, r budgetcore.Row) (bool, error) {
	q := `UPDATE budget_entries SET
		business_unit=$1, section=$2, client=$3, category=$4, product=$5, month=$6,
		qty_mt=$7, pmt_jod=$8, gp_percent=$9, sales_jod=$10, gp_jod=$11, ppmt_jod=$12,
		sector=$13, booked=$14
		WHERE rid=$15 AND user_id=$16`
	tag, err := tx.Exec(ctx, q,
		r.BusinessUnit, r.Section, r.Client, r.Category, r.Product, r.Month,
		r.Qty, r.PMT, r.GPPercent, r.Sales, r.GP, r.PPMT, r.Sector, r.Booked,
		r.RID, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func deleteEntry(ctx context.Context, tx pgx.Tx, userID, rid string) (bool, error) {
	tag, err := tx.Exec(ctx, `DELETE FROM budget_entries WHERE rid=$1 AND user_id=$2`, rid, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// replaceEntries implements bulk ingestion as a full replace: the prior row
// set is deleted and the new one inserted inside one transaction, so a
// failure mid-replace never leaves the user with zero rows.
func replaceEntries(ctx context.Context, tx pgx.Tx, userID string, rows []budgetcore.Row) error {
	if _, err := tx.Exec(ctx, `DELETE FROM budget_entries WHERE user_id=$1`, userID); err != nil {
		return err
	}
	for _, r := range rows {
		if err := insertEntry(ctx, tx, userID, r); err != nil {
			return err
		}
	}
	return nil
}

func insertAudit(ctx context.Context, tx pgx.Tx, userID, userName, action, details string) error {
	q := `INSERT INTO audit_actions (user_id, user_name, action, details, requested_at)
		VALUES ($1,$2,$3,$4,now())`
	_, err := tx.Exec(ctx, q, userID, userName, action, details)
	return err
}
