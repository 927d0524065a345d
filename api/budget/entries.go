package budget

import (
	"encoding/json"
	"fmt"
	"net/http"

	"TradeBudgetSaas/api"
	"TradeBudgetSaas/api/auth"
	"TradeBudgetSaas/api/constants"
	"TradeBudgetSaas/api/master"
	"TradeBudgetSaas/internal/budgetcore"

	"github.com/jackc/pgx/v5/pgxpool"
)

// GetState returns the user's entries plus both master lists in one shot,
// the payload the UI boots from.
func GetState(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID string `json:"user_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		if _, ok := auth.FindSessionByUserID(req.UserID); !ok {
			api.RespondWithError(w, http.StatusUnauthorized, constants.ErrInvalidSession)
			return
		}
		ctx := r.Context()
		entries, err := fetchEntries(ctx, pgxPool, req.UserID)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrQueryFailed+err.Error())
			return
		}
		clients, err := master.LoadClients(ctx, pgxPool, req.UserID)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrQueryFailed+err.Error())
			return
		}
		products, err := master.LoadProducts(ctx, pgxPool, req.UserID)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrQueryFailed+err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"entries": entries,
			"masters": map[string]interface{}{
				"clients":  clients,
				"products": products,
			},
		})
	}
}

// AddEntry creates one budget line interactively. Unlike bulk ingestion,
// required numeric fields here are rejected when zero or unparseable instead
// of defaulting: a placeholder zero must never be stored for them.
func AddEntry(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID       string      `json:"user_id"`
			BusinessUnit string      `json:"business_unit"`
			Section      string      `json:"section"`
			Client       string      `json:"client"`
			Product      string      `json:"product"`
			MonthName    interface{} `json:"month_name"`
			Qty          interface{} `json:"qty"`
			PMT          interface{} `json:"pmt"`
			GMPercent    interface{} `json:"gm_percent"`
			PPMT         interface{} `json:"ppmt"`
			Sector       string      `json:"sector"`
			Booked       string      `json:"booked"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		session, ok := auth.FindSessionByUserID(req.UserID)
		if !ok {
			api.RespondWithError(w, http.StatusUnauthorized, constants.ErrInvalidSession)
			return
		}
		booked := req.Booked
		if booked == "" {
			booked = "No"
		}
		row := budgetcore.Row{
			BusinessUnit: req.BusinessUnit,
			Section:      req.Section,
			Client:       req.Client,
			Product:      req.Product,
			Month:        budgetcore.MonthNameToNum(req.MonthName),
			Qty:          budgetcore.CleanNumeric(req.Qty),
			PMT:          budgetcore.CleanNumeric(req.PMT),
			GPPercent:    budgetcore.CleanNumeric(req.GMPercent),
			PPMT:         budgetcore.CleanNumeric(req.PPMT),
			Sector:       req.Sector,
			Booked:       booked,
		}
		if err := budgetcore.ValidateEntry(row); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		ctx := r.Context()
		products, err := master.LoadProducts(ctx, pgxPool, req.UserID)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrQueryFailed+err.Error())
			return
		}
		recalced := budgetcore.Recalculate([]budgetcore.Row{row}, budgetcore.BuildCatalog(products))
		recalced = budgetcore.EnsureRowIDs(recalced)

		tx, err := pgxPool.Begin(ctx)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrTxStartFailed+err.Error())
			return
		}
		defer tx.Rollback(ctx)
		if err := insertEntry(ctx, tx, req.UserID, recalced[0]); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if err := insertAudit(ctx, tx, req.UserID, session.Name, constants.ActionAddEntry, recalced[0].RID); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if err := tx.Commit(ctx); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrTxCommitFailed+err.Error())
			return
		}

		entries, err := fetchEntries(ctx, pgxPool, req.UserID)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrQueryFailed+err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"entries": entries,
			"message": "Entry added successfully",
		})
	}
}

// CommitChanges applies edits and deletions in one transaction, keyed
// entirely by row identifier. Identifiers that match nothing are reported
// per id without failing the rest of the batch.
func CommitChanges(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID    string           `json:"user_id"`
			Rows      []budgetcore.Row `json:"rows"`
			DeleteIDs []string         `json:"deleteIds"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		session, ok := auth.FindSessionByUserID(req.UserID)
		if !ok {
			api.RespondWithError(w, http.StatusUnauthorized, constants.ErrInvalidSession)
			return
		}
		ctx := r.Context()

		products, err := master.LoadProducts(ctx, pgxPool, req.UserID)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrQueryFailed+err.Error())
			return
		}
		// Edited rows keep their identifiers; derived fields are refreshed
		// before persisting. Rows arriving without an id become new rows.
		edited := budgetcore.Recalculate(req.Rows, budgetcore.BuildCatalog(products))
		edited = budgetcore.EnsureRowIDs(edited)

		tx, err := pgxPool.Begin(ctx)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrTxStartFailed+err.Error())
			return
		}
		defer tx.Rollback(ctx)

		results := make([]map[string]interface{}, 0, len(req.DeleteIDs)+len(edited))
		for _, id := range req.DeleteIDs {
			found, err := deleteEntry(ctx, tx, req.UserID, id)
			if err != nil {
				api.RespondWithError(w, http.StatusInternalServerError, err.Error())
				return
			}
			if !found {
				results = append(results, map[string]interface{}{"success": false, "error": "not found", "_rid": id})
				continue
			}
			results = append(results, map[string]interface{}{"success": true, "_rid": id, "deleted": true})
		}
		deleted := make(map[string]bool, len(req.DeleteIDs))
		for _, id := range req.DeleteIDs {
			deleted[id] = true
		}
		for _, row := range edited {
			if deleted[row.RID] {
				continue
			}
			found, err := updateEntry(ctx, tx, req.UserID, row)
			if err != nil {
				api.RespondWithError(w, http.StatusInternalServerError, err.Error())
				return
			}
			if !found {
				if err := insertEntry(ctx, tx, req.UserID, row); err != nil {
					api.RespondWithError(w, http.StatusInternalServerError, err.Error())
					return
				}
			}
			results = append(results, map[string]interface{}{"success": true, "_rid": row.RID})
		}

		details := fmt.Sprintf("%d edited, %d deleted", len(edited), len(req.DeleteIDs))
		if err := insertAudit(ctx, tx, req.UserID, session.Name, constants.ActionCommit, details); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if err := tx.Commit(ctx); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrTxCommitFailed+err.Error())
			return
		}

		entries, err := fetchEntries(ctx, pgxPool, req.UserID)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrQueryFailed+err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"entries": entries,
			"results": results,
			"message": "Changes committed successfully",
		})
	}
}

// RecalcAll refreshes category and the derived financial fields of every
// row against the current product catalog. Identifiers and user-entered
// inputs are untouched.
func RecalcAll(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID string `json:"user_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		session, ok := auth.FindSessionByUserID(req.UserID)
		if !ok {
			api.RespondWithError(w, http.StatusUnauthorized, constants.ErrInvalidSession)
			return
		}
		ctx := r.Context()
		entries, err := fetchEntries(ctx, pgxPool, req.UserID)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrQueryFailed+err.Error())
			return
		}
		products, err := master.LoadProducts(ctx, pgxPool, req.UserID)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrQueryFailed+err.Error())
			return
		}
		recalced := budgetcore.Recalculate(entries, budgetcore.BuildCatalog(products))

		tx, err := pgxPool.Begin(ctx)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrTxStartFailed+err.Error())
			return
		}
		defer tx.Rollback(ctx)
		for _, row := range recalced {
			if _, err := updateEntry(ctx, tx, req.UserID, row); err != nil {
				api.RespondWithError(w, http.StatusInternalServerError, err.Error())
				return
			}
		}
		if err := insertAudit(ctx, tx, req.UserID, session.Name, constants.ActionRecalc, fmt.Sprintf("%d rows", len(recalced))); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if err := tx.Commit(ctx); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrTxCommitFailed+err.Error())
			return
		}

		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"entries": recalced,
			"message": "Data recalculated successfully",
		})
	}
}

// ClearAll removes every entry for the user.
func ClearAll(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID string `json:"user_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		session, ok := auth.FindSessionByUserID(req.UserID)
		if !ok {
			api.RespondWithError(w, http.StatusUnauthorized, constants.ErrInvalidSession)
			return
		}
		ctx := r.Context()
		tx, err := pgxPool.Begin(ctx)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrTxStartFailed+err.Error())
			return
		}
		defer tx.Rollback(ctx)
		if _, err := tx.Exec(ctx, `DELETE FROM budget_entries WHERE user_id=$1`, req.UserID); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if err := insertAudit(ctx, tx, req.UserID, session.Name, constants.ActionClear, ""); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if err := tx.Commit(ctx); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrTxCommitFailed+err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"entries": []budgetcore.Row{},
			"message": "Budget data cleared successfully",
		})
	}
}
