package budget

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"TradeBudgetSaas/api"
	"TradeBudgetSaas/api/auth"
	"TradeBudgetSaas/api/constants"
	"TradeBudgetSaas/internal/budgetcore"
	"TradeBudgetSaas/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/xuri/excelize/v2"
)

// buildExportWorkbook renders rows into a Budget sheet using the fixed
// narrow column order. The identifier column is excluded from exports.
func buildExportWorkbook(rows []budgetcore.Row) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", config.ExportSheet); err != nil {
		return nil, err
	}
	cols := budgetcore.ExportColumns()
	header := make([]interface{}, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	if err := f.SetSheetRow(config.ExportSheet, "A1", &header); err != nil {
		return nil, err
	}
	for i, r := range rows {
		rec := []interface{}{
			r.BusinessUnit, r.Section, r.Client, r.Category, r.Product, r.Month,
			r.Qty, r.PMT, r.GPPercent, r.Sales, r.GP, r.PPMT, r.Sector, r.Booked,
		}
		cellRef := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(config.ExportSheet, cellRef, &rec); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// DownloadBudget streams the user's current entries as an xlsx attachment.
func DownloadBudget(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("user_id")
		if userID == "" && r.Body != nil {
			var req struct {
				UserID string `json:"user_id"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
				userID = req.UserID
			}
		}
		session, ok := auth.FindSessionByUserID(userID)
		if !ok {
			api.RespondWithError(w, http.StatusUnauthorized, constants.ErrInvalidSession)
			return
		}
		ctx := r.Context()
		entries, err := fetchEntries(ctx, pgxPool, userID)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrQueryFailed+err.Error())
			return
		}
		f, err := buildExportWorkbook(entries)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, "Failed to build export: "+err.Error())
			return
		}

		if _, err := pgxPool.Exec(ctx,
			`INSERT INTO audit_actions (user_id, user_name, action, details, requested_at) VALUES ($1,$2,$3,$4,now())`,
			userID, session.Name, constants.ActionExport, fmt.Sprintf("%d rows", len(entries))); err != nil {
			api.LogError("export audit insert failed: %v", err)
		}

		name := config.ExportFilePrefix + time.Now().Format(config.ExportTimeFormat) + ".xlsx"
		w.Header().Set("Content-Type", constants.ContentTypeXLSX)
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
		if err := f.Write(w); err != nil {
			api.LogError("export write failed: %v", err)
		}
	}
}
