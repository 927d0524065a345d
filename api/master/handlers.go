package master

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"TradeBudgetSaas/api"
	"TradeBudgetSaas/api/auth"
	"TradeBudgetSaas/api/constants"
	"TradeBudgetSaas/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/xuri/excelize/v2"
)

// GetClients returns the user's client master for dropdown population.
func GetClients(pgxPool *pgxpool.Pool) http.HandlerFunc {
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
		clients, err := LoadClients(r.Context(), pgxPool, req.UserID)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrQueryFailed+err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", map[string]interface{}{"clients": clients})
	}
}

// GetProducts returns the user's product master.
func GetProducts(pgxPool *pgxpool.Pool) http.HandlerFunc {
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
		products, err := LoadProducts(r.Context(), pgxPool, req.UserID)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrQueryFailed+err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", map[string]interface{}{"products": products})
	}
}

// buildMasterTemplate assembles the downloadable master workbook with sample
// Clients and Products sheets.
func buildMasterTemplate() (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", config.ClientsSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(config.ClientsSheet, "A1", &[]interface{}{"Client", "Business Unit"}); err != nil {
		return nil, err
	}
	sample := seededClients[:2]
	for i, c := range sample {
		cellRef := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(config.ClientsSheet, cellRef, &[]interface{}{c.Client, c.BusinessUnit}); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(config.ProductsSheet); err != nil {
		return nil, err
	}
	header := []interface{}{"Product", "Category", "Default_PMT", "Default_GM%"}
	if err := f.SetSheetRow(config.ProductsSheet, "A1", &header); err != nil {
		return nil, err
	}
	for i, p := range seededProducts[:2] {
		cellRef := fmt.Sprintf("A%d", i+2)
		row := []interface{}{p.Product, p.Category, p.DefaultPMT, p.DefaultGMPercent}
		if err := f.SetSheetRow(config.ProductsSheet, cellRef, &row); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// DownloadTemplate serves the master-data upload template.
func DownloadTemplate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := buildMasterTemplate()
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		name := fmt.Sprintf("Master_Template_%s.xlsx", time.Now().Format(config.ExportTimeFormat))
		w.Header().Set("Content-Type", constants.ContentTypeXLSX)
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
		if err := f.Write(w); err != nil {
			api.LogError("template write failed: %v", err)
		}
	}
}
