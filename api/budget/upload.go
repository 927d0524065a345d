package budget

import (
	"encoding/csv"
	"errors"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"TradeBudgetSaas/api"
	"TradeBudgetSaas/api/auth"
	"TradeBudgetSaas/api/constants"
	"TradeBudgetSaas/api/master"
	"TradeBudgetSaas/internal/budgetcore"
	"TradeBudgetSaas/internal/config"

	"github.com/extrame/xls"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/xuri/excelize/v2"
)

func getFileExt(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// parseBudgetSheet reads the named sheet of an uploaded file into a raw cell
// grid. CSV files have a single implicit sheet; the sheet name is ignored.
func parseBudgetSheet(file multipart.File, ext, sheet string) ([][]string, error) {
	switch ext {
	case ".csv":
		r := csv.NewReader(file)
		r.FieldsPerRecord = -1
		records, err := r.ReadAll()
		if err != nil {
			return nil, &budgetcore.SchemaError{Msg: constants.ErrUnreadableWorkbook, Err: err}
		}
		return records, nil
	case ".xlsx":
		f, err := excelize.OpenReader(file)
		if err != nil {
			return nil, &budgetcore.SchemaError{Msg: constants.ErrUnreadableWorkbook, Err: err}
		}
		defer f.Close()
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, &budgetcore.SchemaError{Msg: constants.ErrMissingSheet, Err: err}
		}
		return rows, nil
	case ".xls":
		wb, err := xls.OpenReader(file, "utf-8")
		if err != nil {
			return nil, &budgetcore.SchemaError{Msg: constants.ErrUnreadableWorkbook, Err: err}
		}
		for i := 0; i < wb.NumSheets(); i++ {
			s := wb.GetSheet(i)
			if s == nil || !strings.EqualFold(s.Name, sheet) {
				continue
			}
			rows := make([][]string, 0, int(s.MaxRow)+1)
			for r := 0; r <= int(s.MaxRow); r++ {
				row := s.Row(r)
				if row == nil {
					rows = append(rows, []string{})
					continue
				}
				rec := make([]string, 0, row.LastCol()+1)
				for c := 0; c <= row.LastCol(); c++ {
					rec = append(rec, row.Col(c))
				}
				rows = append(rows, rec)
			}
			return rows, nil
		}
		return nil, &budgetcore.SchemaError{Msg: constants.ErrMissingSheet}
	}
	return nil, errors.New(constants.ErrUnsupportedFile)
}

// ingestRecords runs the full ingestion pipeline on a raw sheet: normalize
// under the detected shape, reshape wide data to narrow rows, recalculate
// against the catalog and assign identifiers. An empty or header-only sheet
// yields an empty row set, never an error.
func ingestRecords(records [][]string, catalog budgetcore.Catalog) ([]budgetcore.Row, error) {
	table, err := budgetcore.NewTable(records)
	if err != nil {
		return nil, err
	}
	var narrow []budgetcore.Row
	if budgetcore.DetectShape(table.Header) == budgetcore.WideShape {
		wide := budgetcore.NormalizeWide(table)
		wide = budgetcore.RecalculateWide(wide, catalog)
		narrow = budgetcore.WideToNarrow(wide)
		narrow = budgetcore.Recalculate(narrow, catalog)
	} else {
		narrow = budgetcore.NormalizeNarrow(table)
		narrow = budgetcore.Recalculate(narrow, catalog)
	}
	return budgetcore.EnsureRowIDs(narrow), nil
}

// UploadBudget ingests a budget sheet and replaces the user's entire row
// set with the result. Wide and narrow layouts are auto-detected from the
// header row.
func UploadBudget(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "Failed to parse multipart form")
			return
		}
		userID := r.FormValue("user_id")
		session, ok := auth.FindSessionByUserID(userID)
		if !ok {
			api.RespondWithError(w, http.StatusUnauthorized, constants.ErrInvalidSession)
			return
		}
		sheet := r.FormValue("sheet")
		if sheet == "" {
			sheet = config.DefaultBudgetSheet
		}
		if r.MultipartForm == nil || len(r.MultipartForm.File) == 0 {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrNoFileProvided)
			return
		}
		var fileHeader *multipart.FileHeader
		for _, files := range r.MultipartForm.File {
			if len(files) > 0 {
				fileHeader = files[0]
				break
			}
		}
		if fileHeader == nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrNoFileProvided)
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "Failed to open file: "+fileHeader.Filename)
			return
		}
		defer file.Close()

		records, err := parseBudgetSheet(file, getFileExt(fileHeader.Filename), sheet)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "Failed to load budget: "+err.Error())
			return
		}

		products, err := master.LoadProducts(ctx, pgxPool, userID)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrQueryFailed+err.Error())
			return
		}
		rows, err := ingestRecords(records, budgetcore.BuildCatalog(products))
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		tx, err := pgxPool.Begin(ctx)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrTxStartFailed+err.Error())
			return
		}
		defer tx.Rollback(ctx)
		if err := replaceEntries(ctx, tx, userID, rows); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if err := insertAudit(ctx, tx, userID, session.Name, constants.ActionUploadBudget, fileHeader.Filename); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if err := tx.Commit(ctx); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrTxCommitFailed+err.Error())
			return
		}

		api.LogInfo("budget replaced for user %s: %d rows from %s", userID, len(rows), fileHeader.Filename)
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"entries": rows,
			"message": "Budget loaded from " + sheet + " sheet",
		})
	}
}
