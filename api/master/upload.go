package master

import (
	"errors"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"TradeBudgetSaas/api"
	"TradeBudgetSaas/api/auth"
	"TradeBudgetSaas/api/constants"
	"TradeBudgetSaas/internal/budgetcore"
	"TradeBudgetSaas/internal/config"

	"github.com/extrame/xls"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/xuri/excelize/v2"
)

func getFileExt(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// readMasterWorkbook pulls the Clients and Products sheets out of an
// uploaded workbook. Both sheets must be present; anything else is an input
// shape error, surfaced before any processing.
func readMasterWorkbook(file multipart.File, ext string) (clients, products [][]string, err error) {
	switch ext {
	case ".xlsx":
		f, err := excelize.OpenReader(file)
		if err != nil {
			return nil, nil, &budgetcore.SchemaError{Msg: constants.ErrUnreadableWorkbook, Err: err}
		}
		defer f.Close()
		clients, err = f.GetRows(config.ClientsSheet)
		if err != nil {
			return nil, nil, &budgetcore.SchemaError{Msg: constants.ErrMissingSheet, Err: err}
		}
		products, err = f.GetRows(config.ProductsSheet)
		if err != nil {
			return nil, nil, &budgetcore.SchemaError{Msg: constants.ErrMissingSheet, Err: err}
		}
		return clients, products, nil
	case ".xls":
		wb, err := xls.OpenReader(file, "utf-8")
		if err != nil {
			return nil, nil, &budgetcore.SchemaError{Msg: constants.ErrUnreadableWorkbook, Err: err}
		}
		clients = xlsSheetRows(wb, config.ClientsSheet)
		products = xlsSheetRows(wb, config.ProductsSheet)
		if clients == nil || products == nil {
			return nil, nil, &budgetcore.SchemaError{Msg: constants.ErrMissingSheet}
		}
		return clients, products, nil
	}
	return nil, nil, errors.New(constants.ErrUnsupportedFile)
}

func xlsSheetRows(wb *xls.WorkBook, name string) [][]string {
	for i := 0; i < wb.NumSheets(); i++ {
		sheet := wb.GetSheet(i)
		if sheet == nil || !strings.EqualFold(sheet.Name, name) {
			continue
		}
		rows := make([][]string, 0, int(sheet.MaxRow)+1)
		for r := 0; r <= int(sheet.MaxRow); r++ {
			row := sheet.Row(r)
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
		return rows
	}
	return nil
}

func parseClientRows(records [][]string) ([]ClientEntry, error) {
	t, err := budgetcore.NewTable(records)
	if err != nil {
		return nil, err
	}
	idx := make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		idx[strings.TrimSpace(h)] = i
	}
	cell := func(rec []string, col string) string {
		if i, ok := idx[col]; ok && i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}
	out := make([]ClientEntry, 0, len(t.Rows))
	for _, rec := range t.Rows {
		c := ClientEntry{Client: cell(rec, "Client"), BusinessUnit: cell(rec, "Business Unit")}
		if c.Client == "" {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func parseProductRows(records [][]string) ([]budgetcore.CatalogEntry, error) {
	t, err := budgetcore.NewTable(records)
	if err != nil {
		return nil, err
	}
	idx := make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		idx[strings.TrimSpace(h)] = i
	}
	cell := func(rec []string, col string) string {
		if i, ok := idx[col]; ok && i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}
	out := make([]budgetcore.CatalogEntry, 0, len(t.Rows))
	for _, rec := range t.Rows {
		e := budgetcore.CatalogEntry{
			Product:          cell(rec, "Product"),
			Category:         cell(rec, "Category"),
			DefaultPMT:       budgetcore.CleanNumeric(cell(rec, "Default_PMT")),
			DefaultGMPercent: budgetcore.CleanNumeric(cell(rec, "Default_GM%")),
		}
		if e.Product == "" {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// UploadMasters replaces the user's client and product masters from an
// uploaded workbook with "Clients" and "Products" sheets.
func UploadMasters(pgxPool *pgxpool.Pool) http.HandlerFunc {
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
		fileHeader, err := firstUploadedFile(r)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrNoFileProvided)
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "Failed to open file: "+fileHeader.Filename)
			return
		}
		defer file.Close()

		clientRecords, productRecords, err := readMasterWorkbook(file, getFileExt(fileHeader.Filename))
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "Failed to load master data: "+err.Error())
			return
		}
		clients, err := parseClientRows(clientRecords)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		products, err := parseProductRows(productRecords)
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

		if err := replaceMasters(ctx, tx, userID, clients, products); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		auditQ := `INSERT INTO audit_actions (user_id, user_name, action, details, requested_at)
			VALUES ($1,$2,$3,$4,now())`
		if _, err := tx.Exec(ctx, auditQ, userID, session.Name, constants.ActionUploadMaster, fileHeader.Filename); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if err := tx.Commit(ctx); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrTxCommitFailed+err.Error())
			return
		}

		api.LogInfo("masters replaced for user %s: %d clients, %d products", userID, len(clients), len(products))
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"masters": map[string]interface{}{
				"clients":  clients,
				"products": products,
			},
			"message": "Master data loaded successfully",
		})
	}
}

func firstUploadedFile(r *http.Request) (*multipart.FileHeader, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File) == 0 {
		return nil, errors.New(constants.ErrNoFileProvided)
	}
	for _, files := range r.MultipartForm.File {
		if len(files) > 0 {
			return files[0], nil
		}
	}
	return nil, errors.New(constants.ErrNoFileProvided)
}
