package constants

// Common error messages
const (
	ErrInvalidSession     = "invalid user_id or session"
	ErrInvalidJSON        = "Invalid JSON"
	ErrUserIDRequired     = "user_id required"
	ErrNoFileProvided     = "No file provided"
	ErrUnsupportedFile    = "unsupported file type"
	ErrMethodNotAllowed   = "Method Not Allowed"
	ErrMissingSheet       = "missing expected sheet"
	ErrUnreadableWorkbook = "unreadable workbook"
)

// DB / SQL error templates
const (
	ErrTxStartFailed  = "failed to start transaction: "
	ErrTxCommitFailed = "failed to commit transaction: "
	ErrQueryFailed    = "query failed: "
)

// Content types
const (
	ContentTypeJSON = "application/json"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Audit action names
const (
	ActionAddEntry     = "ADD_ENTRY"
	ActionUploadBudget = "UPLOAD_BUDGET"
	ActionCommit       = "COMMIT_CHANGES"
	ActionRecalc       = "RECALCULATE"
	ActionClear        = "CLEAR_DATA"
	ActionUploadMaster = "UPLOAD_MASTERS"
	ActionExport       = "EXPORT_BUDGET"
)
