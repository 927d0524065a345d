package config

const (
	// Spreadsheet conventions
	DefaultBudgetSheet  = "Budget"
	ClientsSheet        = "Clients"
	ProductsSheet       = "Products"
	ExportSheet         = "Budget"
	ExportFilePrefix    = "Budget_Export_"
	ExportTimeFormat    = "20060102_150405"

	// Units carried in column headers
	CurrencyUnit = "JOD"
	MassUnit     = "MT"

	// Retention defaults for the cron service
	DefaultAuditRetentionDays = 90
	DefaultRetentionSchedule  = "0 2 * * *" // nightly at 02:00
)
