package logging

// Standardized field names for structured logging.
const (
	FieldFile      = "file_path"
	FieldBook      = "book_id"
	FieldCategory  = "category"
	FieldKeyword   = "keyword"
	FieldCount     = "count"
	FieldAmount    = "amount"
	FieldDate      = "date"
	FieldStage     = "stage"
	FieldDialect   = "dialect"
	FieldReason    = "reason"
	FieldOperation = "operation"
)
