package models

// ExtractedReceipt is the transient result of running the field extraction
// heuristic over raw OCR text. A zero Amount, today's Date and an empty
// Description are valid defaults meaning "could not determine", not errors;
// the caller must let the user correct the values before anything is
// persisted.
type ExtractedReceipt struct {
	Amount      int64  `json:"amount"`
	Date        string `json:"date"`
	Description string `json:"description"`
}
