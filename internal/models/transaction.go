package models

import (
	"fmt"
	"time"

	"harufuji/kakeibo/internal/parsererror"
)

// TransactionKind distinguishes income from expense records.
type TransactionKind string

const (
	KindIncome  TransactionKind = "income"
	KindExpense TransactionKind = "expense"
)

// TransactionSource records how a transaction entered the book.
type TransactionSource string

const (
	SourceManual TransactionSource = "manual"
	SourceOCR    TransactionSource = "ocr"
	SourceCSV    TransactionSource = "csv"
	SourceAPI    TransactionSource = "api"
)

// Transaction is the persisted bookkeeping record. Amount is a non-negative
// whole-yen value; Date is always YYYY-MM-DD; Category is one of the taxonomy
// ids.
type Transaction struct {
	ID          string            `json:"id"`
	BookID      string            `json:"book_id"`
	Kind        TransactionKind   `json:"kind"`
	Date        string            `json:"date"`
	Amount      int64             `json:"amount"`
	Category    string            `json:"category"`
	Description string            `json:"description"`
	Source      TransactionSource `json:"source"`
}

// Validate checks the transaction invariants before persistence.
func (t Transaction) Validate() error {
	if t.Kind != KindIncome && t.Kind != KindExpense {
		return t.invalid(fmt.Sprintf("invalid transaction kind %q", t.Kind))
	}
	if t.Amount < 0 {
		return t.invalid(fmt.Sprintf("negative amount %d", t.Amount))
	}
	if _, err := time.Parse("2006-01-02", t.Date); err != nil {
		return t.invalid(fmt.Sprintf("invalid date %q", t.Date))
	}
	if t.Category == "" {
		return t.invalid("empty category")
	}
	return nil
}

func (t Transaction) invalid(reason string) error {
	record := t.ID
	if record == "" {
		record = "transaction"
	}
	return &parsererror.ValidationError{Record: record, Reason: reason}
}

// TransactionCandidate is one normalized row of an uploaded CSV statement,
// alive only for the duration of an import session. Amount keeps the sign of
// the source row; Kind is derived from it during normalization.
type TransactionCandidate struct {
	Date              string          `json:"date"`
	Amount            int64           `json:"amount"`
	Kind              TransactionKind `json:"kind"`
	Description       string          `json:"description"`
	SuggestedCategory string          `json:"suggested_category"`
}

// ToTransaction converts the candidate into a persistable record for the
// given book, using category as the final (possibly user-overridden)
// taxonomy id.
func (c TransactionCandidate) ToTransaction(bookID, category string) Transaction {
	amount := c.Amount
	if amount < 0 {
		amount = -amount
	}
	return Transaction{
		BookID:      bookID,
		Kind:        c.Kind,
		Date:        c.Date,
		Amount:      amount,
		Category:    category,
		Description: c.Description,
		Source:      SourceCSV,
	}
}
