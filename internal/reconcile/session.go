// Package reconcile implements the import preview session: parsed statement
// rows are held in memory with per-row inclusion flags and category
// overrides until the user commits the selection or abandons the session.
// One session exists per user flow; starting a new import discards the
// previous uncommitted one.
package reconcile

import (
	"context"
	"errors"
	"fmt"

	"harufuji/kakeibo/internal/logging"
	"harufuji/kakeibo/internal/models"
	"harufuji/kakeibo/internal/parsererror"
)

// State is the import session state.
type State string

const (
	StateUpload    State = "upload"
	StatePreview   State = "preview"
	StateCommitted State = "committed"
)

var (
	// ErrNoRowsSelected is returned when a commit is attempted with every
	// row excluded. The session stays in Preview.
	ErrNoRowsSelected = errors.New("no rows selected for import")

	// ErrSessionCommitted is returned when a committed (single-use) session
	// is reused.
	ErrSessionCommitted = errors.New("import session already committed")

	// ErrNoPreview is returned for row operations before any rows are
	// loaded.
	ErrNoPreview = errors.New("no rows loaded in import session")
)

// Ledger is the persistence collaborator. Both operations are atomic per
// call: either every record of a batch is recorded or none.
type Ledger interface {
	CommitTransactions(ctx context.Context, bookID string, records []models.Transaction) (int, error)
	CommitSingle(ctx context.Context, record models.Transaction) (string, error)
}

// Row is one candidate with its user-editable import decisions.
type Row struct {
	Candidate        models.TransactionCandidate
	Included         bool
	CategoryOverride string // empty means "use the suggestion"
}

// Category returns the effective category of the row.
func (r Row) Category() string {
	if r.CategoryOverride != "" {
		return r.CategoryOverride
	}
	if r.Candidate.SuggestedCategory != "" {
		return r.Candidate.SuggestedCategory
	}
	return models.CategoryMisc
}

// Session is the per-user import state machine: Upload -> Preview ->
// Committed, with Preview re-enterable by loading a new row set.
type Session struct {
	state         State
	bookID        string
	rows          []Row
	validCategory func(string) bool
	logger        logging.Logger
}

// NewSession creates a session for a book in the Upload state. validCategory
// guards user overrides against unknown taxonomy ids; nil accepts anything
// non-empty.
func NewSession(bookID string, validCategory func(string) bool, logger logging.Logger) *Session {
	if validCategory == nil {
		validCategory = func(id string) bool { return id != "" }
	}
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Session{
		state:         StateUpload,
		bookID:        bookID,
		validCategory: validCategory,
		logger:        logger,
	}
}

// State returns the current session state.
func (s *Session) State() State {
	return s.state
}

// Load moves the session into Preview with a fresh row set, every row
// included by default. Loading over an existing preview discards it; loading
// after commit is rejected (sessions are single-use).
func (s *Session) Load(candidates []models.TransactionCandidate) error {
	if s.state == StateCommitted {
		return ErrSessionCommitted
	}

	s.rows = make([]Row, len(candidates))
	for i, c := range candidates {
		s.rows[i] = Row{Candidate: c, Included: true}
	}
	s.state = StatePreview

	s.logger.WithField(logging.FieldCount, len(s.rows)).
		WithField(logging.FieldBook, s.bookID).
		Info("Import session loaded")
	return nil
}

// Rows returns a copy of the current preview rows.
func (s *Session) Rows() []Row {
	out := make([]Row, len(s.rows))
	copy(out, s.rows)
	return out
}

// ToggleRow flips the inclusion flag of one row.
func (s *Session) ToggleRow(index int) error {
	if err := s.editable(index); err != nil {
		return err
	}
	s.rows[index].Included = !s.rows[index].Included
	return nil
}

// SetRowCategory overrides the suggested category of one row. The id must be
// part of the taxonomy.
func (s *Session) SetRowCategory(index int, categoryID string) error {
	if err := s.editable(index); err != nil {
		return err
	}
	if !s.validCategory(categoryID) {
		return fmt.Errorf("unknown category %q", categoryID)
	}
	s.rows[index].CategoryOverride = categoryID
	return nil
}

// Commit filters to the included rows, applies overrides and persists them
// as a single atomic batch. On any failure the session stays in Preview so
// the user can retry without re-parsing; on success it becomes Committed and
// the persisted count is returned.
func (s *Session) Commit(ctx context.Context, ledger Ledger) (int, error) {
	switch s.state {
	case StateCommitted:
		return 0, ErrSessionCommitted
	case StateUpload:
		return 0, ErrNoPreview
	}

	var records []models.Transaction
	for _, row := range s.rows {
		if !row.Included {
			continue
		}
		records = append(records, row.Candidate.ToTransaction(s.bookID, row.Category()))
	}

	if len(records) == 0 {
		return 0, ErrNoRowsSelected
	}

	count, err := ledger.CommitTransactions(ctx, s.bookID, records)
	if err != nil {
		s.logger.WithError(err).
			WithField(logging.FieldOperation, "batch import").
			Error("Import commit failed, keeping preview for retry")
		return 0, &parsererror.PersistenceError{Operation: "batch import", Err: err}
	}

	s.state = StateCommitted
	s.rows = nil

	s.logger.WithField(logging.FieldCount, count).
		WithField(logging.FieldBook, s.bookID).
		Info("Import session committed")
	return count, nil
}

// Reset abandons the preview and returns the session to Upload. A committed
// session stays committed.
func (s *Session) Reset() error {
	if s.state == StateCommitted {
		return ErrSessionCommitted
	}
	s.rows = nil
	s.state = StateUpload
	return nil
}

func (s *Session) editable(index int) error {
	if s.state == StateCommitted {
		return ErrSessionCommitted
	}
	if s.state != StatePreview {
		return ErrNoPreview
	}
	if index < 0 || index >= len(s.rows) {
		return fmt.Errorf("row index %d out of range [0,%d)", index, len(s.rows))
	}
	return nil
}
