package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harufuji/kakeibo/internal/logging"
	"harufuji/kakeibo/internal/models"
)

// mockLedger records commit calls for verification.
type mockLedger struct {
	calls   int
	lastLen int
	batches [][]models.Transaction
	err     error
}

func (m *mockLedger) CommitTransactions(_ context.Context, _ string, records []models.Transaction) (int, error) {
	m.calls++
	m.lastLen = len(records)
	m.batches = append(m.batches, records)
	if m.err != nil {
		return 0, m.err
	}
	return len(records), nil
}

func (m *mockLedger) CommitSingle(_ context.Context, _ models.Transaction) (string, error) {
	return "", errors.New("not used")
}

func candidates(n int) []models.TransactionCandidate {
	out := make([]models.TransactionCandidate, n)
	for i := range out {
		out[i] = models.TransactionCandidate{
			Date:              "2024-03-15",
			Amount:            -1000,
			Kind:              models.KindExpense,
			Description:       "テスト行",
			SuggestedCategory: models.CategoryMisc,
		}
	}
	return out
}

func validAny(id string) bool { return id != "" }

func newPreviewSession(t *testing.T, n int) *Session {
	t.Helper()
	s := NewSession("book-1", validAny, &logging.MockLogger{})
	require.NoError(t, s.Load(candidates(n)))
	return s
}

func TestSession_Lifecycle(t *testing.T) {
	s := NewSession("book-1", validAny, &logging.MockLogger{})
	assert.Equal(t, StateUpload, s.State())

	require.NoError(t, s.Load(candidates(2)))
	assert.Equal(t, StatePreview, s.State())

	rows := s.Rows()
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.True(t, row.Included, "rows default to included")
	}

	ledger := &mockLedger{}
	count, err := s.Commit(context.Background(), ledger)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, StateCommitted, s.State())
}

func TestSession_CommitZeroIncludedRejected(t *testing.T) {
	s := newPreviewSession(t, 2)
	require.NoError(t, s.ToggleRow(0))
	require.NoError(t, s.ToggleRow(1))

	ledger := &mockLedger{}
	_, err := s.Commit(context.Background(), ledger)

	assert.ErrorIs(t, err, ErrNoRowsSelected)
	assert.Equal(t, 0, ledger.calls, "no persistence call may be made")
	assert.Equal(t, StatePreview, s.State(), "session stays in preview")
}

func TestSession_CommitPartialSelection(t *testing.T) {
	s := newPreviewSession(t, 5)
	require.NoError(t, s.ToggleRow(1))
	require.NoError(t, s.ToggleRow(3))

	ledger := &mockLedger{}
	count, err := s.Commit(context.Background(), ledger)

	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, 1, ledger.calls, "one batch call with the included rows")
	assert.Equal(t, 3, ledger.lastLen)
}

func TestSession_CategoryOverrideApplied(t *testing.T) {
	s := newPreviewSession(t, 1)
	require.NoError(t, s.SetRowCategory(0, models.CategorySupplies))

	ledger := &mockLedger{}
	_, err := s.Commit(context.Background(), ledger)
	require.NoError(t, err)

	require.Len(t, ledger.batches, 1)
	assert.Equal(t, models.CategorySupplies, ledger.batches[0][0].Category)
	assert.Equal(t, models.SourceCSV, ledger.batches[0][0].Source)
	assert.Equal(t, int64(1000), ledger.batches[0][0].Amount, "amount is stored unsigned")
}

func TestSession_SetRowCategoryValidation(t *testing.T) {
	taxonomy := map[string]bool{models.CategorySupplies: true}
	s := NewSession("book-1", func(id string) bool { return taxonomy[id] }, &logging.MockLogger{})
	require.NoError(t, s.Load(candidates(1)))

	assert.NoError(t, s.SetRowCategory(0, models.CategorySupplies))
	assert.Error(t, s.SetRowCategory(0, "not-a-category"))
	assert.Error(t, s.SetRowCategory(5, models.CategorySupplies))
	assert.Error(t, s.SetRowCategory(-1, models.CategorySupplies))
}

func TestSession_PersistenceFailureKeepsPreview(t *testing.T) {
	s := newPreviewSession(t, 3)

	ledger := &mockLedger{err: errors.New("disk full")}
	_, err := s.Commit(context.Background(), ledger)

	require.Error(t, err)
	assert.Equal(t, StatePreview, s.State(), "failed commit keeps the preview for retry")
	assert.Len(t, s.Rows(), 3)

	// Retry without re-parsing succeeds
	ok := &mockLedger{}
	count, err := s.Commit(context.Background(), ok)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestSession_SingleUse(t *testing.T) {
	s := newPreviewSession(t, 1)
	_, err := s.Commit(context.Background(), &mockLedger{})
	require.NoError(t, err)

	_, err = s.Commit(context.Background(), &mockLedger{})
	assert.ErrorIs(t, err, ErrSessionCommitted)
	assert.ErrorIs(t, s.Load(candidates(1)), ErrSessionCommitted)
	assert.ErrorIs(t, s.ToggleRow(0), ErrSessionCommitted)
	assert.ErrorIs(t, s.Reset(), ErrSessionCommitted)
}

func TestSession_ReloadDiscardsPreviousPreview(t *testing.T) {
	s := newPreviewSession(t, 4)
	require.NoError(t, s.ToggleRow(0))

	require.NoError(t, s.Load(candidates(2)))
	rows := s.Rows()
	require.Len(t, rows, 2)
	assert.True(t, rows[0].Included, "fresh load resets inclusion flags")
}

func TestSession_OperationsBeforeLoad(t *testing.T) {
	s := NewSession("book-1", validAny, &logging.MockLogger{})

	assert.ErrorIs(t, s.ToggleRow(0), ErrNoPreview)
	_, err := s.Commit(context.Background(), &mockLedger{})
	assert.ErrorIs(t, err, ErrNoPreview)
}

func TestRow_Category(t *testing.T) {
	row := Row{Candidate: models.TransactionCandidate{SuggestedCategory: models.CategoryTravel}}
	assert.Equal(t, models.CategoryTravel, row.Category())

	row.CategoryOverride = models.CategoryBooks
	assert.Equal(t, models.CategoryBooks, row.Category())

	empty := Row{}
	assert.Equal(t, models.CategoryMisc, empty.Category())
}
