// Package ledger persists confirmed transactions in a local bbolt database.
// Both commit operations run inside a single bolt update transaction, so a
// batch either lands completely or not at all.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"harufuji/kakeibo/internal/logging"
	"harufuji/kakeibo/internal/models"
)

var bucketTransactions = []byte("transactions")

// Bolt is a bbolt-backed transaction ledger.
type Bolt struct {
	db     *bolt.DB
	logger logging.Logger
}

// Open opens (or creates) the ledger database at path.
func Open(path string, logger logging.Logger) (*Bolt, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening ledger database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketTransactions)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating transactions bucket: %w", err)
	}

	return &Bolt{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (l *Bolt) Close() error {
	return l.db.Close()
}

// CommitTransactions persists a batch atomically and returns the number of
// records written. Records get fresh ids unless one is already set.
func (l *Bolt) CommitTransactions(ctx context.Context, bookID string, records []models.Transaction) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	err := l.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketTransactions)
		for i := range records {
			records[i].BookID = bookID
			if err := putRecord(b, &records[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	l.logger.WithField(logging.FieldCount, len(records)).
		WithField(logging.FieldBook, bookID).
		Info("Committed transaction batch")
	return len(records), nil
}

// CommitSingle persists one record and returns its id.
func (l *Bolt) CommitSingle(ctx context.Context, record models.Transaction) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	err := l.db.Update(func(tx *bolt.Tx) error {
		return putRecord(tx.Bucket(bucketTransactions), &record)
	})
	if err != nil {
		return "", err
	}

	l.logger.WithField(logging.FieldBook, record.BookID).
		WithField(logging.FieldAmount, record.Amount).
		Info("Committed transaction")
	return record.ID, nil
}

// ListByBook returns all transactions of a book, in stable key order.
func (l *Bolt) ListByBook(ctx context.Context, bookID string) ([]models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []models.Transaction
	err := l.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketTransactions).ForEach(func(_, v []byte) error {
			var record models.Transaction
			if err := json.Unmarshal(v, &record); err != nil {
				return fmt.Errorf("corrupt transaction record: %w", err)
			}
			if record.BookID == bookID {
				out = append(out, record)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func putRecord(b *bolt.Bucket, record *models.Transaction) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if err := record.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshaling transaction: %w", err)
	}
	return b.Put([]byte(record.ID), data)
}
