// Package ledgerdb implements LedgerStore using BadgerHold.
// It stores transaction ledgers as generic LedgerRecord entries.
package ledgerdb

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/finsight-io/finsight/internal/common"
	"github.com/finsight-io/finsight/internal/interfaces"
	"github.com/finsight-io/finsight/internal/models"
)

// Compile-time interface check
var _ interfaces.LedgerStore = (*Store)(nil)

// Store implements interfaces.LedgerStore using BadgerHold.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// NewStore creates a new LedgerStore backed by BadgerHold.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create ledgerdb path %s: %w", path, err)
	}
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil
	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledgerdb at %s: %w", path, err)
	}
	logger.Info().Str("path", path).Msg("LedgerDB opened")
	return &Store{db: db, logger: logger}, nil
}

// keySep is the composite key separator. Using a null byte prevents
// collisions when subject or key contain ":" characters.
const keySep = "\x00"

// compositeKey builds the storage key: subject + \x00 + key
func compositeKey(subject, key string) string {
	return subject + keySep + key
}

func (s *Store) Get(_ context.Context, subject, key string) (*models.LedgerRecord, error) {
	ck := compositeKey(subject, key)
	var rec models.LedgerRecord
	if err := s.db.Get(ck, &rec); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("%s '%s' not found", subject, key)
		}
		return nil, fmt.Errorf("failed to get %s '%s': %w", subject, key, err)
	}
	return &rec, nil
}

func (s *Store) Put(_ context.Context, record *models.LedgerRecord) error {
	ck := compositeKey(record.Subject, record.Key)

	// Read existing to increment version
	var existing models.LedgerRecord
	if err := s.db.Get(ck, &existing); err == nil {
		record.Version = existing.Version + 1
	} else {
		record.Version = 1
	}
	record.DateTime = time.Now()

	if err := s.db.Upsert(ck, record); err != nil {
		return fmt.Errorf("failed to put %s '%s': %w", record.Subject, record.Key, err)
	}
	return nil
}

func (s *Store) Delete(_ context.Context, subject, key string) error {
	ck := compositeKey(subject, key)
	if err := s.db.Delete(ck, models.LedgerRecord{}); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete %s '%s': %w", subject, key, err)
	}
	return nil
}

func (s *Store) List(_ context.Context, subject string) ([]*models.LedgerRecord, error) {
	var all []models.LedgerRecord
	if err := s.db.Find(&all, nil); err != nil {
		return nil, fmt.Errorf("failed to list %s records: %w", subject, err)
	}
	var result []*models.LedgerRecord
	for i := range all {
		if all[i].Subject == subject {
			rec := all[i]
			result = append(result, &rec)
		}
	}
	return result, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
