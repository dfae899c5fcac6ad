// Package ledger manages transaction ledgers: validation, ingestion-time
// classification, and CRUD against the ledger store.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/finsight-io/finsight/internal/common"
	"github.com/finsight-io/finsight/internal/interfaces"
	"github.com/finsight-io/finsight/internal/models"
)

// Compile-time interface check
var _ interfaces.LedgerService = (*Service)(nil)

const ledgerSubject = "ledger"

// Service implements LedgerService.
type Service struct {
	storage    interfaces.StorageManager
	classifier *models.KeywordClassifier
	logger     *common.Logger
}

// NewService creates a new ledger service. Transactions are classified once
// here, at the ingestion boundary; downstream consumers rely on the resolved
// kind and never re-sniff labels.
func NewService(storage interfaces.StorageManager, classifier *models.KeywordClassifier, logger *common.Logger) *Service {
	if classifier == nil {
		classifier = models.NewKeywordClassifier()
	}
	return &Service{
		storage:    storage,
		classifier: classifier,
		logger:     logger,
	}
}

// generateTransactionID returns a unique ID with "tx_" prefix + 8 hex chars.
func generateTransactionID() string {
	return "tx_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}

// validateTransaction checks that a transaction has usable field values.
func validateTransaction(tx models.Transaction) error {
	if strings.TrimSpace(tx.Symbol) == "" {
		return fmt.Errorf("symbol or label is required")
	}
	if len(tx.Symbol) > 100 {
		return fmt.Errorf("symbol exceeds 100 characters")
	}
	if tx.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	if math.IsInf(tx.Amount, 0) || math.IsNaN(tx.Amount) {
		return fmt.Errorf("amount must be finite")
	}
	if tx.Amount == 0 {
		return fmt.Errorf("amount must be non-zero")
	}
	if math.Abs(tx.Amount) >= 1e15 {
		return fmt.Errorf("amount exceeds maximum (1e15)")
	}
	if tx.Quantity < 0 || math.IsInf(tx.Quantity, 0) || math.IsNaN(tx.Quantity) {
		return fmt.Errorf("quantity must be a finite non-negative number")
	}
	if len(tx.Notes) > 1000 {
		return fmt.Errorf("notes exceeds 1000 characters")
	}
	return nil
}

// GetLedger retrieves the named ledger, returning an empty one if none exists.
func (s *Service) GetLedger(ctx context.Context, name string) (*models.Ledger, error) {
	rec, err := s.storage.LedgerStore().Get(ctx, ledgerSubject, name)
	if err != nil {
		return &models.Ledger{
			Name:         name,
			Transactions: []models.Transaction{},
		}, nil
	}

	var ledger models.Ledger
	if err := json.Unmarshal([]byte(rec.Value), &ledger); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ledger %q: %w", name, err)
	}
	if ledger.Transactions == nil {
		ledger.Transactions = []models.Transaction{}
	}
	return &ledger, nil
}

// AddTransaction validates, classifies, and appends a transaction.
func (s *Service) AddTransaction(ctx context.Context, name string, tx models.Transaction) (*models.Ledger, error) {
	if err := validateTransaction(tx); err != nil {
		return nil, fmt.Errorf("invalid transaction: %w", err)
	}

	ledger, err := s.GetLedger(ctx, name)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	tx.ID = generateTransactionID()
	tx.Symbol = strings.TrimSpace(tx.Symbol)
	tx.Kind = s.classifier.Classify(tx.Symbol, tx.Type, tx.Quantity)
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = now
	}
	tx.UpdatedAt = now

	ledger.Transactions = append(ledger.Transactions, tx)

	if err := s.saveLedger(ctx, ledger); err != nil {
		return nil, err
	}

	s.logger.Info().Str("ledger", name).Str("id", tx.ID).
		Str("symbol", tx.Symbol).Str("kind", string(tx.Kind)).
		Float64("amount", tx.Amount).Msg("Transaction added")
	return ledger, nil
}

// UpdateTransaction replaces the mutable fields of an existing transaction
// and re-classifies it.
func (s *Service) UpdateTransaction(ctx context.Context, name, id string, tx models.Transaction) (*models.Ledger, error) {
	if err := validateTransaction(tx); err != nil {
		return nil, fmt.Errorf("invalid transaction: %w", err)
	}

	ledger, err := s.GetLedger(ctx, name)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range ledger.Transactions {
		if ledger.Transactions[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("transaction %q not found in ledger %q", id, name)
	}

	existing := ledger.Transactions[idx]
	tx.ID = existing.ID
	tx.CreatedAt = existing.CreatedAt
	tx.Symbol = strings.TrimSpace(tx.Symbol)
	tx.Kind = s.classifier.Classify(tx.Symbol, tx.Type, tx.Quantity)
	tx.UpdatedAt = time.Now()
	ledger.Transactions[idx] = tx

	if err := s.saveLedger(ctx, ledger); err != nil {
		return nil, err
	}

	s.logger.Info().Str("ledger", name).Str("id", id).Msg("Transaction updated")
	return ledger, nil
}

// DeleteTransaction removes a transaction by ID.
func (s *Service) DeleteTransaction(ctx context.Context, name, id string) (*models.Ledger, error) {
	ledger, err := s.GetLedger(ctx, name)
	if err != nil {
		return nil, err
	}

	filtered := ledger.Transactions[:0]
	found := false
	for _, tx := range ledger.Transactions {
		if tx.ID == id {
			found = true
			continue
		}
		filtered = append(filtered, tx)
	}
	if !found {
		return nil, fmt.Errorf("transaction %q not found in ledger %q", id, name)
	}
	ledger.Transactions = filtered

	if err := s.saveLedger(ctx, ledger); err != nil {
		return nil, err
	}

	s.logger.Info().Str("ledger", name).Str("id", id).Msg("Transaction deleted")
	return ledger, nil
}

// ImportTransactions bulk-appends transactions. Rows failing validation are
// rejected, and rows already present (same symbol, kind, amount, quantity,
// and date) are skipped as duplicates.
func (s *Service) ImportTransactions(ctx context.Context, name string, txs []models.Transaction) (*interfaces.ImportResult, error) {
	ledger, err := s.GetLedger(ctx, name)
	if err != nil {
		return nil, err
	}

	detector := newDuplicateDetector(ledger.Transactions)
	result := &interfaces.ImportResult{}
	now := time.Now()

	for _, tx := range txs {
		if err := validateTransaction(tx); err != nil {
			s.logger.Warn().Err(err).Str("symbol", tx.Symbol).Msg("Import row rejected")
			result.Rejected++
			continue
		}

		tx.Symbol = strings.TrimSpace(tx.Symbol)
		tx.Kind = s.classifier.Classify(tx.Symbol, tx.Type, tx.Quantity)

		if detector.seen(tx) {
			result.Duplicates++
			continue
		}
		detector.record(tx)

		tx.ID = generateTransactionID()
		if tx.CreatedAt.IsZero() {
			tx.CreatedAt = now
		}
		tx.UpdatedAt = now
		ledger.Transactions = append(ledger.Transactions, tx)
		result.Added++
	}

	if result.Added > 0 {
		if err := s.saveLedger(ctx, ledger); err != nil {
			return nil, err
		}
	}
	result.Ledger = ledger

	s.logger.Info().Str("ledger", name).
		Int("added", result.Added).
		Int("duplicates", result.Duplicates).
		Int("rejected", result.Rejected).
		Msg("Transactions imported")
	return result, nil
}

func (s *Service) saveLedger(ctx context.Context, ledger *models.Ledger) error {
	now := time.Now()
	if ledger.CreatedAt.IsZero() {
		ledger.CreatedAt = now
	}
	ledger.UpdatedAt = now

	data, err := json.Marshal(ledger)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger %q: %w", ledger.Name, err)
	}

	return s.storage.LedgerStore().Put(ctx, &models.LedgerRecord{
		Subject: ledgerSubject,
		Key:     ledger.Name,
		Value:   string(data),
	})
}
