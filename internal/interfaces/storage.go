package interfaces

import (
	"context"

	"github.com/finsight-io/finsight/internal/models"
)

// LedgerStore persists ledger-area records (transaction ledgers).
type LedgerStore interface {
	Get(ctx context.Context, subject, key string) (*models.LedgerRecord, error)
	Put(ctx context.Context, record *models.LedgerRecord) error
	Delete(ctx context.Context, subject, key string) error
	List(ctx context.Context, subject string) ([]*models.LedgerRecord, error)
	Close() error
}

// PriceStore persists cached market quotes.
type PriceStore interface {
	GetQuote(ticker string) (*models.PriceQuote, error)
	PutQuote(quote *models.PriceQuote) error
	ListQuotes() ([]*models.PriceQuote, error)
}

// StorageManager coordinates the storage areas.
type StorageManager interface {
	LedgerStore() LedgerStore
	PriceStore() PriceStore
	Close() error
}
