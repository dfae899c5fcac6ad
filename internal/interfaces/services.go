// Package interfaces defines service contracts for Finsight
package interfaces

import (
	"context"

	"github.com/finsight-io/finsight/internal/models"
)

// PortfolioService reconstructs portfolio state from the transaction ledger.
type PortfolioService interface {
	// GetSnapshot rebuilds holdings, realized gains, and summary aggregates
	// from the named ledger, valued at current prices.
	GetSnapshot(ctx context.Context, ledgerName string) (*models.PortfolioSnapshot, error)

	// GetMonthlyPerformance buckets the ledger's cash movement by month.
	GetMonthlyPerformance(ctx context.Context, ledgerName string) ([]models.MonthlyPerformance, error)

	// GetTickerPerformance aggregates realized gains per ticker,
	// best performer first.
	GetTickerPerformance(ctx context.Context, ledgerName string) ([]models.TickerPerformance, error)
}

// LedgerService manages the transaction ledger.
type LedgerService interface {
	// GetLedger retrieves a ledger, returning an empty one if none exists.
	GetLedger(ctx context.Context, name string) (*models.Ledger, error)

	// AddTransaction validates, classifies, and appends a transaction.
	AddTransaction(ctx context.Context, name string, tx models.Transaction) (*models.Ledger, error)

	// UpdateTransaction replaces the fields of an existing transaction.
	UpdateTransaction(ctx context.Context, name, id string, tx models.Transaction) (*models.Ledger, error)

	// DeleteTransaction removes a transaction by ID.
	DeleteTransaction(ctx context.Context, name, id string) (*models.Ledger, error)

	// ImportTransactions bulk-appends transactions, skipping duplicates.
	ImportTransactions(ctx context.Context, name string, txs []models.Transaction) (*ImportResult, error)
}

// ImportResult reports the outcome of a bulk import.
type ImportResult struct {
	Added      int            `json:"added"`
	Duplicates int            `json:"duplicates"`
	Rejected   int            `json:"rejected"`
	Ledger     *models.Ledger `json:"-"`
}

// PriceService supplies current market prices for tickers.
type PriceService interface {
	// GetPrices returns the latest known price per ticker. Tickers with no
	// cached quote are omitted from the result.
	GetPrices(ctx context.Context, tickers []string) (map[string]float64, error)

	// RefreshPrices fetches quotes for stale tickers from the feed and
	// returns the number of quotes updated. force refreshes regardless of age.
	RefreshPrices(ctx context.Context, tickers []string, force bool) (int, error)

	// SetPrice records a manual price override for a ticker.
	SetPrice(ctx context.Context, ticker string, price float64) error
}
