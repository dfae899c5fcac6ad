package portfolio

import (
	"context"
	"fmt"

	"github.com/finsight-io/finsight/internal/common"
	"github.com/finsight-io/finsight/internal/interfaces"
	"github.com/finsight-io/finsight/internal/models"
)

// Compile-time interface check
var _ interfaces.PortfolioService = (*Service)(nil)

// Service implements PortfolioService on top of the reconstruction engine.
type Service struct {
	ledger interfaces.LedgerService
	prices interfaces.PriceService
	engine *Engine
	logger *common.Logger
}

// NewService creates a new portfolio service.
// prices may be nil, in which case holdings are valued at last trade price
// or average cost.
func NewService(ledger interfaces.LedgerService, prices interfaces.PriceService, logger *common.Logger) *Service {
	return &Service{
		ledger: ledger,
		prices: prices,
		engine: NewEngine(logger),
		logger: logger,
	}
}

// GetSnapshot rebuilds the portfolio from the named ledger at current prices.
func (s *Service) GetSnapshot(ctx context.Context, ledgerName string) (*models.PortfolioSnapshot, error) {
	ledger, err := s.ledger.GetLedger(ctx, ledgerName)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger %q: %w", ledgerName, err)
	}

	currentPrices := s.currentPrices(ctx, ledger)
	snapshot := s.engine.Rebuild(ledger.Transactions, currentPrices)

	s.logger.Debug().
		Str("ledger", ledgerName).
		Int("transactions", len(snapshot.Transactions)).
		Int("holdings", len(snapshot.Holdings)).
		Int("skipped", snapshot.SkippedRows).
		Float64("portfolio_value", snapshot.Summary.PortfolioValue).
		Msg("Portfolio snapshot rebuilt")

	return snapshot, nil
}

// GetMonthlyPerformance buckets the ledger's cash movement by month.
func (s *Service) GetMonthlyPerformance(ctx context.Context, ledgerName string) ([]models.MonthlyPerformance, error) {
	ledger, err := s.ledger.GetLedger(ctx, ledgerName)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger %q: %w", ledgerName, err)
	}

	snapshot := s.engine.Rebuild(ledger.Transactions, nil)
	return MonthlyPerformance(snapshot.Transactions), nil
}

// GetTickerPerformance aggregates realized gains per ticker.
func (s *Service) GetTickerPerformance(ctx context.Context, ledgerName string) ([]models.TickerPerformance, error) {
	ledger, err := s.ledger.GetLedger(ctx, ledgerName)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger %q: %w", ledgerName, err)
	}

	snapshot := s.engine.Rebuild(ledger.Transactions, nil)
	return TickerPerformance(snapshot.RealizedGains), nil
}

// currentPrices fetches prices for the ledger's tickers. Price failures
// degrade to last-trade/average-cost valuation rather than failing the
// snapshot.
func (s *Service) currentPrices(ctx context.Context, ledger *models.Ledger) map[string]float64 {
	if s.prices == nil {
		return nil
	}

	tickers := ledger.Tickers()
	if len(tickers) == 0 {
		return nil
	}

	prices, err := s.prices.GetPrices(ctx, tickers)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Price lookup failed, valuing at last trade price")
		return nil
	}
	return prices
}
