// Package price supplies current market prices from the local quote cache,
// refreshing stale entries through the quote feed.
package price

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/finsight-io/finsight/internal/common"
	"github.com/finsight-io/finsight/internal/interfaces"
	"github.com/finsight-io/finsight/internal/models"
)

// Compile-time interface check
var _ interfaces.PriceService = (*Service)(nil)

// Service implements PriceService over the price store and quotes client.
type Service struct {
	storage   interfaces.StorageManager
	client    interfaces.QuotesClient
	staleness time.Duration
	logger    *common.Logger
	now       func() time.Time // injectable clock for testing
}

// NewService creates a new price service.
// client may be nil, in which case RefreshPrices is a no-op and only cached
// or manually set prices are served.
func NewService(storage interfaces.StorageManager, client interfaces.QuotesClient, staleness time.Duration, logger *common.Logger) *Service {
	if staleness <= 0 {
		staleness = time.Hour
	}
	return &Service{
		storage:   storage,
		client:    client,
		staleness: staleness,
		logger:    logger,
		now:       time.Now,
	}
}

// GetPrices returns the latest cached price per ticker. Tickers without a
// cached quote are omitted; the portfolio engine falls back to last trade
// price or average cost for those.
func (s *Service) GetPrices(_ context.Context, tickers []string) (map[string]float64, error) {
	prices := make(map[string]float64, len(tickers))
	store := s.storage.PriceStore()

	for _, ticker := range tickers {
		quote, err := store.GetQuote(ticker)
		if err != nil {
			continue
		}
		if quote.Price > 0 {
			prices[ticker] = quote.Price
		}
	}

	return prices, nil
}

// RefreshPrices fetches quotes for tickers whose cached entry is older than
// the staleness threshold. Individual fetch failures are logged and skipped;
// the refresh reports how many quotes it updated.
func (s *Service) RefreshPrices(ctx context.Context, tickers []string, force bool) (int, error) {
	if s.client == nil {
		return 0, nil
	}

	store := s.storage.PriceStore()
	updated := 0

	for _, ticker := range tickers {
		if !force {
			if cached, err := store.GetQuote(ticker); err == nil && cached.IsFresh(s.staleness) {
				continue
			}
		}

		quote, err := s.client.GetQuote(ctx, ticker)
		if err != nil {
			s.logger.Warn().Err(err).Str("ticker", ticker).Msg("Quote fetch failed")
			continue
		}
		if quote == nil || quote.Price <= 0 || math.IsNaN(quote.Price) || math.IsInf(quote.Price, 0) {
			s.logger.Warn().Str("ticker", ticker).Msg("Quote feed returned unusable price")
			continue
		}

		quote.Ticker = ticker
		quote.Source = "feed"
		quote.UpdatedAt = s.now()
		if err := store.PutQuote(quote); err != nil {
			s.logger.Warn().Err(err).Str("ticker", ticker).Msg("Failed to cache quote")
			continue
		}
		updated++
	}

	s.logger.Info().Int("tickers", len(tickers)).Int("updated", updated).Msg("Price refresh complete")
	return updated, nil
}

// SetPrice records a manual price override for a ticker.
func (s *Service) SetPrice(_ context.Context, ticker string, price float64) error {
	if ticker == "" {
		return fmt.Errorf("ticker is required")
	}
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return fmt.Errorf("price must be a finite positive number")
	}

	quote := &models.PriceQuote{
		Ticker:    ticker,
		Price:     price,
		Source:    "manual",
		UpdatedAt: s.now(),
	}
	if err := s.storage.PriceStore().PutQuote(quote); err != nil {
		return fmt.Errorf("failed to store price for %s: %w", ticker, err)
	}

	s.logger.Info().Str("ticker", ticker).Float64("price", price).Msg("Manual price set")
	return nil
}
