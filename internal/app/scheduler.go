package app

import (
	"context"
	"time"

	"github.com/finsight-io/finsight/internal/common"
	"github.com/finsight-io/finsight/internal/interfaces"
)

// startPriceScheduler refreshes quotes for the default ledger's tickers on a
// fixed interval. Only stale quotes are fetched on each tick.
func startPriceScheduler(ctx context.Context, ledgerService interfaces.LedgerService, priceService interfaces.PriceService, ledgerName string, logger *common.Logger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Price scheduler: stopped")
			return
		case <-ticker.C:
			refreshLedgerPrices(ctx, ledgerService, priceService, ledgerName, logger)
		}
	}
}

func refreshLedgerPrices(ctx context.Context, ledgerService interfaces.LedgerService, priceService interfaces.PriceService, ledgerName string, logger *common.Logger) {
	start := time.Now()

	ledger, err := ledgerService.GetLedger(ctx, ledgerName)
	if err != nil {
		logger.Warn().Err(err).Str("ledger", ledgerName).Msg("Price refresh: ledger not available")
		return
	}

	tickers := ledger.Tickers()
	if len(tickers) == 0 {
		return
	}

	updated, err := priceService.RefreshPrices(ctx, tickers, false)
	if err != nil {
		logger.Warn().Err(err).Msg("Price refresh: failed")
		return
	}

	logger.Info().
		Str("ledger", ledgerName).
		Int("tickers", len(tickers)).
		Int("updated", updated).
		Dur("elapsed", time.Since(start)).
		Msg("Price refresh: complete")
}
