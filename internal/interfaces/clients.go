package interfaces

import (
	"context"

	"github.com/finsight-io/finsight/internal/models"
)

// QuotesClient fetches market prices from the quote feed.
type QuotesClient interface {
	// GetQuote retrieves the latest price for a single ticker.
	GetQuote(ctx context.Context, ticker string) (*models.PriceQuote, error)
}
