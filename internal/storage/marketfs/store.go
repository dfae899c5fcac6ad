// Package marketfs implements the file-based price cache: one JSON file
// per ticker under the market data path.
package marketfs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/finsight-io/finsight/internal/common"
	"github.com/finsight-io/finsight/internal/interfaces"
	"github.com/finsight-io/finsight/internal/models"
)

// Compile-time interface check
var _ interfaces.PriceStore = (*Store)(nil)

// Store provides file-based JSON storage for market quotes.
type Store struct {
	basePath string
	logger   *common.Logger
}

// NewStore creates a new price store and ensures the quotes directory exists.
func NewStore(logger *common.Logger, basePath string) (*Store, error) {
	dir := filepath.Join(basePath, "quotes")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	logger.Debug().Str("path", basePath).Msg("Price store opened")
	return &Store{basePath: basePath, logger: logger}, nil
}

// sanitizeTicker makes a ticker safe for use as a filename.
// Replaces /, \, : with _ and collapses ".." to "_" to prevent path
// traversal. Single dots are preserved (common in tickers like BHP.AU).
func sanitizeTicker(ticker string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "..", "_")
	return r.Replace(ticker)
}

func (s *Store) quotePath(ticker string) string {
	return filepath.Join(s.basePath, "quotes", sanitizeTicker(ticker)+".json")
}

// GetQuote reads the cached quote for a ticker.
func (s *Store) GetQuote(ticker string) (*models.PriceQuote, error) {
	data, err := os.ReadFile(s.quotePath(ticker))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("quote '%s' not found", ticker)
		}
		return nil, fmt.Errorf("failed to read quote %s: %w", ticker, err)
	}

	var quote models.PriceQuote
	if err := json.Unmarshal(data, &quote); err != nil {
		return nil, fmt.Errorf("failed to unmarshal quote %s: %w", ticker, err)
	}
	return &quote, nil
}

// PutQuote writes a quote to the cache.
func (s *Store) PutQuote(quote *models.PriceQuote) error {
	if quote == nil || quote.Ticker == "" {
		return fmt.Errorf("quote ticker is required")
	}

	data, err := json.MarshalIndent(quote, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal quote %s: %w", quote.Ticker, err)
	}

	path := s.quotePath(quote.Ticker)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write quote %s: %w", quote.Ticker, err)
	}
	return nil
}

// ListQuotes reads all cached quotes.
func (s *Store) ListQuotes() ([]*models.PriceQuote, error) {
	dir := filepath.Join(s.basePath, "quotes")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read quotes directory: %w", err)
	}

	var quotes []*models.PriceQuote
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		ticker := strings.TrimSuffix(entry.Name(), ".json")
		quote, err := s.GetQuote(ticker)
		if err != nil {
			s.logger.Warn().Err(err).Str("ticker", ticker).Msg("Skipping unreadable quote file")
			continue
		}
		quotes = append(quotes, quote)
	}
	return quotes, nil
}
