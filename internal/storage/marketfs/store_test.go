package marketfs

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight-io/finsight/internal/common"
	"github.com/finsight-io/finsight/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(common.NewSilentLogger(), t.TempDir())
	require.NoError(t, err)
	return store
}

func TestPutAndGetQuote(t *testing.T) {
	store := newTestStore(t)

	quote := &models.PriceQuote{
		Ticker:    "ABC",
		Price:     110.5,
		Source:    "feed",
		UpdatedAt: time.Now().Truncate(time.Second),
	}
	require.NoError(t, store.PutQuote(quote))

	got, err := store.GetQuote("ABC")
	require.NoError(t, err)
	assert.Equal(t, "ABC", got.Ticker)
	assert.InDelta(t, 110.5, got.Price, 1e-9)
	assert.Equal(t, "feed", got.Source)
}

func TestGetQuoteNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetQuote("MISSING")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestPutQuoteRequiresTicker(t *testing.T) {
	store := newTestStore(t)

	assert.Error(t, store.PutQuote(nil))
	assert.Error(t, store.PutQuote(&models.PriceQuote{Price: 10}))
}

func TestListQuotes(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.PutQuote(&models.PriceQuote{Ticker: "ABC", Price: 1}))
	require.NoError(t, store.PutQuote(&models.PriceQuote{Ticker: "XYZ", Price: 2}))

	quotes, err := store.ListQuotes()
	require.NoError(t, err)
	assert.Len(t, quotes, 2)
}

func TestSanitizeTicker(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ABC", "ABC"},
		{"BHP.AU", "BHP.AU"},
		{"a/b", "a_b"},
		{"a\\b", "a_b"},
		{"a:b", "a_b"},
		{"../../escape", "____escape"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeTicker(tt.in), tt.in)
	}
}

func TestQuotePathStaysInsideBase(t *testing.T) {
	store := newTestStore(t)

	path := store.quotePath("../../escape")
	rel, err := filepath.Rel(store.basePath, path)
	require.NoError(t, err)
	assert.NotContains(t, rel, "..")
}
