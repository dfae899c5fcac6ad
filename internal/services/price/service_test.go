package price

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight-io/finsight/internal/common"
	"github.com/finsight-io/finsight/internal/interfaces"
	"github.com/finsight-io/finsight/internal/models"
)

// --- Mock price store ---

type mockPriceStore struct {
	quotes map[string]*models.PriceQuote
	putErr error
}

func newMockPriceStore() *mockPriceStore {
	return &mockPriceStore{quotes: make(map[string]*models.PriceQuote)}
}

func (m *mockPriceStore) GetQuote(ticker string) (*models.PriceQuote, error) {
	q, ok := m.quotes[ticker]
	if !ok {
		return nil, fmt.Errorf("quote %q not found", ticker)
	}
	return q, nil
}

func (m *mockPriceStore) PutQuote(q *models.PriceQuote) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.quotes[q.Ticker] = q
	return nil
}

func (m *mockPriceStore) ListQuotes() ([]*models.PriceQuote, error) {
	var all []*models.PriceQuote
	for _, q := range m.quotes {
		all = append(all, q)
	}
	return all, nil
}

type mockStorageManager struct {
	priceStore *mockPriceStore
}

func (m *mockStorageManager) LedgerStore() interfaces.LedgerStore { return nil }
func (m *mockStorageManager) PriceStore() interfaces.PriceStore   { return m.priceStore }
func (m *mockStorageManager) Close() error                        { return nil }

// --- Mock quotes client ---

type mockQuotesClient struct {
	prices map[string]float64
	err    error
	calls  int
}

func (m *mockQuotesClient) GetQuote(_ context.Context, ticker string) (*models.PriceQuote, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.prices[ticker]
	if !ok {
		return nil, fmt.Errorf("unknown ticker %q", ticker)
	}
	return &models.PriceQuote{Ticker: ticker, Price: p}, nil
}

func TestGetPrices(t *testing.T) {
	store := newMockPriceStore()
	store.quotes["ABC"] = &models.PriceQuote{Ticker: "ABC", Price: 110, UpdatedAt: time.Now()}
	svc := NewService(&mockStorageManager{priceStore: store}, nil, time.Hour, common.NewSilentLogger())

	prices, err := svc.GetPrices(context.Background(), []string{"ABC", "MISSING"})
	require.NoError(t, err)

	assert.InDelta(t, 110, prices["ABC"], 1e-9)
	_, ok := prices["MISSING"]
	assert.False(t, ok, "tickers without a cached quote are omitted")
}

func TestRefreshPricesSkipsFresh(t *testing.T) {
	store := newMockPriceStore()
	store.quotes["ABC"] = &models.PriceQuote{Ticker: "ABC", Price: 100, UpdatedAt: time.Now()}
	client := &mockQuotesClient{prices: map[string]float64{"ABC": 111, "XYZ": 55}}
	svc := NewService(&mockStorageManager{priceStore: store}, client, time.Hour, common.NewSilentLogger())

	updated, err := svc.RefreshPrices(context.Background(), []string{"ABC", "XYZ"}, false)
	require.NoError(t, err)

	assert.Equal(t, 1, updated, "fresh ABC skipped, stale XYZ fetched")
	assert.Equal(t, 1, client.calls)
	assert.InDelta(t, 55, store.quotes["XYZ"].Price, 1e-9)
	assert.InDelta(t, 100, store.quotes["ABC"].Price, 1e-9)
}

func TestRefreshPricesForce(t *testing.T) {
	store := newMockPriceStore()
	store.quotes["ABC"] = &models.PriceQuote{Ticker: "ABC", Price: 100, UpdatedAt: time.Now()}
	client := &mockQuotesClient{prices: map[string]float64{"ABC": 111}}
	svc := NewService(&mockStorageManager{priceStore: store}, client, time.Hour, common.NewSilentLogger())

	updated, err := svc.RefreshPrices(context.Background(), []string{"ABC"}, true)
	require.NoError(t, err)

	assert.Equal(t, 1, updated)
	assert.InDelta(t, 111, store.quotes["ABC"].Price, 1e-9)
	assert.Equal(t, "feed", store.quotes["ABC"].Source)
}

func TestRefreshPricesFetchFailureSkipped(t *testing.T) {
	store := newMockPriceStore()
	client := &mockQuotesClient{err: fmt.Errorf("feed down")}
	svc := NewService(&mockStorageManager{priceStore: store}, client, time.Hour, common.NewSilentLogger())

	updated, err := svc.RefreshPrices(context.Background(), []string{"ABC", "XYZ"}, false)
	require.NoError(t, err, "individual fetch failures must not fail the refresh")
	assert.Zero(t, updated)
}

func TestRefreshPricesNilClient(t *testing.T) {
	svc := NewService(&mockStorageManager{priceStore: newMockPriceStore()}, nil, time.Hour, common.NewSilentLogger())

	updated, err := svc.RefreshPrices(context.Background(), []string{"ABC"}, true)
	require.NoError(t, err)
	assert.Zero(t, updated)
}

func TestSetPrice(t *testing.T) {
	store := newMockPriceStore()
	svc := NewService(&mockStorageManager{priceStore: store}, nil, time.Hour, common.NewSilentLogger())

	require.NoError(t, svc.SetPrice(context.Background(), "ABC", 99.5))

	q := store.quotes["ABC"]
	require.NotNil(t, q)
	assert.InDelta(t, 99.5, q.Price, 1e-9)
	assert.Equal(t, "manual", q.Source)
}

func TestSetPriceValidation(t *testing.T) {
	svc := NewService(&mockStorageManager{priceStore: newMockPriceStore()}, nil, time.Hour, common.NewSilentLogger())
	ctx := context.Background()

	assert.Error(t, svc.SetPrice(ctx, "", 10))
	assert.Error(t, svc.SetPrice(ctx, "ABC", 0))
	assert.Error(t, svc.SetPrice(ctx, "ABC", -5))
}
