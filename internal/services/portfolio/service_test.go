package portfolio

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

// --- Mock ledger service ---

type mockLedgerService struct {
	ledgers map[string]*models.Ledger
	err     error
}

func (m *mockLedgerService) GetLedger(_ context.Context, name string) (*models.Ledger, error) {
	if m.err != nil {
		return nil, m.err
	}
	if l, ok := m.ledgers[name]; ok {
		return l, nil
	}
	return &models.Ledger{Name: name, Transactions: []models.Transaction{}}, nil
}

func (m *mockLedgerService) AddTransaction(_ context.Context, _ string, _ models.Transaction) (*models.Ledger, error) {
	return nil, fmt.Errorf("not implemented")
}

func (m *mockLedgerService) UpdateTransaction(_ context.Context, _, _ string, _ models.Transaction) (*models.Ledger, error) {
	return nil, fmt.Errorf("not implemented")
}

func (m *mockLedgerService) DeleteTransaction(_ context.Context, _, _ string) (*models.Ledger, error) {
	return nil, fmt.Errorf("not implemented")
}

func (m *mockLedgerService) ImportTransactions(_ context.Context, _ string, _ []models.Transaction) (*interfaces.ImportResult, error) {
	return nil, fmt.Errorf("not implemented")
}

// --- Mock price service ---

type mockPriceService struct {
	prices map[string]float64
	err    error
	calls  int
}

func (m *mockPriceService) GetPrices(_ context.Context, tickers []string) (map[string]float64, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	result := make(map[string]float64)
	for _, t := range tickers {
		if p, ok := m.prices[t]; ok {
			result[t] = p
		}
	}
	return result, nil
}

func (m *mockPriceService) RefreshPrices(_ context.Context, _ []string, _ bool) (int, error) {
	return 0, nil
}

func (m *mockPriceService) SetPrice(_ context.Context, _ string, _ float64) error {
	return nil
}

func serviceFixture(prices *mockPriceService) *Service {
	d := func(day int) time.Time { return time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC) }
	ledgers := map[string]*models.Ledger{
		"default": {
			Name: "default",
			Transactions: []models.Transaction{
				{Symbol: "Deposit", Type: "Deposit", Amount: 1000, Date: d(1), CreatedAt: d(1)},
				{Symbol: "ABC", Type: "Buy", Amount: -1000, Quantity: 10, Date: d(2), CreatedAt: d(2)},
				{Symbol: "ABC", Type: "Sell", Amount: 480, Quantity: 4, Date: d(10), CreatedAt: d(10)},
			},
		},
	}
	return NewService(&mockLedgerService{ledgers: ledgers}, prices, common.NewSilentLogger())
}

func TestGetSnapshot(t *testing.T) {
	prices := &mockPriceService{prices: map[string]float64{"ABC": 110}}
	svc := serviceFixture(prices)

	snapshot, err := svc.GetSnapshot(context.Background(), "default")
	require.NoError(t, err)

	assert.Equal(t, 1, prices.calls)
	require.Len(t, snapshot.Holdings, 1)
	assert.InDelta(t, 660, snapshot.Holdings[0].MarketValue, 1e-9)
	assert.InDelta(t, 1140, snapshot.Summary.PortfolioValue, 1e-9)
}

func TestGetSnapshotPriceFailureDegrades(t *testing.T) {
	prices := &mockPriceService{err: fmt.Errorf("feed down")}
	svc := serviceFixture(prices)

	snapshot, err := svc.GetSnapshot(context.Background(), "default")
	require.NoError(t, err, "price failure must not fail the snapshot")

	require.Len(t, snapshot.Holdings, 1)
	// Valued at the last trade price (sell at 120/share).
	assert.InDelta(t, 120, snapshot.Holdings[0].CurrentPrice, 1e-9)
}

func TestGetSnapshotNilPriceService(t *testing.T) {
	svc := serviceFixture(nil)
	svc.prices = nil

	snapshot, err := svc.GetSnapshot(context.Background(), "default")
	require.NoError(t, err)
	require.Len(t, snapshot.Holdings, 1)
}

func TestGetSnapshotLedgerError(t *testing.T) {
	svc := NewService(&mockLedgerService{err: fmt.Errorf("store broken")}, nil, common.NewSilentLogger())

	_, err := svc.GetSnapshot(context.Background(), "default")
	assert.Error(t, err)
}

func TestGetMonthlyPerformance(t *testing.T) {
	svc := serviceFixture(&mockPriceService{})

	result, err := svc.GetMonthlyPerformance(context.Background(), "default")
	require.NoError(t, err)

	require.Len(t, result, 1)
	assert.Equal(t, "2024-01", result[0].Month)
	assert.InDelta(t, 1000, result[0].Deposits, 1e-9)
	assert.InDelta(t, 1000, result[0].Invested, 1e-9)
	assert.InDelta(t, 480, result[0].Returns, 1e-9)
}

func TestGetTickerPerformance(t *testing.T) {
	svc := serviceFixture(&mockPriceService{})

	result, err := svc.GetTickerPerformance(context.Background(), "default")
	require.NoError(t, err)

	require.Len(t, result, 1)
	assert.Equal(t, "ABC", result[0].Ticker)
	assert.InDelta(t, 80, result[0].Profit, 1e-9)
}
