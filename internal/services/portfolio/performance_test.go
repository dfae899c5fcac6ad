package portfolio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight-io/finsight/internal/models"
)

func TestMonthlyPerformance(t *testing.T) {
	jan := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC)

	transactions := []models.Transaction{
		{Kind: models.KindDeposit, Amount: 1000, Date: jan},
		{Kind: models.KindBuy, Amount: -600, Quantity: 6, Date: jan},
		{Kind: models.KindFee, Amount: -5, Date: jan},
		{Kind: models.KindSell, Amount: 330, Quantity: 3, Date: feb},
		{Kind: models.KindDividend, Amount: 12, Date: feb},
	}

	result := MonthlyPerformance(transactions)

	require.Len(t, result, 2)
	assert.Equal(t, "2024-01", result[0].Month)
	assert.InDelta(t, 1000, result[0].Deposits, 1e-9)
	assert.InDelta(t, 600, result[0].Invested, 1e-9)
	assert.InDelta(t, 5, result[0].Fees, 1e-9)

	assert.Equal(t, "2024-02", result[1].Month)
	assert.InDelta(t, 330, result[1].Returns, 1e-9)
	assert.InDelta(t, 12, result[1].Dividends, 1e-9)
}

func TestMonthlyPerformanceEmpty(t *testing.T) {
	assert.Empty(t, MonthlyPerformance(nil))
}

func testGains() []models.RealizedGain {
	d := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return []models.RealizedGain{
		{Ticker: "WIN", Quantity: 10, CostOfGoodsSold: 100, Profit: 50, SellDate: d},
		{Ticker: "WIN", Quantity: 5, CostOfGoodsSold: 60, Profit: 30, SellDate: d},
		{Ticker: "FLAT", Quantity: 8, CostOfGoodsSold: 200, Profit: 0, SellDate: d},
		{Ticker: "LOSS", Quantity: 20, CostOfGoodsSold: 400, Profit: -100, SellDate: d},
	}
}

func TestTickerPerformance(t *testing.T) {
	result := TickerPerformance(testGains())

	require.Len(t, result, 3)
	assert.Equal(t, "WIN", result[0].Ticker)
	assert.InDelta(t, 80, result[0].Profit, 1e-9)
	assert.InDelta(t, 50, result[0].ReturnPercent, 1e-9) // 80 / 160 × 100
	assert.Equal(t, 2, result[0].Sells)

	assert.Equal(t, "FLAT", result[1].Ticker)
	assert.Equal(t, "LOSS", result[2].Ticker)
	assert.InDelta(t, -25, result[2].ReturnPercent, 1e-9)
}

func TestTickerPerformanceZeroCost(t *testing.T) {
	gains := []models.RealizedGain{
		{Ticker: "GIFT", Quantity: 5, CostOfGoodsSold: 0, Profit: 75},
	}

	result := TickerPerformance(gains)

	require.Len(t, result, 1)
	assert.Zero(t, result[0].ReturnPercent, "zero cost basis must not yield NaN/Inf")
}

func TestTopAndWorstPerformers(t *testing.T) {
	top := TopPerformers(testGains(), 2)
	require.Len(t, top, 2)
	assert.Equal(t, "WIN", top[0].Ticker)
	assert.Equal(t, "FLAT", top[1].Ticker)

	worst := WorstPerformers(testGains(), 1)
	require.Len(t, worst, 1)
	assert.Equal(t, "LOSS", worst[0].Ticker)
}
