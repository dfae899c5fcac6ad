package portfolio

import (
	"math"
	"sort"

	"github.com/finsight-io/finsight/internal/models"
)

// MonthlyPerformance buckets normalized transactions by calendar month.
// Expects the canonical-order transactions from a snapshot; the result is
// sorted ascending by month.
func MonthlyPerformance(transactions []models.Transaction) []models.MonthlyPerformance {
	buckets := make(map[string]*models.MonthlyPerformance)

	for _, tx := range transactions {
		month := tx.Date.Format("2006-01")
		b, ok := buckets[month]
		if !ok {
			b = &models.MonthlyPerformance{Month: month}
			buckets[month] = b
		}

		amount := math.Abs(tx.Amount)
		switch tx.Kind {
		case models.KindDeposit:
			b.Deposits += amount
		case models.KindBuy:
			b.Invested += amount
		case models.KindSell:
			b.Returns += amount
		case models.KindFee:
			b.Fees += amount
		case models.KindDividend:
			b.Dividends += amount
		}
	}

	result := make([]models.MonthlyPerformance, 0, len(buckets))
	for _, b := range buckets {
		result = append(result, *b)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Month < result[j].Month
	})

	return result
}

// TickerPerformance aggregates realized gains per ticker, sorted by return
// percentage descending (best performer first).
func TickerPerformance(gains []models.RealizedGain) []models.TickerPerformance {
	byTicker := make(map[string]*models.TickerPerformance)
	var order []string

	for _, g := range gains {
		p, ok := byTicker[g.Ticker]
		if !ok {
			p = &models.TickerPerformance{Ticker: g.Ticker}
			byTicker[g.Ticker] = p
			order = append(order, g.Ticker)
		}
		p.QuantitySold += g.Quantity
		p.Proceeds += g.CostOfGoodsSold + g.Profit
		p.CostOfGoodsSold += g.CostOfGoodsSold
		p.Profit += g.Profit
		p.Sells++
	}

	result := make([]models.TickerPerformance, 0, len(order))
	for _, ticker := range order {
		p := byTicker[ticker]
		p.ReturnPercent = finite(safeDiv(p.Profit, p.CostOfGoodsSold) * 100)
		result = append(result, *p)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].ReturnPercent > result[j].ReturnPercent
	})

	return result
}

// TopPerformers returns the n best tickers by realized return percentage.
func TopPerformers(gains []models.RealizedGain, n int) []models.TickerPerformance {
	perf := TickerPerformance(gains)
	if len(perf) > n {
		perf = perf[:n]
	}
	return perf
}

// WorstPerformers returns the n worst tickers by realized return percentage.
func WorstPerformers(gains []models.RealizedGain, n int) []models.TickerPerformance {
	perf := TickerPerformance(gains)
	sort.SliceStable(perf, func(i, j int) bool {
		return perf[i].ReturnPercent < perf[j].ReturnPercent
	})
	if len(perf) > n {
		perf = perf[:n]
	}
	return perf
}
