// Package portfolio reconstructs portfolio state from a transaction ledger:
// FIFO cost-basis matching, realized and unrealized P&L, and account-level
// cash flow aggregates.
package portfolio

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/finsight-io/finsight/internal/common"
	"github.com/finsight-io/finsight/internal/models"
)

// holdingEpsilon absorbs floating-point drift from repeated fractional-share
// arithmetic: a holding whose open quantity falls below this is closed
// outright rather than left at a residual.
const holdingEpsilon = 1e-5

// notesPriceRe matches an execution price embedded in free-text notes,
// e.g. "Filled. Price: $1,234.56".
var notesPriceRe = regexp.MustCompile(`Price:\s*\$?([\d,]+(?:\.\d+)?)`)

// Engine rebuilds portfolio state from a raw ledger. Each Rebuild call owns
// its working state and discards it on return, so a single Engine is safe
// for concurrent use.
type Engine struct {
	classifier *models.KeywordClassifier
	logger     *common.Logger
}

// NewEngine creates an engine with the default keyword classifier.
func NewEngine(logger *common.Logger) *Engine {
	return &Engine{
		classifier: models.NewKeywordClassifier(),
		logger:     logger,
	}
}

// NewEngineWithClassifier creates an engine with a caller-supplied classifier.
func NewEngineWithClassifier(classifier *models.KeywordClassifier, logger *common.Logger) *Engine {
	return &Engine{classifier: classifier, logger: logger}
}

// holdingState is the mutable per-ticker working state during a rebuild.
type holdingState struct {
	ticker       string
	quantity     float64
	totalCost    float64
	lots         []models.BuyLot
	firstBuyDate time.Time
}

// Rebuild reconstructs holdings, realized gains, and summary aggregates from
// the ledger. Input order is irrelevant: transactions are sorted by
// (date, created_at) internally, with created_at breaking same-date ties so
// FIFO consumption order is deterministic. Malformed rows are skipped with a
// warning, never fatal; an empty ledger yields a zeroed snapshot.
func (e *Engine) Rebuild(transactions []models.Transaction, currentPrices map[string]float64) *models.PortfolioSnapshot {
	snapshot := &models.PortfolioSnapshot{
		Holdings:      []models.Holding{},
		RealizedGains: []models.RealizedGain{},
		Transactions:  []models.Transaction{},
	}

	normalized, skipped := e.normalize(transactions)
	snapshot.SkippedRows = skipped
	if len(normalized) == 0 {
		return snapshot
	}

	holdings := make(map[string]*holdingState)
	lastPrices := make(map[string]float64)
	summary := &snapshot.Summary

	for _, tx := range normalized {
		amount := math.Abs(tx.Amount)

		switch tx.Kind {
		case models.KindDeposit:
			summary.Deposits += amount
			summary.Cash += amount

		case models.KindFee:
			summary.Fees += amount
			summary.Cash -= amount

		case models.KindTaxCharge:
			summary.Taxes += amount
			summary.Cash -= amount

		case models.KindTaxCredit:
			summary.Taxes -= amount
			summary.Cash += amount

		case models.KindDividend:
			summary.Dividends += amount
			summary.Cash += amount

		case models.KindBuy:
			e.processBuy(tx, holdings, summary)
			recordLastPrice(lastPrices, tx)

		case models.KindSell:
			gain := e.processSell(tx, holdings, summary)
			snapshot.RealizedGains = append(snapshot.RealizedGains, gain)
			recordLastPrice(lastPrices, tx)

		default:
			e.logger.Debug().
				Str("symbol", tx.Symbol).
				Str("type", tx.Type).
				Msg("Ledger row not classifiable, ignored")
		}
	}

	snapshot.Holdings = e.value(holdings, currentPrices, lastPrices)
	snapshot.Transactions = normalized
	e.aggregate(snapshot)

	return snapshot
}

// normalize resolves kinds, drops malformed rows, and establishes the
// canonical processing order.
func (e *Engine) normalize(transactions []models.Transaction) ([]models.Transaction, int) {
	normalized := make([]models.Transaction, 0, len(transactions))
	skipped := 0

	for _, tx := range transactions {
		if tx.Date.IsZero() {
			e.logger.Warn().Str("symbol", tx.Symbol).Msg("Skipping transaction with missing date")
			skipped++
			continue
		}
		if math.IsNaN(tx.Amount) || math.IsInf(tx.Amount, 0) {
			e.logger.Warn().Str("symbol", tx.Symbol).Msg("Skipping transaction with non-finite amount")
			skipped++
			continue
		}

		tx.Symbol = strings.TrimSpace(tx.Symbol)
		if tx.Quantity < 0 || math.IsNaN(tx.Quantity) || math.IsInf(tx.Quantity, 0) {
			tx.Quantity = 0
		}
		if !models.ValidTransactionKind(tx.Kind) || tx.Kind == models.KindOther {
			tx.Kind = e.classifier.Classify(tx.Symbol, tx.Type, tx.Quantity)
		}

		normalized = append(normalized, tx)
	}

	// Stable sort: equal (date, created_at) pairs keep input order.
	sort.SliceStable(normalized, func(i, j int) bool {
		if !normalized[i].Date.Equal(normalized[j].Date) {
			return normalized[i].Date.Before(normalized[j].Date)
		}
		return normalized[i].CreatedAt.Before(normalized[j].CreatedAt)
	})

	return normalized, skipped
}

// processBuy opens or extends a holding and appends a FIFO lot.
func (e *Engine) processBuy(tx models.Transaction, holdings map[string]*holdingState, summary *models.PortfolioSummary) {
	cost := math.Abs(tx.Amount)

	h, ok := holdings[tx.Symbol]
	if !ok {
		h = &holdingState{ticker: tx.Symbol, firstBuyDate: tx.Date}
		holdings[tx.Symbol] = h
	}

	h.quantity += tx.Quantity
	h.totalCost += cost
	h.lots = append(h.lots, models.BuyLot{
		Quantity: tx.Quantity,
		Price:    safeDiv(cost, tx.Quantity),
		Date:     tx.Date,
	})

	summary.Cash -= cost
	summary.TotalInvested += cost
}

// processSell consumes the holding's lot queue FIFO and records the
// realized gain. A sell with no prior holding is recovered with a
// zero-basis holding rather than failing the whole rebuild.
func (e *Engine) processSell(tx models.Transaction, holdings map[string]*holdingState, summary *models.PortfolioSummary) models.RealizedGain {
	proceeds := math.Abs(tx.Amount)

	h, ok := holdings[tx.Symbol]
	if !ok {
		e.logger.Warn().
			Str("ticker", tx.Symbol).
			Float64("quantity", tx.Quantity).
			Msg("Sell without prior holding, synthesizing zero-basis position")
		h = &holdingState{ticker: tx.Symbol}
		holdings[tx.Symbol] = h
	}

	quantityToSell := tx.Quantity
	costOfGoodsSold := 0.0
	remaining := h.lots[:0]
	for _, lot := range h.lots {
		if quantityToSell > 0 {
			matched := math.Min(quantityToSell, lot.Quantity)
			costOfGoodsSold += matched * lot.Price
			quantityToSell -= matched
			if lot.Quantity > matched {
				lot.Quantity -= matched
				remaining = append(remaining, lot)
			}
		} else {
			remaining = append(remaining, lot)
		}
	}
	h.lots = remaining

	h.quantity -= tx.Quantity
	h.totalCost -= costOfGoodsSold

	summary.Cash += proceeds
	summary.TotalInvested -= costOfGoodsSold

	// Below-epsilon covers both rounding residue and oversold positions:
	// a holding never persists at a negligible or negative quantity.
	if h.quantity < holdingEpsilon {
		delete(holdings, tx.Symbol)
	}

	return models.RealizedGain{
		Ticker:          tx.Symbol,
		SellDate:        tx.Date,
		Quantity:        tx.Quantity,
		SellPrice:       safeDiv(proceeds, tx.Quantity),
		CostOfGoodsSold: costOfGoodsSold,
		Profit:          proceeds - costOfGoodsSold,
	}
}

// value resolves a current price per surviving holding and computes market
// value and unrealized P&L. Price priority: supplied current price, last
// trade price seen in the ledger, then the holding's own average cost
// (a neutral fallback yielding zero unrealized P&L).
func (e *Engine) value(holdings map[string]*holdingState, currentPrices, lastPrices map[string]float64) []models.Holding {
	result := make([]models.Holding, 0, len(holdings))

	for _, h := range holdings {
		avgCost := safeDiv(h.totalCost, h.quantity)

		price := currentPrices[h.ticker]
		if price == 0 {
			price = lastPrices[h.ticker]
		}
		if price == 0 {
			price = avgCost
		}

		marketValue := h.quantity * price
		unrealizedPL := marketValue - h.totalCost

		result = append(result, models.Holding{
			Ticker:              h.ticker,
			Quantity:            h.quantity,
			TotalCost:           finite(h.totalCost),
			AvgCost:             finite(avgCost),
			CurrentPrice:        finite(price),
			MarketValue:         finite(marketValue),
			UnrealizedPL:        finite(unrealizedPL),
			UnrealizedPLPercent: finite(safeDiv(unrealizedPL, h.totalCost) * 100),
			Lots:                h.lots,
			FirstBuyDate:        h.firstBuyDate,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Ticker < result[j].Ticker
	})

	return result
}

// aggregate computes the summary totals from valued holdings and gains.
func (e *Engine) aggregate(snapshot *models.PortfolioSnapshot) {
	summary := &snapshot.Summary

	for _, h := range snapshot.Holdings {
		summary.TotalMarketValue += h.MarketValue
		summary.TotalUnrealizedPL += h.UnrealizedPL
	}
	for _, g := range snapshot.RealizedGains {
		summary.TotalRealizedPL += g.Profit
	}

	summary.TotalPL = summary.TotalUnrealizedPL + summary.TotalRealizedPL
	summary.PortfolioValue = summary.TotalMarketValue + summary.Cash
}

// recordLastPrice remembers the most recent trade price for a ticker,
// preferring a notes-embedded execution price over the derived unit price.
func recordLastPrice(lastPrices map[string]float64, tx models.Transaction) {
	if price := PriceFromNotes(tx.Notes); price > 0 {
		lastPrices[tx.Symbol] = price
		return
	}
	if unit := safeDiv(math.Abs(tx.Amount), tx.Quantity); unit > 0 {
		lastPrices[tx.Symbol] = unit
	}
}

// PriceFromNotes extracts an execution price embedded in notes as
// "Price: $<number>". Returns 0 when absent or unparseable.
func PriceFromNotes(notes string) float64 {
	m := notesPriceRe.FindStringSubmatch(notes)
	if m == nil {
		return 0
	}
	price, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0
	}
	return price
}

// safeDiv divides, returning 0 instead of NaN/Inf on a zero denominator.
func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return finite(num / den)
}

// finite coerces NaN/Inf to 0 so degenerate arithmetic never propagates.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
