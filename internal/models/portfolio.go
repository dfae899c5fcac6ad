package models

import "time"

// BuyLot is one open purchase parcel within a holding, consumed FIFO on sell.
type BuyLot struct {
	Quantity float64   `json:"quantity"`
	Price    float64   `json:"price"` // unit cost, abs(amount) / quantity at buy time
	Date     time.Time `json:"date"`
}

// Holding represents an open position reconstructed from the ledger.
type Holding struct {
	Ticker              string    `json:"ticker"`
	Quantity            float64   `json:"quantity"`
	TotalCost           float64   `json:"total_cost"` // cost basis of the open quantity
	AvgCost             float64   `json:"avg_cost"`
	CurrentPrice        float64   `json:"current_price"`
	MarketValue         float64   `json:"market_value"`
	UnrealizedPL        float64   `json:"unrealized_pl"`
	UnrealizedPLPercent float64   `json:"unrealized_pl_percent"`
	Lots                []BuyLot  `json:"lots,omitempty"`
	FirstBuyDate        time.Time `json:"first_buy_date,omitempty"`
}

// RealizedGain is one closed (or partially closed) position event, appended
// per sell in processing order.
type RealizedGain struct {
	Ticker          string    `json:"ticker"`
	SellDate        time.Time `json:"sell_date"`
	Quantity        float64   `json:"quantity"`
	SellPrice       float64   `json:"sell_price"`
	CostOfGoodsSold float64   `json:"cost_of_goods_sold"`
	Profit          float64   `json:"profit"`
}

// PortfolioSummary holds account-level aggregates over the full ledger.
type PortfolioSummary struct {
	Cash              float64 `json:"cash"`
	Deposits          float64 `json:"deposits"`
	Fees              float64 `json:"fees"`
	Taxes             float64 `json:"taxes"` // net of credits
	Dividends         float64 `json:"dividends"`
	TotalInvested     float64 `json:"total_invested"`
	TotalMarketValue  float64 `json:"total_market_value"`
	TotalUnrealizedPL float64 `json:"total_unrealized_pl"`
	TotalRealizedPL   float64 `json:"total_realized_pl"`
	TotalPL           float64 `json:"total_pl"`
	PortfolioValue    float64 `json:"portfolio_value"` // total_market_value + cash
}

// PortfolioSnapshot is the full result of one ledger reconstruction.
// Recomputed from scratch on every invocation; never persisted.
type PortfolioSnapshot struct {
	Summary       PortfolioSummary `json:"summary"`
	Holdings      []Holding        `json:"holdings"`
	RealizedGains []RealizedGain   `json:"realized_gains"`
	Transactions  []Transaction    `json:"transactions"` // normalized, canonical order
	SkippedRows   int              `json:"skipped_rows,omitempty"`
}

// MonthlyPerformance buckets cash movement by calendar month ("2024-01").
type MonthlyPerformance struct {
	Month     string  `json:"month"`
	Deposits  float64 `json:"deposits"`
	Invested  float64 `json:"invested"`
	Returns   float64 `json:"returns"`
	Fees      float64 `json:"fees"`
	Dividends float64 `json:"dividends"`
}

// TickerPerformance aggregates realized gains per ticker.
type TickerPerformance struct {
	Ticker          string  `json:"ticker"`
	QuantitySold    float64 `json:"quantity_sold"`
	Proceeds        float64 `json:"proceeds"`
	CostOfGoodsSold float64 `json:"cost_of_goods_sold"`
	Profit          float64 `json:"profit"`
	ReturnPercent   float64 `json:"return_percent"` // profit / cost_of_goods_sold × 100
	Sells           int     `json:"sells"`
}

// PriceQuote is one cached market price for a ticker.
type PriceQuote struct {
	Ticker    string    `json:"ticker"`
	Price     float64   `json:"price"`
	Source    string    `json:"source,omitempty"` // "feed" or "manual"
	UpdatedAt time.Time `json:"updated_at"`
}

// IsFresh returns true if the quote is younger than the given TTL.
func (q PriceQuote) IsFresh(ttl time.Duration) bool {
	if q.UpdatedAt.IsZero() {
		return false
	}
	return time.Since(q.UpdatedAt) < ttl
}

// LedgerRecord is the generic storage envelope for ledger-area records.
type LedgerRecord struct {
	Subject  string    `json:"subject"` // e.g. "ledger"
	Key      string    `json:"key"`
	Value    string    `json:"value"` // JSON-encoded payload
	Version  int       `json:"version"`
	DateTime time.Time `json:"datetime"`
}
