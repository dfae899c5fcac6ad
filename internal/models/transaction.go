// Package models defines data structures for Finsight
package models

import (
	"strings"
	"time"
)

// TransactionKind is the resolved classification of a ledger entry.
// Kinds are assigned once at ingestion; downstream consumers switch over
// this closed set rather than re-sniffing labels.
type TransactionKind string

const (
	KindBuy       TransactionKind = "buy"
	KindSell      TransactionKind = "sell"
	KindDeposit   TransactionKind = "deposit"
	KindDividend  TransactionKind = "dividend"
	KindFee       TransactionKind = "fee"
	KindTaxCharge TransactionKind = "tax_charge"
	KindTaxCredit TransactionKind = "tax_credit"
	KindOther     TransactionKind = "other"
)

// validTransactionKinds lists all accepted kinds.
var validTransactionKinds = map[TransactionKind]bool{
	KindBuy:       true,
	KindSell:      true,
	KindDeposit:   true,
	KindDividend:  true,
	KindFee:       true,
	KindTaxCharge: true,
	KindTaxCredit: true,
	KindOther:     true,
}

// ValidTransactionKind returns true if k is a valid transaction kind.
func ValidTransactionKind(k TransactionKind) bool {
	return validTransactionKinds[k]
}

// ParseTransactionKind normalizes a raw transaction type string
// (e.g. "Buy", "SELL", "Tax Charge") to a TransactionKind.
// Unknown values map to KindOther.
func ParseTransactionKind(raw string) TransactionKind {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "buy":
		return KindBuy
	case "sell":
		return KindSell
	case "deposit":
		return KindDeposit
	case "dividend":
		return KindDividend
	case "fee":
		return KindFee
	case "tax charge", "tax_charge":
		return KindTaxCharge
	case "tax credit", "tax_credit":
		return KindTaxCredit
	default:
		return KindOther
	}
}

// IsTrade returns true for kinds that move shares rather than only cash.
func (k TransactionKind) IsTrade() bool {
	return k == KindBuy || k == KindSell
}

// Transaction represents a single ledger entry: a stock trade or a cash
// movement (deposit, fee, tax, dividend). Symbol carries the ticker for
// trades and a free-text label for cash movements.
type Transaction struct {
	ID        string          `json:"id"`
	Symbol    string          `json:"symbol"`
	Type      string          `json:"type"` // raw type as supplied by the broker export
	Kind      TransactionKind `json:"kind"` // resolved at ingestion
	Amount    float64         `json:"amount"`
	Quantity  float64         `json:"quantity,omitempty"`
	Date      time.Time       `json:"date"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// SignedAmount returns the display amount with sign re-derived from kind:
// buys, fees, and tax charges are outflows, everything else an inflow.
func (t Transaction) SignedAmount() float64 {
	abs := t.Amount
	if abs < 0 {
		abs = -abs
	}
	switch t.Kind {
	case KindBuy, KindFee, KindTaxCharge:
		return -abs
	default:
		return abs
	}
}

// Ledger stores all transactions for one investment account.
type Ledger struct {
	Name         string        `json:"name"`
	Version      int           `json:"version"`
	Transactions []Transaction `json:"transactions"`
	Notes        string        `json:"notes,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Tickers returns the distinct symbols of all trade entries, in first-seen order.
func (l *Ledger) Tickers() []string {
	seen := make(map[string]bool)
	var tickers []string
	for _, tx := range l.Transactions {
		if !tx.Kind.IsTrade() || tx.Symbol == "" {
			continue
		}
		if !seen[tx.Symbol] {
			seen[tx.Symbol] = true
			tickers = append(tickers, tx.Symbol)
		}
	}
	return tickers
}
