package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseTransactionKind(t *testing.T) {
	tests := []struct {
		raw  string
		want TransactionKind
	}{
		{"Buy", KindBuy},
		{"BUY", KindBuy},
		{"sell", KindSell},
		{" Sell ", KindSell},
		{"Deposit", KindDeposit},
		{"Dividend", KindDividend},
		{"Fee", KindFee},
		{"Tax Charge", KindTaxCharge},
		{"tax_charge", KindTaxCharge},
		{"Tax Credit", KindTaxCredit},
		{"", KindOther},
		{"transfer", KindOther},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseTransactionKind(tt.raw), "raw=%q", tt.raw)
	}
}

func TestValidTransactionKind(t *testing.T) {
	assert.True(t, ValidTransactionKind(KindBuy))
	assert.True(t, ValidTransactionKind(KindTaxCredit))
	assert.False(t, ValidTransactionKind(TransactionKind("withdrawal")))
}

func TestSignedAmount(t *testing.T) {
	tests := []struct {
		kind   TransactionKind
		amount float64
		want   float64
	}{
		{KindBuy, 500, -500},
		{KindBuy, -500, -500},
		{KindFee, 3.5, -3.5},
		{KindTaxCharge, -12, -12},
		{KindSell, -480, 480},
		{KindDeposit, 1000, 1000},
		{KindDividend, 25, 25},
		{KindTaxCredit, -8, 8},
	}

	for _, tt := range tests {
		tx := Transaction{Kind: tt.kind, Amount: tt.amount}
		assert.Equal(t, tt.want, tx.SignedAmount(), "kind=%s amount=%v", tt.kind, tt.amount)
	}
}

func TestLedgerTickers(t *testing.T) {
	ledger := &Ledger{
		Transactions: []Transaction{
			{Symbol: "Deposit", Kind: KindDeposit},
			{Symbol: "ABC", Kind: KindBuy, Quantity: 10},
			{Symbol: "XYZ", Kind: KindBuy, Quantity: 5},
			{Symbol: "ABC", Kind: KindSell, Quantity: 4},
			{Symbol: "ABC", Kind: KindDividend},
		},
	}

	assert.Equal(t, []string{"ABC", "XYZ"}, ledger.Tickers())
}

func TestPriceQuoteIsFresh(t *testing.T) {
	q := PriceQuote{Ticker: "ABC", Price: 110, UpdatedAt: time.Now().Add(-10 * time.Minute)}
	assert.True(t, q.IsFresh(time.Hour))
	assert.False(t, q.IsFresh(5*time.Minute))

	var zero PriceQuote
	assert.False(t, zero.IsFresh(time.Hour))
}
