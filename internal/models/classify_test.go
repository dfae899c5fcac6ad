package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyLabelKeywordsWinOverType(t *testing.T) {
	c := NewKeywordClassifier()

	// A deposit row often arrives with quantity 0 and an arbitrary type.
	assert.Equal(t, KindDeposit, c.Classify("Deposit to investment account", "Buy", 0))
	assert.Equal(t, KindFee, c.Classify("Monthly account fee", "", 0))
	assert.Equal(t, KindFee, c.Classify("Trade commission", "Sell", 2))
	assert.Equal(t, KindTaxCharge, c.Classify("Tax charge Q1", "", 0))
	assert.Equal(t, KindTaxCredit, c.Classify("Tax credit adjustment", "", 0))
	assert.Equal(t, KindTaxCharge, c.Classify("Capital gains tax", "", 0))
}

func TestClassifyTradesByType(t *testing.T) {
	c := NewKeywordClassifier()

	assert.Equal(t, KindBuy, c.Classify("AAPL", "Buy", 10))
	assert.Equal(t, KindSell, c.Classify("AAPL", "sell", 4))
	assert.Equal(t, KindDividend, c.Classify("AAPL", "Dividend", 0))
}

func TestClassifyTradeWithoutQuantityIgnored(t *testing.T) {
	c := NewKeywordClassifier()

	assert.Equal(t, KindOther, c.Classify("AAPL", "Buy", 0))
	assert.Equal(t, KindOther, c.Classify("AAPL", "Sell", -1))
}

func TestClassifyUnknownRows(t *testing.T) {
	c := NewKeywordClassifier()

	assert.Equal(t, KindOther, c.Classify("Mystery entry", "", 0))
	assert.Equal(t, KindOther, c.Classify("AAPL", "transfer", 5))
}

func TestClassifyCustomKeywords(t *testing.T) {
	c := &KeywordClassifier{DepositKeywords: []string{"einzahlung"}}

	assert.Equal(t, KindDeposit, c.Classify("Einzahlung März", "", 0))
	assert.Equal(t, KindOther, c.Classify("Deposit", "", 0))
}
