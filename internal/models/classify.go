package models

import "strings"

// KeywordClassifier resolves a raw ledger row to a TransactionKind.
// Label keywords take priority over the broker-supplied type: cash-movement
// rows (deposits, fees, taxes) carry a free-text label in the symbol field,
// so a keyword hit is authoritative. Only then is the explicit type consulted.
//
// Classifiers are plain constructed values owned by their caller; keyword
// sets are configuration data, not compiled-in behavior.
type KeywordClassifier struct {
	DepositKeywords   []string
	FeeKeywords       []string
	TaxChargeKeywords []string
	TaxCreditKeywords []string
	TaxKeywords       []string // generic fallback, checked after the specific tax sets
}

// NewKeywordClassifier returns a classifier with the default keyword sets.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{
		DepositKeywords:   []string{"deposit"},
		FeeKeywords:       []string{"fee", "commission"},
		TaxChargeKeywords: []string{"tax charge", "withholding"},
		TaxCreditKeywords: []string{"tax credit", "tax refund"},
		TaxKeywords:       []string{"tax"},
	}
}

// Classify resolves the kind of one ledger row from its label, raw type,
// and traded quantity.
func (c *KeywordClassifier) Classify(label, rawType string, quantity float64) TransactionKind {
	l := strings.ToLower(label)

	switch {
	case matchAny(l, c.DepositKeywords):
		return KindDeposit
	case matchAny(l, c.FeeKeywords):
		return KindFee
	case matchAny(l, c.TaxChargeKeywords):
		return KindTaxCharge
	case matchAny(l, c.TaxCreditKeywords):
		return KindTaxCredit
	case matchAny(l, c.TaxKeywords):
		return KindTaxCharge
	}

	kind := ParseTransactionKind(rawType)
	if kind.IsTrade() && quantity <= 0 {
		// A trade row with no shares has nothing to match against lots.
		return KindOther
	}
	return kind
}

func matchAny(label string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(label, kw) {
			return true
		}
	}
	return false
}
