package ledger

import (
	"fmt"

	"github.com/finsight-io/finsight/internal/models"
)

// duplicateDetector tracks transaction identity during one import. It is a
// plain value owned by the importing call, constructed fresh each time —
// duplicate state never outlives the import that needs it.
type duplicateDetector struct {
	keys map[string]bool
}

func newDuplicateDetector(existing []models.Transaction) *duplicateDetector {
	d := &duplicateDetector{keys: make(map[string]bool, len(existing))}
	for _, tx := range existing {
		d.record(tx)
	}
	return d
}

// fingerprint identifies a transaction by its economic content. IDs and
// timestamps are excluded: re-importing the same broker export must match
// rows that were assigned fresh IDs on the first import.
func (d *duplicateDetector) fingerprint(tx models.Transaction) string {
	return fmt.Sprintf("%s|%s|%.6f|%.6f|%s",
		tx.Symbol, tx.Kind, tx.Amount, tx.Quantity, tx.Date.Format("2006-01-02"))
}

func (d *duplicateDetector) seen(tx models.Transaction) bool {
	return d.keys[d.fingerprint(tx)]
}

func (d *duplicateDetector) record(tx models.Transaction) {
	d.keys[d.fingerprint(tx)] = true
}
