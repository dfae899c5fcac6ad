// Package storage provides the top-level StorageManager that coordinates
// the 2 storage areas: ledgerdb and marketfs.
package storage

import (
	"fmt"

	"github.com/finsight-io/finsight/internal/common"
	"github.com/finsight-io/finsight/internal/interfaces"
	"github.com/finsight-io/finsight/internal/storage/ledgerdb"
	"github.com/finsight-io/finsight/internal/storage/marketfs"
)

// Manager implements interfaces.StorageManager using 2 storage areas.
type Manager struct {
	ledger *ledgerdb.Store
	market *marketfs.Store
	logger *common.Logger
}

// NewManager creates a new StorageManager with the 2 storage areas.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	ledgerStore, err := ledgerdb.NewStore(logger, config.Storage.Ledger.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create ledger store: %w", err)
	}

	marketStore, err := marketfs.NewStore(logger, config.Storage.Market.Path)
	if err != nil {
		ledgerStore.Close()
		return nil, fmt.Errorf("failed to create market store: %w", err)
	}

	logger.Info().
		Str("ledger", config.Storage.Ledger.Path).
		Str("market", config.Storage.Market.Path).
		Msg("Storage manager initialized (2 areas)")

	return &Manager{
		ledger: ledgerStore,
		market: marketStore,
		logger: logger,
	}, nil
}

func (m *Manager) LedgerStore() interfaces.LedgerStore {
	return m.ledger
}

func (m *Manager) PriceStore() interfaces.PriceStore {
	return m.market
}

// Close closes all storage areas.
func (m *Manager) Close() error {
	return m.ledger.Close()
}
