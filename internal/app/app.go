// Package app wires configuration, storage, clients, and services into
// the shared core used by cmd/finsight-server.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/finsight-io/finsight/internal/clients/quotes"
	"github.com/finsight-io/finsight/internal/common"
	"github.com/finsight-io/finsight/internal/interfaces"
	"github.com/finsight-io/finsight/internal/models"
	"github.com/finsight-io/finsight/internal/services/ledger"
	"github.com/finsight-io/finsight/internal/services/portfolio"
	"github.com/finsight-io/finsight/internal/services/price"
	"github.com/finsight-io/finsight/internal/storage"
)

// App holds all initialized services, clients, and storage.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.StorageManager
	QuotesClient     interfaces.QuotesClient
	LedgerService    interfaces.LedgerService
	PortfolioService interfaces.PortfolioService
	PriceService     interfaces.PriceService
	DefaultLedger    string
	StartupTime      time.Time

	schedulerCancel context.CancelFunc
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes storage, clients, and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	binDir := getBinaryDir()

	// Load configuration - check provided path, FINSIGHT_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("FINSIGHT_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "finsight.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/finsight.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage paths to binary directory
	if config.Storage.Ledger.Path != "" && !filepath.IsAbs(config.Storage.Ledger.Path) {
		config.Storage.Ledger.Path = filepath.Join(binDir, config.Storage.Ledger.Path)
	}
	if config.Storage.Market.Path != "" && !filepath.IsAbs(config.Storage.Market.Path) {
		config.Storage.Market.Path = filepath.Join(binDir, config.Storage.Market.Path)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := storage.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	var quotesClient interfaces.QuotesClient
	if config.Clients.Quotes.APIKey != "" {
		quotesClient = quotes.NewClient(config.Clients.Quotes.APIKey,
			quotes.WithBaseURL(config.Clients.Quotes.BaseURL),
			quotes.WithLogger(logger),
			quotes.WithRateLimit(config.Clients.Quotes.RateLimit),
			quotes.WithTimeout(config.Clients.Quotes.GetTimeout()),
		)
	} else {
		logger.Warn().Msg("Quotes API key not configured - price refresh will be unavailable")
	}

	classifier := models.NewKeywordClassifier()

	ledgerService := ledger.NewService(storageManager, classifier, logger)
	priceService := price.NewService(storageManager, quotesClient, config.Engine.GetPriceStaleness(), logger)
	portfolioService := portfolio.NewService(ledgerService, priceService, logger)

	a := &App{
		Config:           config,
		Logger:           logger,
		Storage:          storageManager,
		QuotesClient:     quotesClient,
		LedgerService:    ledgerService,
		PortfolioService: portfolioService,
		PriceService:     priceService,
		DefaultLedger:    config.Ledger,
		StartupTime:      startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// Close releases all resources held by the App.
// Shutdown order: cancel scheduler, close storage.
func (a *App) Close() {
	if a.schedulerCancel != nil {
		a.schedulerCancel()
		a.schedulerCancel = nil
	}
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}

// StartPriceScheduler launches the background price refresh goroutine.
func (a *App) StartPriceScheduler() {
	schedulerCtx, schedulerCancel := context.WithCancel(context.Background())
	a.schedulerCancel = schedulerCancel
	go startPriceScheduler(schedulerCtx, a.LedgerService, a.PriceService, a.DefaultLedger, a.Logger, a.Config.Engine.GetRefreshInterval())
}
