package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/finsight-io/finsight/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)

	// Portfolio
	mux.HandleFunc("/api/portfolio/dashboard", s.handleDashboard)
	mux.HandleFunc("/api/portfolio/holdings", s.handleHoldings)
	mux.HandleFunc("/api/portfolio/summary", s.handleSummary)
	mux.HandleFunc("/api/portfolio/performance/monthly", s.handleMonthlyPerformance)
	mux.HandleFunc("/api/portfolio/gains", s.handleGains)

	// Transactions
	mux.HandleFunc("/api/transactions/import", s.handleTransactionImport)
	mux.HandleFunc("/api/transactions/", s.routeTransactions)
	mux.HandleFunc("/api/transactions", s.handleTransactions)

	// Prices
	mux.HandleFunc("/api/prices/refresh", s.handlePriceRefresh)
	mux.HandleFunc("/api/prices/", s.routePrices)
	mux.HandleFunc("/api/prices", s.handlePrices)
}

// routeTransactions dispatches /api/transactions/{id} to the appropriate handler.
func (s *Server) routeTransactions(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
	if id == "" {
		s.handleTransactions(w, r)
		return
	}
	s.handleTransactionByID(w, r, id)
}

// routePrices dispatches /api/prices/{ticker} to the appropriate handler.
func (s *Server) routePrices(w http.ResponseWriter, r *http.Request) {
	ticker := strings.TrimPrefix(r.URL.Path, "/api/prices/")
	if ticker == "" {
		s.handlePrices(w, r)
		return
	}
	s.handlePriceByTicker(w, r, ticker)
}

// ledgerName resolves the ledger to operate on: ?ledger= query parameter,
// falling back to the configured default.
func (s *Server) ledgerName(r *http.Request) string {
	if name := strings.TrimSpace(r.URL.Query().Get("ledger")); name != "" {
		return name
	}
	return s.app.DefaultLedger
}

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}
