package server

import (
	"fmt"
	"net/http"
)

// --- Portfolio handlers ---

// handleDashboard handles GET /api/portfolio/dashboard — the full
// reconstructed snapshot: summary, holdings, realized gains, transactions.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	snapshot, err := s.app.PortfolioService.GetSnapshot(r.Context(), s.ledgerName(r))
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error rebuilding portfolio: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, snapshot)
}

// handleHoldings handles GET /api/portfolio/holdings.
func (s *Server) handleHoldings(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	snapshot, err := s.app.PortfolioService.GetSnapshot(r.Context(), s.ledgerName(r))
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error rebuilding portfolio: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"holdings": snapshot.Holdings,
	})
}

// handleSummary handles GET /api/portfolio/summary.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	snapshot, err := s.app.PortfolioService.GetSnapshot(r.Context(), s.ledgerName(r))
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error rebuilding portfolio: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, snapshot.Summary)
}

// handleMonthlyPerformance handles GET /api/portfolio/performance/monthly.
func (s *Server) handleMonthlyPerformance(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	months, err := s.app.PortfolioService.GetMonthlyPerformance(r.Context(), s.ledgerName(r))
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error computing monthly performance: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"months": months,
	})
}

// handleGains handles GET /api/portfolio/gains — realized gain events plus
// the per-ticker aggregation.
func (s *Server) handleGains(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ctx := r.Context()
	name := s.ledgerName(r)

	snapshot, err := s.app.PortfolioService.GetSnapshot(ctx, name)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error rebuilding portfolio: %v", err))
		return
	}

	tickers, err := s.app.PortfolioService.GetTickerPerformance(ctx, name)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error computing ticker performance: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"realized_gains": snapshot.RealizedGains,
		"by_ticker":      tickers,
		"total_realized": snapshot.Summary.TotalRealizedPL,
	})
}
