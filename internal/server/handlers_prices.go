package server

import (
	"fmt"
	"net/http"
	"strings"
)

// --- Price handlers ---

// handlePrices handles GET /api/prices — the latest known price per ticker.
// ?tickers=ABC,XYZ limits the result; without it the default ledger's trade
// tickers are used.
func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ctx := r.Context()

	tickers := splitTickers(r.URL.Query().Get("tickers"))
	if len(tickers) == 0 {
		ledger, err := s.app.LedgerService.GetLedger(ctx, s.ledgerName(r))
		if err != nil {
			WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error loading ledger: %v", err))
			return
		}
		tickers = ledger.Tickers()
	}

	prices, err := s.app.PriceService.GetPrices(ctx, tickers)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error fetching prices: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"prices": prices,
	})
}

// handlePriceRefresh handles POST /api/prices/refresh — fetch quotes for
// stale tickers from the feed. {"force": true} refreshes regardless of age.
func (s *Server) handlePriceRefresh(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Tickers []string `json:"tickers"`
		Force   bool     `json:"force"`
	}
	if r.Body != nil && r.ContentLength > 0 {
		if !DecodeJSON(w, r, &req) {
			return
		}
	}

	ctx := r.Context()

	tickers := req.Tickers
	if len(tickers) == 0 {
		ledger, err := s.app.LedgerService.GetLedger(ctx, s.ledgerName(r))
		if err != nil {
			WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error loading ledger: %v", err))
			return
		}
		tickers = ledger.Tickers()
	}

	updated, err := s.app.PriceService.RefreshPrices(ctx, tickers, req.Force)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Refresh error: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"requested": len(tickers),
		"updated":   updated,
	})
}

// handlePriceByTicker handles PUT /api/prices/{ticker} — a manual price override.
func (s *Server) handlePriceByTicker(w http.ResponseWriter, r *http.Request, ticker string) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	var req struct {
		Price float64 `json:"price"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := s.app.PriceService.SetPrice(r.Context(), ticker, req.Price); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Error setting price: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"ticker": ticker,
		"price":  req.Price,
	})
}

func splitTickers(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	var tickers []string
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tickers = append(tickers, t)
		}
	}
	return tickers
}
