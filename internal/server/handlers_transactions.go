package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/finsight-io/finsight/internal/models"
)

// --- Transaction handlers ---

// handleTransactions handles /api/transactions:
//
//	GET  — list the ledger's transactions
//	POST — add a single transaction
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleTransactionList(w, r)
	case http.MethodPost:
		s.handleTransactionAdd(w, r)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handleTransactionList(w http.ResponseWriter, r *http.Request) {
	ledger, err := s.app.LedgerService.GetLedger(r.Context(), s.ledgerName(r))
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error loading ledger: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"ledger":       ledger.Name,
		"transactions": ledger.Transactions,
		"count":        len(ledger.Transactions),
	})
}

func (s *Server) handleTransactionAdd(w http.ResponseWriter, r *http.Request) {
	var tx models.Transaction
	if !DecodeJSON(w, r, &tx) {
		return
	}

	ledger, err := s.app.LedgerService.AddTransaction(r.Context(), s.ledgerName(r), tx)
	if err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Error adding transaction: %v", err))
		return
	}

	added := ledger.Transactions[len(ledger.Transactions)-1]
	WriteJSON(w, http.StatusCreated, added)
}

// handleTransactionByID handles /api/transactions/{id}:
//
//	PUT    — update the transaction
//	DELETE — remove the transaction
func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodPut:
		s.handleTransactionUpdate(w, r, id)
	case http.MethodDelete:
		s.handleTransactionDelete(w, r, id)
	default:
		RequireMethod(w, r, http.MethodPut, http.MethodDelete)
	}
}

func (s *Server) handleTransactionUpdate(w http.ResponseWriter, r *http.Request, id string) {
	var tx models.Transaction
	if !DecodeJSON(w, r, &tx) {
		return
	}

	ledger, err := s.app.LedgerService.UpdateTransaction(r.Context(), s.ledgerName(r), id, tx)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Error updating transaction: %v", err))
		return
	}

	for _, t := range ledger.Transactions {
		if t.ID == id {
			WriteJSON(w, http.StatusOK, t)
			return
		}
	}
	WriteJSON(w, http.StatusOK, map[string]string{"id": id, "status": "updated"})
}

func (s *Server) handleTransactionDelete(w http.ResponseWriter, r *http.Request, id string) {
	if _, err := s.app.LedgerService.DeleteTransaction(r.Context(), s.ledgerName(r), id); err != nil {
		if strings.Contains(err.Error(), "not found") {
			WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error deleting transaction: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"id": id, "status": "deleted"})
}

// handleTransactionImport handles POST /api/transactions/import — bulk
// append with per-row validation and duplicate skipping.
func (s *Server) handleTransactionImport(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Transactions []models.Transaction `json:"transactions"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if len(req.Transactions) == 0 {
		WriteError(w, http.StatusBadRequest, "transactions array is required")
		return
	}

	result, err := s.app.LedgerService.ImportTransactions(r.Context(), s.ledgerName(r), req.Transactions)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Import error: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, result)
}
