package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/smartwallet/internal/adapter/http/dto"
	"github.com/iho/smartwallet/internal/usecase"
)

// TransactionHandler handles transaction history HTTP requests.
type TransactionHandler struct {
	txnUC *usecase.TransactionUseCase
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(txnUC *usecase.TransactionUseCase) *TransactionHandler {
	return &TransactionHandler{txnUC: txnUC}
}

// ListByOwner lists a user's transactions, newest first.
func (h *TransactionHandler) ListByOwner(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing user ID", "")
		return
	}

	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)

	txns, err := h.txnUC.ListByOwner(r.Context(), userID, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(txns))
}
