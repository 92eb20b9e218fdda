package handler

import (
	"encoding/json"
	"net/http"

	"github.com/iho/smartwallet/internal/adapter/http/dto"
	"github.com/iho/smartwallet/internal/usecase"
)

// TransferHandler handles funds transfer HTTP requests.
type TransferHandler struct {
	walletUC *usecase.WalletUseCase
	userUC   *usecase.UserUseCase
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(walletUC *usecase.WalletUseCase, userUC *usecase.UserUseCase) *TransferHandler {
	return &TransferHandler{walletUC: walletUC, userUC: userUC}
}

// Create moves funds from the sender's wallet to the receiver addressed
// by username. The response is the sender-side withdrawal, failed or
// succeeded.
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	sender, err := h.userUC.GetUser(r.Context(), req.UserID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to resolve sender", err.Error())

		return
	}

	txn, err := h.walletUC.TransferFunds(r.Context(), sender, req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to transfer funds", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}
