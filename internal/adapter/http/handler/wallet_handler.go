package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/smartwallet/internal/adapter/http/dto"
	"github.com/iho/smartwallet/internal/usecase"
)

// WalletHandler handles wallet-related HTTP requests. Ledger rejections
// come back as 200 with a failed transaction in the body, matching how
// the ledger engine records them.
type WalletHandler struct {
	walletUC *usecase.WalletUseCase
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletUC *usecase.WalletUseCase) *WalletHandler {
	return &WalletHandler{walletUC: walletUC}
}

// TopUp credits funds to a wallet.
func (h *WalletHandler) TopUp(w http.ResponseWriter, r *http.Request) {
	walletID := chi.URLParam(r, "id")
	if walletID == "" {
		writeError(w, http.StatusBadRequest, "missing wallet ID", "")
		return
	}

	var req dto.TopUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	txn, err := h.walletUC.TopUp(r.Context(), walletID, req.Amount)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to top up wallet", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// Charge debits funds from a wallet.
func (h *WalletHandler) Charge(w http.ResponseWriter, r *http.Request) {
	walletID := chi.URLParam(r, "id")
	if walletID == "" {
		writeError(w, http.StatusBadRequest, "missing wallet ID", "")
		return
	}

	var req dto.ChargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	txn, err := h.walletUC.Charge(r.Context(), req.UserID, walletID, req.Amount, req.Description)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to charge wallet", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// Unlock creates an additional wallet for the user, subject to the tier
// wallet limit.
func (h *WalletHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing user ID", "")
		return
	}

	wallet, err := h.walletUC.UnlockNewWallet(r.Context(), userID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to unlock wallet", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.WalletFromDomain(wallet))
}

// List lists the user's wallets.
func (h *WalletHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing user ID", "")
		return
	}

	wallets, err := h.walletUC.ListWallets(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list wallets", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.WalletsFromDomain(wallets))
}

// Get retrieves one of the user's wallets.
func (h *WalletHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	walletID := chi.URLParam(r, "walletID")
	if userID == "" || walletID == "" {
		writeError(w, http.StatusBadRequest, "missing user or wallet ID", "")
		return
	}

	wallet, err := h.walletUC.GetWallet(r.Context(), walletID, userID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get wallet", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.WalletFromDomain(wallet))
}

// Switch toggles a wallet between active and inactive.
func (h *WalletHandler) Switch(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	walletID := chi.URLParam(r, "walletID")
	if userID == "" || walletID == "" {
		writeError(w, http.StatusBadRequest, "missing user or wallet ID", "")
		return
	}

	wallet, err := h.walletUC.SwitchWalletStatus(r.Context(), walletID, userID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to switch wallet status", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.WalletFromDomain(wallet))
}
