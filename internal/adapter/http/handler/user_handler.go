package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/smartwallet/internal/adapter/http/dto"
	"github.com/iho/smartwallet/internal/usecase"
)

// UserHandler handles user-related HTTP requests.
type UserHandler struct {
	userUC   *usecase.UserUseCase
	walletUC *usecase.WalletUseCase
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userUC *usecase.UserUseCase, walletUC *usecase.WalletUseCase) *UserHandler {
	return &UserHandler{userUC: userUC, walletUC: walletUC}
}

// Register creates a user with their default subscription and first wallet.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := h.userUC.Register(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to register user", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.UserFromDomain(user))
}

// Get retrieves a user by ID.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing user ID", "")
		return
	}

	user, err := h.userUC.GetUser(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get user", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.UserFromDomain(user))
}

// Overview returns the user's wallets with their latest transactions.
func (h *UserHandler) Overview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing user ID", "")
		return
	}

	wallets, err := h.walletUC.ListWallets(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to list wallets", err.Error())

		return
	}

	recent, err := h.walletUC.RecentTransactions(r.Context(), wallets)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load transactions", err.Error())
		return
	}

	overview := &dto.OverviewResponse{Wallets: make([]*dto.WalletOverview, len(wallets))}
	for i, wallet := range wallets {
		overview.Wallets[i] = &dto.WalletOverview{
			Wallet:       dto.WalletFromDomain(wallet),
			Transactions: dto.TransactionsFromDomain(recent[wallet.ID]),
		}
	}

	writeJSON(w, http.StatusOK, overview)
}
