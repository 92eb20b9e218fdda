package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/smartwallet/internal/adapter/http/dto"
	"github.com/iho/smartwallet/internal/usecase"
)

// SubscriptionHandler handles subscription HTTP requests.
type SubscriptionHandler struct {
	subUC     *usecase.SubscriptionUseCase
	renewalUC *usecase.RenewalUseCase
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(subUC *usecase.SubscriptionUseCase, renewalUC *usecase.RenewalUseCase) *SubscriptionHandler {
	return &SubscriptionHandler{subUC: subUC, renewalUC: renewalUC}
}

// GetActive returns the user's active subscription.
func (h *SubscriptionHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing user ID", "")
		return
	}

	sub, err := h.subUC.GetActiveByOwner(r.Context(), userID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get subscription", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.SubscriptionFromDomain(sub))
}

// RunRenewals triggers one renewal pass outside the scheduler cadence.
func (h *SubscriptionHandler) RunRenewals(w http.ResponseWriter, r *http.Request) {
	processed, err := h.renewalUC.ProcessDue(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "renewal run failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"processed": processed})
}
