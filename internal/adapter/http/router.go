package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iho/smartwallet/internal/adapter/http/handler"
	"github.com/iho/smartwallet/internal/adapter/http/middleware"
	"github.com/iho/smartwallet/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	UserHandler         *handler.UserHandler
	WalletHandler       *handler.WalletHandler
	TransferHandler     *handler.TransferHandler
	TransactionHandler  *handler.TransactionHandler
	SubscriptionHandler *handler.SubscriptionHandler
	HealthHandler       *handler.HealthHandler
	IdempotencyStore    usecase.IdempotencyStore
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Users
		r.Route("/users", func(r chi.Router) {
			r.Post("/", cfg.UserHandler.Register)
			r.Get("/{id}", cfg.UserHandler.Get)
			r.Get("/{id}/overview", cfg.UserHandler.Overview)
			r.Get("/{id}/transactions", cfg.TransactionHandler.ListByOwner)
			r.Get("/{id}/subscription", cfg.SubscriptionHandler.GetActive)

			r.Route("/{id}/wallets", func(r chi.Router) {
				r.Post("/", cfg.WalletHandler.Unlock)
				r.Get("/", cfg.WalletHandler.List)
				r.Get("/{walletID}", cfg.WalletHandler.Get)
				r.Post("/{walletID}/switch", cfg.WalletHandler.Switch)
			})
		})

		// Wallets
		r.Route("/wallets", func(r chi.Router) {
			r.Post("/{id}/top-up", cfg.WalletHandler.TopUp)
			r.Post("/{id}/charge", cfg.WalletHandler.Charge)
		})

		// Transfers
		r.Post("/transfers", cfg.TransferHandler.Create)

		// Renewals
		r.Post("/renewals/run", cfg.SubscriptionHandler.RunRenewals)
	})

	return r
}
