package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/smartwallet/internal/adapter/http"
	"github.com/iho/smartwallet/internal/adapter/http/handler"
	postgresRepo "github.com/iho/smartwallet/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/smartwallet/internal/adapter/repository/redis"
	"github.com/iho/smartwallet/internal/infrastructure/config"
	"github.com/iho/smartwallet/internal/infrastructure/metrics"
	"github.com/iho/smartwallet/internal/infrastructure/notification"
	"github.com/iho/smartwallet/internal/infrastructure/postgres"
	"github.com/iho/smartwallet/internal/infrastructure/redis"
	"github.com/iho/smartwallet/internal/scheduler"
	"github.com/iho/smartwallet/internal/usecase"
)

func main() {
	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	m := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	walletRepo := postgresRepo.NewWalletRepository(pool)
	txnRepo := postgresRepo.NewTransactionRepository(pool)
	subRepo := postgresRepo.NewSubscriptionRepository(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	renewalLock := redisRepo.NewRenewalLock(redisClient)
	idGen := postgresRepo.NewULIDGenerator()

	// Notification gateway is optional; without a URL the usecases skip it
	var notifier usecase.NotificationGateway
	if cfg.NotificationURL != "" {
		notifier = notification.NewClient(cfg.NotificationURL, cfg.NotificationTimeout, nil)
	}

	// Initialize use cases
	walletUC := usecase.NewWalletUseCase(txManager, walletRepo, txnRepo, subRepo, notifier, idGen, m)
	subUC := usecase.NewSubscriptionUseCase(txManager, subRepo, walletRepo, walletUC, idGen, m)
	renewalUC := usecase.NewRenewalUseCase(subRepo, subUC, nil)
	userUC := usecase.NewUserUseCase(txManager, userRepo, subUC, walletUC, notifier, idGen)
	txnUC := usecase.NewTransactionUseCase(txnRepo)

	// Initialize handlers
	userHandler := handler.NewUserHandler(userUC, walletUC)
	walletHandler := handler.NewWalletHandler(walletUC)
	transferHandler := handler.NewTransferHandler(walletUC, userUC)
	txnHandler := handler.NewTransactionHandler(txnUC)
	subHandler := handler.NewSubscriptionHandler(subUC, renewalUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		UserHandler:         userHandler,
		WalletHandler:       walletHandler,
		TransferHandler:     transferHandler,
		TransactionHandler:  txnHandler,
		SubscriptionHandler: subHandler,
		HealthHandler:       healthHandler,
		IdempotencyStore:    idempotencyStore,
	})

	// Start renewal scheduler
	schedulerCtx, stopScheduler := context.WithCancel(ctx)
	defer stopScheduler()

	if cfg.RenewalEnabled {
		renewalScheduler := scheduler.NewRenewalScheduler(scheduler.Config{
			Renewals: renewalUC,
			Lock:     renewalLock,
			Retrier:  postgresRepo.NewRetrier(),
			Metrics:  m,
			Interval: cfg.RenewalInterval,
			LeaseTTL: cfg.RenewalLeaseTTL,
		})

		go func() {
			if err := renewalScheduler.Start(schedulerCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("renewal scheduler stopped")
			}
		}()
	}

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	stopScheduler()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
