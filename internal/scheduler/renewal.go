package scheduler

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/iho/smartwallet/internal/infrastructure/metrics"
	"github.com/iho/smartwallet/internal/usecase"
)

// RenewalScheduler runs the subscription renewal pass on a fixed cadence.
type RenewalScheduler struct {
	renewals *usecase.RenewalUseCase
	lock     usecase.RenewalLock
	retrier  usecase.Retrier
	logger   *slog.Logger
	metrics  *metrics.Metrics
	interval time.Duration
	leaseTTL time.Duration
	running  atomic.Bool
}

// Config for RenewalScheduler.
type Config struct {
	Renewals *usecase.RenewalUseCase
	Lock     usecase.RenewalLock       // optional cross-process lease
	Retrier  usecase.Retrier           // optional transient-error retry
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Interval time.Duration             // tick cadence
	LeaseTTL time.Duration             // lease lifetime, must outlive a tick
}

// NewRenewalScheduler creates a new RenewalScheduler.
func NewRenewalScheduler(cfg Config) *RenewalScheduler {
	if cfg.Interval == 0 {
		cfg.Interval = time.Minute
	}
	if cfg.LeaseTTL == 0 {
		cfg.LeaseTTL = 2 * cfg.Interval
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &RenewalScheduler{
		renewals: cfg.Renewals,
		lock:     cfg.Lock,
		retrier:  cfg.Retrier,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
		interval: cfg.Interval,
		leaseTTL: cfg.LeaseTTL,
	}
}

// Start begins the renewal loop. It runs continuously until the context is
// cancelled.
func (s *RenewalScheduler) Start(ctx context.Context) error {
	s.logger.Info("renewal scheduler started",
		slog.Duration("interval", s.interval),
		slog.Duration("lease_ttl", s.leaseTTL))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Process immediately on start
	s.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("renewal scheduler shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick runs one renewal pass. Single flight: a tick that fires while the
// previous one is still running is skipped, and the cross-process lease
// keeps two instances from loading overlapping due sets.
func (s *RenewalScheduler) tick(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("previous renewal tick still running, skipping")
		if s.metrics != nil {
			s.metrics.RenewalTicksSkipped.Inc()
		}
		return
	}
	defer s.running.Store(false)

	if s.lock != nil {
		acquired, err := s.lock.Acquire(ctx, s.leaseTTL)
		if err != nil {
			s.logger.Error("renewal lease acquisition failed", slog.String("error", err.Error()))
			return
		}
		if !acquired {
			s.logger.Info("renewal lease held elsewhere, skipping tick")
			return
		}
		defer func() {
			if err := s.lock.Release(ctx); err != nil {
				s.logger.Warn("renewal lease release failed", slog.String("error", err.Error()))
			}
		}()
	}

	start := time.Now()

	var processed int
	run := func() error {
		var err error
		processed, err = s.renewals.ProcessDue(ctx)
		return err
	}

	var err error
	if s.retrier != nil {
		err = s.retrier.Retry(ctx, run)
	} else {
		err = run()
	}
	if err != nil {
		s.logger.Error("renewal tick failed", slog.String("error", err.Error()))
		return
	}

	if s.metrics != nil {
		s.metrics.RenewalTickDuration.Observe(time.Since(start).Seconds())
	}

	if processed > 0 {
		s.logger.Info("renewal tick complete",
			slog.Int("processed", processed),
			slog.Duration("took", time.Since(start)))
	}
}
