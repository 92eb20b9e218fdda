package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/iho/smartwallet/internal/domain"
)

// RenewalUseCase drives one pass over the subscriptions whose billing
// period boundary has been reached. The scheduler owns cadence and
// single-flight; this type owns what happens inside a tick.
type RenewalUseCase struct {
	subRepo SubscriptionRepository
	subUC   *SubscriptionUseCase
	logger  *slog.Logger
}

// NewRenewalUseCase creates a new RenewalUseCase.
func NewRenewalUseCase(subRepo SubscriptionRepository, subUC *SubscriptionUseCase, logger *slog.Logger) *RenewalUseCase {
	if logger == nil {
		logger = slog.Default()
	}

	return &RenewalUseCase{
		subRepo: subRepo,
		subUC:   subUC,
		logger:  logger,
	}
}

// ProcessDue loads the snapshot of subscriptions due at call time and
// renews or closes each one. Subscriptions becoming due during the pass
// wait for the next tick. A failure on one owner is logged and does not
// starve the rest of the batch.
func (uc *RenewalUseCase) ProcessDue(ctx context.Context) (int, error) {
	due, err := uc.subRepo.ListDueForRenewal(ctx, time.Now().UTC())
	if err != nil {
		return 0, err
	}

	if len(due) == 0 {
		return 0, nil
	}

	uc.logger.Info("processing due subscriptions", slog.Int("count", len(due)))

	processed := 0
	for _, sub := range due {
		if err := uc.processOne(ctx, sub); err != nil {
			uc.logger.Error("subscription renewal failed",
				slog.String("subscription_id", sub.ID),
				slog.String("owner_id", sub.OwnerID),
				slog.String("error", err.Error()))
			continue
		}

		processed++
	}

	return processed, nil
}

func (uc *RenewalUseCase) processOne(ctx context.Context, sub *domain.Subscription) error {
	if !sub.RenewalAllowed {
		uc.logger.Info("subscription completed, renewal disallowed",
			slog.String("subscription_id", sub.ID),
			slog.String("owner_id", sub.OwnerID))

		return uc.subUC.MarkCompleted(ctx, sub)
	}

	txn, err := uc.subUC.Renew(ctx, sub)
	if err != nil {
		return err
	}

	if txn != nil && txn.Failed() {
		uc.logger.Info("subscription terminated after failed charge",
			slog.String("subscription_id", sub.ID),
			slog.String("owner_id", sub.OwnerID),
			slog.String("reason", *txn.FailureReason))

		return nil
	}

	uc.logger.Debug("subscription renewed",
		slog.String("subscription_id", sub.ID),
		slog.Time("expires_at", sub.ExpiresAt))

	return nil
}
