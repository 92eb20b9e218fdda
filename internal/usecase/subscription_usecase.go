package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/iho/smartwallet/internal/domain"
	"github.com/iho/smartwallet/internal/infrastructure/metrics"
)

// SubscriptionUseCase handles subscription lifecycle. Old records are never
// edited back to life: a subscription that terminates or completes is
// marked completed and replaced by a fresh default-tier record in the same
// database transaction, so the owner always holds exactly one active
// subscription.
type SubscriptionUseCase struct {
	txManager  TransactionManager
	subRepo    SubscriptionRepository
	walletRepo WalletRepository
	walletUC   *WalletUseCase
	idGen      IDGenerator
	metrics    *metrics.Metrics
}

// NewSubscriptionUseCase creates a new SubscriptionUseCase.
func NewSubscriptionUseCase(
	txManager TransactionManager,
	subRepo SubscriptionRepository,
	walletRepo WalletRepository,
	walletUC *WalletUseCase,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *SubscriptionUseCase {
	return &SubscriptionUseCase{
		txManager:  txManager,
		subRepo:    subRepo,
		walletRepo: walletRepo,
		walletUC:   walletUC,
		idGen:      idGen,
		metrics:    metrics,
	}
}

// CreateDefault creates the free default-tier monthly subscription for an
// owner who has none.
func (uc *SubscriptionUseCase) CreateDefault(ctx context.Context, ownerID string) (*domain.Subscription, error) {
	return uc.CreateDefaultTx(ctx, nil, ownerID)
}

// CreateDefaultTx is the unit-of-work variant used by registration and by
// subscription replacement.
func (uc *SubscriptionUseCase) CreateDefaultTx(ctx context.Context, tx Transaction, ownerID string) (*domain.Subscription, error) {
	sub := uc.newDefault(ownerID, time.Now().UTC())

	if err := uc.subRepo.Create(ctx, tx, sub); err != nil {
		return nil, err
	}

	return sub, nil
}

// GetActiveByOwner returns the owner's single non-completed subscription.
func (uc *SubscriptionUseCase) GetActiveByOwner(ctx context.Context, ownerID string) (*domain.Subscription, error) {
	return uc.subRepo.GetActiveByOwner(ctx, ownerID)
}

// Renew charges the owner's primary wallet for one billing period and
// extends the expiry on success. A failed charge terminates the
// subscription and provisions the default replacement. Free tiers extend
// without touching the ledger. Returns the charge transaction, nil for
// free tiers.
func (uc *SubscriptionUseCase) Renew(ctx context.Context, sub *domain.Subscription) (*domain.Transaction, error) {
	if sub.Free() {
		if err := uc.extend(ctx, sub); err != nil {
			return nil, err
		}

		if uc.metrics != nil {
			uc.metrics.SubscriptionsRenewed.Inc()
		}

		return nil, nil
	}

	wallet, err := uc.walletRepo.PrimaryByOwner(ctx, sub.OwnerID)
	if err != nil {
		return nil, err
	}

	description := fmt.Sprintf("Subscription renewal %s (%s)", sub.Tier, sub.Period)

	txn, err := uc.walletUC.Charge(ctx, sub.OwnerID, wallet.ID, sub.Price, description)
	if err != nil {
		return nil, err
	}

	if txn.Failed() {
		if err := uc.Terminate(ctx, sub); err != nil {
			return nil, err
		}

		return txn, nil
	}

	if err := uc.extend(ctx, sub); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.SubscriptionsRenewed.Inc()
	}

	return txn, nil
}

// Terminate ends a subscription whose renewal charge failed and replaces
// it with the default tier.
func (uc *SubscriptionUseCase) Terminate(ctx context.Context, sub *domain.Subscription) error {
	if err := uc.replaceWithDefault(ctx, sub); err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.SubscriptionsTerminated.Inc()
	}

	return nil
}

// MarkCompleted closes a subscription whose owner opted out of renewal and
// replaces it with the default tier.
func (uc *SubscriptionUseCase) MarkCompleted(ctx context.Context, sub *domain.Subscription) error {
	if err := uc.replaceWithDefault(ctx, sub); err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.SubscriptionsCompleted.Inc()
	}

	return nil
}

// replaceWithDefault marks sub completed and creates the replacement
// default subscription atomically.
func (uc *SubscriptionUseCase) replaceWithDefault(ctx context.Context, sub *domain.Subscription) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer tx.Rollback(txCtx)

	now := time.Now().UTC()
	if err := uc.subRepo.MarkCompleted(txCtx, tx, sub.ID, now); err != nil {
		return err
	}

	replacement := uc.newDefault(sub.OwnerID, now)
	if err := uc.subRepo.Create(txCtx, tx, replacement); err != nil {
		return err
	}

	if err := tx.Commit(txCtx); err != nil {
		return err
	}

	sub.Completed = true
	sub.CompletedAt = &now

	return nil
}

func (uc *SubscriptionUseCase) extend(ctx context.Context, sub *domain.Subscription) error {
	expiresAt := sub.ExpiresAt.Add(sub.Period.Duration())
	if err := uc.subRepo.ExtendExpiry(ctx, sub.ID, expiresAt); err != nil {
		return err
	}

	sub.ExpiresAt = expiresAt

	return nil
}

func (uc *SubscriptionUseCase) newDefault(ownerID string, now time.Time) *domain.Subscription {
	return &domain.Subscription{
		ID:             uc.idGen.Generate(),
		OwnerID:        ownerID,
		Tier:           domain.TierDefault,
		Period:         domain.PeriodMonthly,
		Price:          domain.TierDefault.Price(domain.PeriodMonthly),
		RenewalAllowed: true,
		CreatedAt:      now,
		ExpiresAt:      now.Add(domain.PeriodMonthly.Duration()),
	}
}
