package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/smartwallet/internal/domain"
	"github.com/iho/smartwallet/internal/usecase"
)

const subscriptionColumns = `id, owner_id, tier, period, price, renewal_allowed, completed,
		created_at, expires_at, completed_at`

// SubscriptionRepository implements usecase.SubscriptionRepository.
type SubscriptionRepository struct {
	pool Pool
}

// NewSubscriptionRepository creates a new SubscriptionRepository.
func NewSubscriptionRepository(pool Pool) *SubscriptionRepository {
	return &SubscriptionRepository{pool: pool}
}

// Create inserts a new subscription.
func (r *SubscriptionRepository) Create(ctx context.Context, tx usecase.Transaction, sub *domain.Subscription) error {
	query := `INSERT INTO subscriptions (` + subscriptionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	var completedAt pgtype.Timestamptz
	if sub.CompletedAt != nil {
		completedAt = timeToPgTimestamptz(*sub.CompletedAt)
	}

	_, err := querierFor(r.pool, tx).Exec(ctx, query,
		sub.ID, sub.OwnerID, string(sub.Tier), string(sub.Period),
		decimalToNumeric(sub.Price), sub.RenewalAllowed, sub.Completed,
		timeToPgTimestamptz(sub.CreatedAt), timeToPgTimestamptz(sub.ExpiresAt), completedAt,
	)
	if err != nil {
		return fmt.Errorf("insert subscription: %w", err)
	}

	return nil
}

// GetActiveByOwner returns the owner's single non-completed subscription.
func (r *SubscriptionRepository) GetActiveByOwner(ctx context.Context, ownerID string) (*domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions
		WHERE owner_id = $1 AND completed = FALSE`

	sub, err := scanSubscription(r.pool.QueryRow(ctx, query, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSubscriptionNotFound
		}

		return nil, fmt.Errorf("get active subscription: %w", err)
	}

	return sub, nil
}

// ListDueForRenewal returns the snapshot of non-completed subscriptions
// whose expiry has been reached.
func (r *SubscriptionRepository) ListDueForRenewal(ctx context.Context, now time.Time) ([]*domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions
		WHERE completed = FALSE AND expires_at <= $1
		ORDER BY expires_at`

	rows, err := r.pool.Query(ctx, query, timeToPgTimestamptz(now))
	if err != nil {
		return nil, fmt.Errorf("list due subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []*domain.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}

		subs = append(subs, sub)
	}

	return subs, rows.Err()
}

// MarkCompleted closes a subscription. Completed records never come back.
func (r *SubscriptionRepository) MarkCompleted(ctx context.Context, tx usecase.Transaction, id string, completedAt time.Time) error {
	query := `UPDATE subscriptions SET completed = TRUE, completed_at = $1 WHERE id = $2 AND completed = FALSE`

	tag, err := querierFor(r.pool, tx).Exec(ctx, query, timeToPgTimestamptz(completedAt), id)
	if err != nil {
		return fmt.Errorf("mark subscription completed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSubscriptionNotFound
	}

	return nil
}

// ExtendExpiry moves the expiry after a successful renewal.
func (r *SubscriptionRepository) ExtendExpiry(ctx context.Context, id string, expiresAt time.Time) error {
	query := `UPDATE subscriptions SET expires_at = $1 WHERE id = $2 AND completed = FALSE`

	tag, err := r.pool.Exec(ctx, query, timeToPgTimestamptz(expiresAt), id)
	if err != nil {
		return fmt.Errorf("extend subscription expiry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSubscriptionNotFound
	}

	return nil
}

func scanSubscription(row pgx.Row) (*domain.Subscription, error) {
	var (
		sub                  domain.Subscription
		tier, period         string
		price                pgtype.Numeric
		createdAt, expiresAt pgtype.Timestamptz
		completedAt          pgtype.Timestamptz
	)

	err := row.Scan(&sub.ID, &sub.OwnerID, &tier, &period, &price,
		&sub.RenewalAllowed, &sub.Completed, &createdAt, &expiresAt, &completedAt)
	if err != nil {
		return nil, err
	}

	sub.Tier = domain.SubscriptionTier(tier)
	sub.Period = domain.SubscriptionPeriod(period)
	sub.Price = numericToDecimal(price)
	sub.CreatedAt = createdAt.Time
	sub.ExpiresAt = expiresAt.Time
	if completedAt.Valid {
		t := completedAt.Time
		sub.CompletedAt = &t
	}

	return &sub, nil
}
