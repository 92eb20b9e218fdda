package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/smartwallet/internal/domain"
)

// WalletRepository defines data access for wallets.
type WalletRepository interface {
	Create(ctx context.Context, tx Transaction, wallet *domain.Wallet) error
	GetByID(ctx context.Context, id string) (*domain.Wallet, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Wallet, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Wallet, error)
	GetByIDAndOwner(ctx context.Context, id, ownerID string) (*domain.Wallet, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Wallet, error)
	ListByOwnerUsername(ctx context.Context, username string) ([]*domain.Wallet, error)
	// PrimaryByOwner returns the owner's oldest wallet, the one used to
	// fund subscription renewals.
	PrimaryByOwner(ctx context.Context, ownerID string) (*domain.Wallet, error)
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	UpdateStatus(ctx context.Context, id string, status domain.WalletStatus, updatedAt time.Time) error
}

// TransactionRepository defines data access for transaction records.
// Records are append-only; there is no update or delete.
type TransactionRepository interface {
	// Create inserts a transaction record. A nil tx inserts outside any
	// unit of work.
	Create(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	// ListByOwner returns the owner's transactions, newest first.
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Transaction, error)
	// ListByWallet returns the latest transactions touching a wallet,
	// newest first.
	ListByWallet(ctx context.Context, walletID string, limit int) ([]*domain.Transaction, error)
}

// SubscriptionRepository defines data access for subscriptions.
type SubscriptionRepository interface {
	Create(ctx context.Context, tx Transaction, sub *domain.Subscription) error
	// GetActiveByOwner returns the owner's single non-completed subscription.
	GetActiveByOwner(ctx context.Context, ownerID string) (*domain.Subscription, error)
	// ListDueForRenewal returns the closed snapshot of subscriptions whose
	// billing period boundary has been reached.
	ListDueForRenewal(ctx context.Context, now time.Time) ([]*domain.Subscription, error)
	MarkCompleted(ctx context.Context, tx Transaction, id string, completedAt time.Time) error
	ExtendExpiry(ctx context.Context, id string, expiresAt time.Time) error
}

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, tx Transaction, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// NotificationGateway is the narrow contract to the notification service.
// Send is best-effort: callers log and swallow its errors, a notification
// failure never affects ledger correctness.
type NotificationGateway interface {
	Send(ctx context.Context, userID, subject, body string) error
	UpsertPreference(ctx context.Context, userID string, enabled bool, email string) error
	GetPreference(ctx context.Context, userID string) (*domain.NotificationPreference, error)
}

// Transaction represents a database transaction (unit of work).
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier retries an operation on transient storage errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// RenewalLock serializes renewal ticks across processes.
type RenewalLock interface {
	// Acquire takes the lease; it returns false when another holder is active.
	Acquire(ctx context.Context, ttl time.Duration) (bool, error)
	Release(ctx context.Context) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
