package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/iho/smartwallet/internal/domain"
	"github.com/iho/smartwallet/internal/usecase"
)

const walletColumns = `id, owner_id, balance, currency, status, created_at, updated_at`

// WalletRepository implements usecase.WalletRepository.
type WalletRepository struct {
	pool Pool
}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository(pool Pool) *WalletRepository {
	return &WalletRepository{pool: pool}
}

// Create inserts a new wallet.
func (r *WalletRepository) Create(ctx context.Context, tx usecase.Transaction, wallet *domain.Wallet) error {
	query := `INSERT INTO wallets (` + walletColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querierFor(r.pool, tx).Exec(ctx, query,
		wallet.ID, wallet.OwnerID, decimalToNumeric(wallet.Balance), wallet.Currency,
		string(wallet.Status), timeToPgTimestamptz(wallet.CreatedAt), timeToPgTimestamptz(wallet.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert wallet: %w", err)
	}

	return nil
}

// GetByID retrieves a wallet by ID without locking.
func (r *WalletRepository) GetByID(ctx context.Context, id string) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1`

	return scanWalletRow(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate retrieves a wallet by ID with a FOR UPDATE lock.
func (r *WalletRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1 FOR UPDATE`

	return scanWalletRow(querierFor(r.pool, tx).QueryRow(ctx, query, id))
}

// GetByIDsForUpdate retrieves multiple wallets with FOR UPDATE locks,
// acquired in ascending ID order.
func (r *WalletRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = ANY($1) ORDER BY id FOR UPDATE`

	rows, err := querierFor(r.pool, tx).Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("lock wallets: %w", err)
	}
	defer rows.Close()

	return scanWalletRows(rows)
}

// GetByIDAndOwner retrieves a wallet owned by ownerID.
func (r *WalletRepository) GetByIDAndOwner(ctx context.Context, id, ownerID string) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1 AND owner_id = $2`

	return scanWalletRow(r.pool.QueryRow(ctx, query, id, ownerID))
}

// ListByOwner lists the owner's wallets, oldest first.
func (r *WalletRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE owner_id = $1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list wallets by owner: %w", err)
	}
	defer rows.Close()

	return scanWalletRows(rows)
}

// ListByOwnerUsername lists the wallets of the user holding username,
// oldest first. Used to resolve transfer receivers.
func (r *WalletRepository) ListByOwnerUsername(ctx context.Context, username string) ([]*domain.Wallet, error) {
	query := `SELECT w.id, w.owner_id, w.balance, w.currency, w.status, w.created_at, w.updated_at
		FROM wallets w
		JOIN users u ON u.id = w.owner_id
		WHERE u.username = $1
		ORDER BY w.created_at`

	rows, err := r.pool.Query(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("list wallets by username: %w", err)
	}
	defer rows.Close()

	return scanWalletRows(rows)
}

// PrimaryByOwner returns the owner's oldest wallet, the one used to fund
// subscription renewals.
func (r *WalletRepository) PrimaryByOwner(ctx context.Context, ownerID string) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE owner_id = $1 ORDER BY created_at LIMIT 1`

	return scanWalletRow(r.pool.QueryRow(ctx, query, ownerID))
}

// CountByOwner counts the owner's wallets.
func (r *WalletRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	query := `SELECT COUNT(*) FROM wallets WHERE owner_id = $1`

	var count int
	if err := r.pool.QueryRow(ctx, query, ownerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count wallets: %w", err)
	}

	return count, nil
}

// UpdateBalance updates a wallet's balance.
func (r *WalletRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	query := `UPDATE wallets SET balance = $1, updated_at = $2 WHERE id = $3`

	tag, err := querierFor(r.pool, tx).Exec(ctx, query, decimalToNumeric(balance), timeToPgTimestamptz(updatedAt), id)
	if err != nil {
		return fmt.Errorf("update wallet balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrWalletNotFound
	}

	return nil
}

// UpdateStatus updates a wallet's activation status.
func (r *WalletRepository) UpdateStatus(ctx context.Context, id string, status domain.WalletStatus, updatedAt time.Time) error {
	query := `UPDATE wallets SET status = $1, updated_at = $2 WHERE id = $3`

	tag, err := r.pool.Exec(ctx, query, string(status), timeToPgTimestamptz(updatedAt), id)
	if err != nil {
		return fmt.Errorf("update wallet status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrWalletNotFound
	}

	return nil
}

func scanWalletRow(row pgx.Row) (*domain.Wallet, error) {
	wallet, err := scanWallet(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWalletNotFound
		}

		return nil, fmt.Errorf("get wallet: %w", err)
	}

	return wallet, nil
}

func scanWalletRows(rows pgx.Rows) ([]*domain.Wallet, error) {
	var wallets []*domain.Wallet
	for rows.Next() {
		wallet, err := scanWallet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan wallet: %w", err)
		}

		wallets = append(wallets, wallet)
	}

	return wallets, rows.Err()
}

func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	var (
		wallet               domain.Wallet
		balance              pgtype.Numeric
		status               string
		createdAt, updatedAt pgtype.Timestamptz
	)

	err := row.Scan(&wallet.ID, &wallet.OwnerID, &balance, &wallet.Currency, &status, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	wallet.Balance = numericToDecimal(balance)
	wallet.Status = domain.WalletStatus(status)
	wallet.CreatedAt = createdAt.Time
	wallet.UpdatedAt = updatedAt.Time

	return &wallet, nil
}
