package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/smartwallet/internal/domain"
	"github.com/iho/smartwallet/internal/usecase"
)

const transactionColumns = `id, owner_id, sender, receiver, amount, balance_left, currency,
		type, status, description, failure_reason, created_at`

// TransactionRepository implements usecase.TransactionRepository. The
// table is append-only; failed attempts are recorded the same way as
// successful ones.
type TransactionRepository struct {
	pool Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create inserts a transaction record.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	query := `INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := querierFor(r.pool, tx).Exec(ctx, query,
		txn.ID, txn.OwnerID, txn.Sender, txn.Receiver,
		decimalToNumeric(txn.Amount), decimalToNumeric(txn.BalanceLeft), txn.Currency,
		string(txn.Type), string(txn.Status), txn.Description, txn.FailureReason,
		timeToPgTimestamptz(txn.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	return nil
}

// ListByOwner lists the owner's transactions, newest first.
func (r *TransactionRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE owner_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions by owner: %w", err)
	}
	defer rows.Close()

	return scanTransactionRows(rows)
}

// ListByWallet lists the latest transactions where the wallet was the
// acted-upon side, newest first.
func (r *TransactionRepository) ListByWallet(ctx context.Context, walletID string, limit int) ([]*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE (type = 'deposit' AND receiver = $1) OR (type = 'withdrawal' AND sender = $1)
		ORDER BY created_at DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, walletID, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions by wallet: %w", err)
	}
	defer rows.Close()

	return scanTransactionRows(rows)
}

func scanTransactionRows(rows pgx.Rows) ([]*domain.Transaction, error) {
	var txns []*domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}

		txns = append(txns, txn)
	}

	return txns, rows.Err()
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		txn                 domain.Transaction
		amount, balanceLeft pgtype.Numeric
		txType, status      string
		createdAt           pgtype.Timestamptz
	)

	err := row.Scan(&txn.ID, &txn.OwnerID, &txn.Sender, &txn.Receiver,
		&amount, &balanceLeft, &txn.Currency,
		&txType, &status, &txn.Description, &txn.FailureReason, &createdAt)
	if err != nil {
		return nil, err
	}

	txn.Amount = numericToDecimal(amount)
	txn.BalanceLeft = numericToDecimal(balanceLeft)
	txn.Type = domain.TransactionType(txType)
	txn.Status = domain.TransactionStatus(status)
	txn.CreatedAt = createdAt.Time

	return &txn, nil
}
