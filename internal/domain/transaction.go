package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies the direction of a balance change.
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
)

// TransactionStatus is the outcome of a ledger operation.
type TransactionStatus string

const (
	TransactionStatusSucceeded TransactionStatus = "succeeded"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// Failure reasons recorded on failed transactions.
const (
	FailureInactiveWallet       = "inactive wallet"
	FailureInactiveWalletStatus = "inactive wallet status"
	FailureInsufficientFunds    = "insufficient funds"
	FailureInvalidTransfer      = "invalid criteria transfer"
)

// Transaction is an immutable record of one attempted ledger operation.
// BalanceLeft snapshots the acted-upon wallet's balance at operation time:
// the new balance on success, the unchanged balance on failure. Rows are
// append-only; the transaction history is the audit trail.
type Transaction struct {
	ID            string
	OwnerID       string
	Sender        string
	Receiver      string
	Amount        decimal.Decimal
	BalanceLeft   decimal.Decimal
	Currency      string
	Type          TransactionType
	Status        TransactionStatus
	Description   string
	FailureReason *string
	CreatedAt     time.Time
}

// Failed reports whether the recorded operation was rejected.
func (t *Transaction) Failed() bool {
	return t.Status == TransactionStatusFailed
}
