package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WalletStatus is the activation state of a wallet.
type WalletStatus string

const (
	WalletStatusActive   WalletStatus = "active"
	WalletStatusInactive WalletStatus = "inactive"
)

// Wallet holds a single-currency balance for its owner. Wallets are never
// deleted; they only move between active and inactive.
type Wallet struct {
	ID        string
	OwnerID   string
	Balance   decimal.Decimal
	Currency  string
	Status    WalletStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive reports whether the wallet accepts balance-affecting operations.
func (w *Wallet) IsActive() bool {
	return w.Status == WalletStatusActive
}

// Switch flips the wallet between active and inactive.
func (w *Wallet) Switch() {
	if w.Status == WalletStatusActive {
		w.Status = WalletStatusInactive
	} else {
		w.Status = WalletStatusActive
	}
}

// CanCover reports whether the balance covers amount. Exact decimal
// comparison; no float rounding is allowed here.
func (w *Wallet) CanCover(amount decimal.Decimal) bool {
	return w.Balance.GreaterThanOrEqual(amount)
}

// ApplyCredit returns the balance after crediting amount.
func (w *Wallet) ApplyCredit(amount decimal.Decimal) decimal.Decimal {
	return w.Balance.Add(amount)
}

// ApplyDebit returns the balance after debiting amount.
func (w *Wallet) ApplyDebit(amount decimal.Decimal) decimal.Decimal {
	return w.Balance.Sub(amount)
}
