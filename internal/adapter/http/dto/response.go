package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/smartwallet/internal/domain"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Country   string    `json:"country,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// UserFromDomain converts a domain user to a response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Country:   u.Country,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}

// WalletResponse represents a wallet in API responses.
type WalletResponse struct {
	ID        string          `json:"id"`
	OwnerID   string          `json:"owner_id"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// WalletFromDomain converts a domain wallet to a response.
func WalletFromDomain(w *domain.Wallet) *WalletResponse {
	return &WalletResponse{
		ID:        w.ID,
		OwnerID:   w.OwnerID,
		Balance:   w.Balance,
		Currency:  w.Currency,
		Status:    string(w.Status),
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

// WalletsFromDomain converts domain wallets to responses.
func WalletsFromDomain(wallets []*domain.Wallet) []*WalletResponse {
	result := make([]*WalletResponse, len(wallets))
	for i, w := range wallets {
		result[i] = WalletFromDomain(w)
	}
	return result
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID            string          `json:"id"`
	OwnerID       string          `json:"owner_id"`
	Sender        string          `json:"sender"`
	Receiver      string          `json:"receiver"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceLeft   decimal.Decimal `json:"balance_left"`
	Currency      string          `json:"currency"`
	Type          string          `json:"type"`
	Status        string          `json:"status"`
	Description   string          `json:"description"`
	FailureReason *string         `json:"failure_reason,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:            t.ID,
		OwnerID:       t.OwnerID,
		Sender:        t.Sender,
		Receiver:      t.Receiver,
		Amount:        t.Amount,
		BalanceLeft:   t.BalanceLeft,
		Currency:      t.Currency,
		Type:          string(t.Type),
		Status:        string(t.Status),
		Description:   t.Description,
		FailureReason: t.FailureReason,
		CreatedAt:     t.CreatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txns []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txns))
	for i, t := range txns {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// SubscriptionResponse represents a subscription in API responses.
type SubscriptionResponse struct {
	ID             string          `json:"id"`
	OwnerID        string          `json:"owner_id"`
	Tier           string          `json:"tier"`
	Period         string          `json:"period"`
	Price          decimal.Decimal `json:"price"`
	RenewalAllowed bool            `json:"renewal_allowed"`
	Completed      bool            `json:"completed"`
	CreatedAt      time.Time       `json:"created_at"`
	ExpiresAt      time.Time       `json:"expires_at"`
}

// SubscriptionFromDomain converts a domain subscription to a response.
func SubscriptionFromDomain(s *domain.Subscription) *SubscriptionResponse {
	return &SubscriptionResponse{
		ID:             s.ID,
		OwnerID:        s.OwnerID,
		Tier:           string(s.Tier),
		Period:         string(s.Period),
		Price:          s.Price,
		RenewalAllowed: s.RenewalAllowed,
		Completed:      s.Completed,
		CreatedAt:      s.CreatedAt,
		ExpiresAt:      s.ExpiresAt,
	}
}

// WalletOverview pairs a wallet with its latest transactions.
type WalletOverview struct {
	Wallet       *WalletResponse        `json:"wallet"`
	Transactions []*TransactionResponse `json:"transactions"`
}

// OverviewResponse is the dashboard view of a user's wallets.
type OverviewResponse struct {
	Wallets []*WalletOverview `json:"wallets"`
}
