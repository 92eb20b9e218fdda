package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/smartwallet/internal/usecase"
)

// RegisterUserRequest represents a request to register a user.
type RegisterUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Country  string `json:"country"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterUserRequest) ToUseCaseInput() usecase.RegisterUserInput {
	return usecase.RegisterUserInput{
		Username: r.Username,
		Email:    r.Email,
		Country:  r.Country,
	}
}

// TopUpRequest represents a request to top up a wallet.
type TopUpRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// ChargeRequest represents a request to charge a wallet.
type ChargeRequest struct {
	UserID      string          `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// TransferRequest represents a request to transfer funds.
type TransferRequest struct {
	UserID       string          `json:"user_id"`
	FromWalletID string          `json:"from_wallet_id"`
	ToUsername   string          `json:"to_username"`
	Amount       decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *TransferRequest) ToUseCaseInput() usecase.TransferInput {
	return usecase.TransferInput{
		FromWalletID: r.FromWalletID,
		ToUsername:   r.ToUsername,
		Amount:       r.Amount,
	}
}
