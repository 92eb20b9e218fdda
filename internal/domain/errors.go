package domain

import "errors"

var (
	// Wallet errors
	ErrWalletNotFound           = errors.New("wallet not found")
	ErrWalletLimitReached       = errors.New("max wallet count reached for subscription tier")
	ErrWalletAlreadyInitialized = errors.New("user already has a wallet")

	// Transaction errors
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrTransactionNotFound = errors.New("transaction not found")

	// Subscription errors
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user with this username already exists")
	ErrInvalidUserDetails = errors.New("username and email are required")
)
