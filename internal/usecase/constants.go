package usecase

import "time"

const (
	// InstitutionName is the source/sink reference recorded on top-ups and
	// standalone charges.
	InstitutionName = "Smart Wallet LTD"

	// WelcomeBalance pre-funds the first wallet created at onboarding.
	WelcomeBalance = "20.00"

	// DefaultCurrency is the currency of newly created wallets.
	DefaultCurrency = "EUR"

	// DefaultTransactionTimeout bounds a database unit of work so a stuck
	// operation cannot hold row locks indefinitely.
	DefaultTransactionTimeout = 10 * time.Second

	// NotifyTimeout bounds the best-effort notification call after a
	// committed ledger operation.
	NotifyTimeout = 5 * time.Second
)
