package domain

import "time"

// User is the owner of wallets and subscriptions. Authentication and
// profile management live outside the core; the ledger only needs
// identity and the username used as a transfer address.
type User struct {
	ID        string
	Username  string
	Email     string
	Country   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
