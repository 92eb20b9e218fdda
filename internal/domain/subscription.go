package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubscriptionTier bounds how many wallets an owner may unlock.
type SubscriptionTier string

const (
	TierDefault  SubscriptionTier = "default"
	TierPremium  SubscriptionTier = "premium"
	TierUltimate SubscriptionTier = "ultimate"
)

// SubscriptionPeriod is the billing period of a subscription.
type SubscriptionPeriod string

const (
	PeriodMonthly SubscriptionPeriod = "monthly"
	PeriodYearly  SubscriptionPeriod = "yearly"
)

// WalletLimit returns how many wallets the tier allows.
func (t SubscriptionTier) WalletLimit() int {
	switch t {
	case TierPremium:
		return 2
	case TierUltimate:
		return 3
	default:
		return 1
	}
}

// MonthlyPrice returns the monthly renewal price for the tier.
func (t SubscriptionTier) MonthlyPrice() decimal.Decimal {
	switch t {
	case TierPremium:
		return decimal.RequireFromString("19.99")
	case TierUltimate:
		return decimal.RequireFromString("49.99")
	default:
		return decimal.Zero
	}
}

// Price returns the renewal price for the tier over the given period.
// Yearly billing is priced at ten monthly payments.
func (t SubscriptionTier) Price(p SubscriptionPeriod) decimal.Decimal {
	if p == PeriodYearly {
		return t.MonthlyPrice().Mul(decimal.NewFromInt(10))
	}
	return t.MonthlyPrice()
}

// Duration returns the wall-clock length of one billing period.
func (p SubscriptionPeriod) Duration() time.Duration {
	if p == PeriodYearly {
		return 365 * 24 * time.Hour
	}
	return 30 * 24 * time.Hour
}

// Subscription ties an owner to a tier for a single billing period.
// A subscription is replaced, never edited, when renewal fails or the
// period completes without further renewal: the old record is marked
// completed and a fresh default-tier record is created.
type Subscription struct {
	ID             string
	OwnerID        string
	Tier           SubscriptionTier
	Period         SubscriptionPeriod
	Price          decimal.Decimal
	RenewalAllowed bool
	Completed      bool
	CreatedAt      time.Time
	ExpiresAt      time.Time
	CompletedAt    *time.Time
}

// Free reports whether renewing the subscription charges nothing.
func (s *Subscription) Free() bool {
	return s.Price.IsZero()
}
