package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/smartwallet/internal/domain"
	"github.com/iho/smartwallet/internal/usecase"
	"github.com/iho/smartwallet/internal/usecase/mocks"
)

func newSubscriptionUseCase(subRepo *mocks.MockSubscriptionRepository, walletRepo *mocks.MockWalletRepository, txnRepo *mocks.MockTransactionRepository) *usecase.SubscriptionUseCase {
	txManager := mocks.NewMockTransactionManager()
	idGen := mocks.NewMockIDGenerator()

	walletUC := usecase.NewWalletUseCase(txManager, walletRepo, txnRepo, subRepo, nil, idGen, nil)

	return usecase.NewSubscriptionUseCase(txManager, subRepo, walletRepo, walletUC, idGen, nil)
}

func seedSubscription(t *testing.T, repo *mocks.MockSubscriptionRepository, ownerID string, tier domain.SubscriptionTier, period domain.SubscriptionPeriod) *domain.Subscription {
	t.Helper()

	now := time.Now().UTC()
	sub := &domain.Subscription{
		ID:             "sub-" + ownerID,
		OwnerID:        ownerID,
		Tier:           tier,
		Period:         period,
		Price:          tier.Price(period),
		RenewalAllowed: true,
		CreatedAt:      now,
		ExpiresAt:      now,
	}

	if err := repo.Create(context.Background(), nil, sub); err != nil {
		t.Fatalf("seed subscription: %v", err)
	}

	return sub
}

func TestSubscriptionUseCase_CreateDefault(t *testing.T) {
	subRepo := mocks.NewMockSubscriptionRepository()
	uc := newSubscriptionUseCase(subRepo, mocks.NewMockWalletRepository(), mocks.NewMockTransactionRepository())

	sub, err := uc.CreateDefault(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sub.Tier != domain.TierDefault || sub.Period != domain.PeriodMonthly {
		t.Errorf("expected default monthly subscription, got %s %s", sub.Tier, sub.Period)
	}

	if !sub.Free() {
		t.Errorf("expected free subscription, got price %s", sub.Price)
	}

	if !sub.RenewalAllowed {
		t.Error("expected renewal allowed by default")
	}

	wantExpiry := sub.CreatedAt.Add(domain.PeriodMonthly.Duration())
	if !sub.ExpiresAt.Equal(wantExpiry) {
		t.Errorf("expected expiry %s, got %s", wantExpiry, sub.ExpiresAt)
	}
}

func TestSubscriptionUseCase_Renew_FreeTierExtendsWithoutCharge(t *testing.T) {
	subRepo := mocks.NewMockSubscriptionRepository()
	txnRepo := mocks.NewMockTransactionRepository()
	uc := newSubscriptionUseCase(subRepo, mocks.NewMockWalletRepository(), txnRepo)

	sub := seedSubscription(t, subRepo, "u1", domain.TierDefault, domain.PeriodMonthly)
	before := sub.ExpiresAt

	txn, err := uc.Renew(context.Background(), sub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if txn != nil {
		t.Errorf("expected no charge transaction for free tier, got %+v", txn)
	}

	if !sub.ExpiresAt.Equal(before.Add(30 * 24 * time.Hour)) {
		t.Errorf("expected expiry extended by one month, got %s", sub.ExpiresAt)
	}

	if len(txnRepo.All()) != 0 {
		t.Errorf("expected no ledger records, got %d", len(txnRepo.All()))
	}
}

func TestSubscriptionUseCase_Renew_ChargesPrimaryWallet(t *testing.T) {
	subRepo := mocks.NewMockSubscriptionRepository()
	walletRepo := mocks.NewMockWalletRepository()
	txnRepo := mocks.NewMockTransactionRepository()
	uc := newSubscriptionUseCase(subRepo, walletRepo, txnRepo)

	wallet := seedWallet(t, walletRepo, "w1", "u1", "100.00", domain.WalletStatusActive)
	sub := seedSubscription(t, subRepo, "u1", domain.TierPremium, domain.PeriodMonthly)
	before := sub.ExpiresAt

	txn, err := uc.Renew(context.Background(), sub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if txn == nil || txn.Failed() {
		t.Fatalf("expected successful charge, got %+v", txn)
	}

	if !wallet.Balance.Equal(decimal.RequireFromString("80.01")) {
		t.Errorf("expected balance 80.01 after 19.99 charge, got %s", wallet.Balance)
	}

	want := "Subscription renewal premium (monthly)"
	if txn.Description != want {
		t.Errorf("expected description %q, got %q", want, txn.Description)
	}

	if !sub.ExpiresAt.Equal(before.Add(30 * 24 * time.Hour)) {
		t.Errorf("expected expiry extended, got %s", sub.ExpiresAt)
	}

	if sub.Completed {
		t.Error("expected subscription to stay active")
	}
}

func TestSubscriptionUseCase_Renew_FailedChargeTerminates(t *testing.T) {
	subRepo := mocks.NewMockSubscriptionRepository()
	walletRepo := mocks.NewMockWalletRepository()
	txnRepo := mocks.NewMockTransactionRepository()
	uc := newSubscriptionUseCase(subRepo, walletRepo, txnRepo)

	wallet := seedWallet(t, walletRepo, "w1", "u1", "5.00", domain.WalletStatusActive)
	sub := seedSubscription(t, subRepo, "u1", domain.TierUltimate, domain.PeriodMonthly)
	before := sub.ExpiresAt

	txn, err := uc.Renew(context.Background(), sub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if txn == nil || !txn.Failed() || *txn.FailureReason != domain.FailureInsufficientFunds {
		t.Fatalf("expected failed charge with insufficient funds, got %+v", txn)
	}

	if !wallet.Balance.Equal(decimal.RequireFromString("5.00")) {
		t.Errorf("expected balance untouched, got %s", wallet.Balance)
	}

	if !sub.Completed {
		t.Error("expected terminated subscription to be completed")
	}

	if sub.ExpiresAt.After(before) {
		t.Error("expected no expiry extension on failed charge")
	}

	replacement := subRepo.ActiveByOwner("u1")
	if replacement == nil {
		t.Fatal("expected default replacement subscription")
	}

	if replacement.Tier != domain.TierDefault || !replacement.Free() {
		t.Errorf("expected free default replacement, got %s priced %s", replacement.Tier, replacement.Price)
	}
}

func TestSubscriptionUseCase_MarkCompleted_ReplacesWithDefault(t *testing.T) {
	subRepo := mocks.NewMockSubscriptionRepository()
	uc := newSubscriptionUseCase(subRepo, mocks.NewMockWalletRepository(), mocks.NewMockTransactionRepository())

	sub := seedSubscription(t, subRepo, "u1", domain.TierPremium, domain.PeriodYearly)

	if err := uc.MarkCompleted(context.Background(), sub); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !sub.Completed || sub.CompletedAt == nil {
		t.Error("expected subscription marked completed with timestamp")
	}

	replacement := subRepo.ActiveByOwner("u1")
	if replacement == nil {
		t.Fatal("expected default replacement subscription")
	}

	if replacement.ID == sub.ID {
		t.Error("expected a fresh record, not a revived one")
	}

	if replacement.Tier != domain.TierDefault {
		t.Errorf("expected default tier replacement, got %s", replacement.Tier)
	}
}
