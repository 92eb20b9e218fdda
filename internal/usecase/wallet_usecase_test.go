package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/smartwallet/internal/domain"
	"github.com/iho/smartwallet/internal/usecase"
	"github.com/iho/smartwallet/internal/usecase/mocks"
)

func newWalletUseCase(walletRepo *mocks.MockWalletRepository, txnRepo *mocks.MockTransactionRepository, subRepo *mocks.MockSubscriptionRepository) *usecase.WalletUseCase {
	return usecase.NewWalletUseCase(
		mocks.NewMockTransactionManager(),
		walletRepo,
		txnRepo,
		subRepo,
		nil,
		mocks.NewMockIDGenerator(),
		nil,
	)
}

func seedWallet(t *testing.T, repo *mocks.MockWalletRepository, id, ownerID, balance string, status domain.WalletStatus) *domain.Wallet {
	t.Helper()

	now := time.Now().UTC()
	w := &domain.Wallet{
		ID:        id,
		OwnerID:   ownerID,
		Balance:   decimal.RequireFromString(balance),
		Currency:  "EUR",
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := repo.Create(context.Background(), nil, w); err != nil {
		t.Fatalf("seed wallet: %v", err)
	}

	return w
}

func TestWalletUseCase_TopUp(t *testing.T) {
	tests := []struct {
		name        string
		status      domain.WalletStatus
		balance     string
		amount      string
		wantStatus  domain.TransactionStatus
		wantReason  string
		wantBalance string
		wantErr     error
	}{
		{
			name:        "active wallet credited",
			status:      domain.WalletStatusActive,
			balance:     "100.00",
			amount:      "50",
			wantStatus:  domain.TransactionStatusSucceeded,
			wantBalance: "150.00",
		},
		{
			name:        "inactive wallet records failed deposit",
			status:      domain.WalletStatusInactive,
			balance:     "100.00",
			amount:      "50",
			wantStatus:  domain.TransactionStatusFailed,
			wantReason:  domain.FailureInactiveWallet,
			wantBalance: "100.00",
		},
		{
			name:    "non-positive amount rejected",
			status:  domain.WalletStatusActive,
			balance: "100.00",
			amount:  "0",
			wantErr: domain.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			walletRepo := mocks.NewMockWalletRepository()
			txnRepo := mocks.NewMockTransactionRepository()
			wallet := seedWallet(t, walletRepo, "w1", "u1", tt.balance, tt.status)

			uc := newWalletUseCase(walletRepo, txnRepo, mocks.NewMockSubscriptionRepository())
			txn, err := uc.TopUp(context.Background(), "w1", decimal.RequireFromString(tt.amount))

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if txn.Status != tt.wantStatus {
				t.Errorf("expected status %s, got %s", tt.wantStatus, txn.Status)
			}

			if txn.Type != domain.TransactionTypeDeposit {
				t.Errorf("expected deposit, got %s", txn.Type)
			}

			if tt.wantReason != "" {
				if txn.FailureReason == nil || *txn.FailureReason != tt.wantReason {
					t.Errorf("expected failure reason %q, got %v", tt.wantReason, txn.FailureReason)
				}
			} else if txn.FailureReason != nil {
				t.Errorf("unexpected failure reason %q", *txn.FailureReason)
			}

			wantBalance := decimal.RequireFromString(tt.wantBalance)
			if !wallet.Balance.Equal(wantBalance) {
				t.Errorf("expected balance %s, got %s", wantBalance, wallet.Balance)
			}

			if !txn.BalanceLeft.Equal(wantBalance) {
				t.Errorf("expected balance_left %s, got %s", wantBalance, txn.BalanceLeft)
			}

			if len(txnRepo.All()) != 1 {
				t.Errorf("expected exactly one recorded transaction, got %d", len(txnRepo.All()))
			}
		})
	}
}

func TestWalletUseCase_TopUp_Description(t *testing.T) {
	walletRepo := mocks.NewMockWalletRepository()
	txnRepo := mocks.NewMockTransactionRepository()
	seedWallet(t, walletRepo, "w1", "u1", "0", domain.WalletStatusActive)

	uc := newWalletUseCase(walletRepo, txnRepo, mocks.NewMockSubscriptionRepository())
	txn, err := uc.TopUp(context.Background(), "w1", decimal.RequireFromString("12.5"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if txn.Description != "Top Up 12.50" {
		t.Errorf("expected description %q, got %q", "Top Up 12.50", txn.Description)
	}
}

func TestWalletUseCase_Charge(t *testing.T) {
	tests := []struct {
		name        string
		status      domain.WalletStatus
		balance     string
		amount      string
		wantStatus  domain.TransactionStatus
		wantReason  string
		wantBalance string
	}{
		{
			name:        "sufficient funds debited",
			status:      domain.WalletStatusActive,
			balance:     "100.00",
			amount:      "60",
			wantStatus:  domain.TransactionStatusSucceeded,
			wantBalance: "40.00",
		},
		{
			name:        "insufficient funds leave balance untouched",
			status:      domain.WalletStatusActive,
			balance:     "40.00",
			amount:      "50",
			wantStatus:  domain.TransactionStatusFailed,
			wantReason:  domain.FailureInsufficientFunds,
			wantBalance: "40.00",
		},
		{
			name:        "inactive wallet with sufficient funds",
			status:      domain.WalletStatusInactive,
			balance:     "100.00",
			amount:      "50",
			wantStatus:  domain.TransactionStatusFailed,
			wantReason:  domain.FailureInactiveWalletStatus,
			wantBalance: "100.00",
		},
		{
			name:        "inactive and insufficient, balance check wins",
			status:      domain.WalletStatusInactive,
			balance:     "40.00",
			amount:      "50",
			wantStatus:  domain.TransactionStatusFailed,
			wantReason:  domain.FailureInsufficientFunds,
			wantBalance: "40.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			walletRepo := mocks.NewMockWalletRepository()
			txnRepo := mocks.NewMockTransactionRepository()
			wallet := seedWallet(t, walletRepo, "w1", "u1", tt.balance, tt.status)

			uc := newWalletUseCase(walletRepo, txnRepo, mocks.NewMockSubscriptionRepository())
			txn, err := uc.Charge(context.Background(), "u1", "w1", decimal.RequireFromString(tt.amount), "Premium feature")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if txn.Status != tt.wantStatus {
				t.Errorf("expected status %s, got %s", tt.wantStatus, txn.Status)
			}

			if txn.Type != domain.TransactionTypeWithdrawal {
				t.Errorf("expected withdrawal, got %s", txn.Type)
			}

			if tt.wantReason != "" {
				if txn.FailureReason == nil || *txn.FailureReason != tt.wantReason {
					t.Errorf("expected failure reason %q, got %v", tt.wantReason, txn.FailureReason)
				}
			}

			wantBalance := decimal.RequireFromString(tt.wantBalance)
			if !wallet.Balance.Equal(wantBalance) {
				t.Errorf("expected balance %s, got %s", wantBalance, wallet.Balance)
			}
		})
	}
}

func TestWalletUseCase_Charge_SequenceIsExact(t *testing.T) {
	walletRepo := mocks.NewMockWalletRepository()
	txnRepo := mocks.NewMockTransactionRepository()
	wallet := seedWallet(t, walletRepo, "w1", "u1", "100.00", domain.WalletStatusActive)

	uc := newWalletUseCase(walletRepo, txnRepo, mocks.NewMockSubscriptionRepository())

	first, err := uc.Charge(context.Background(), "u1", "w1", decimal.RequireFromString("60"), "first")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Failed() {
		t.Fatalf("expected first charge to succeed, got %v", first.FailureReason)
	}

	second, err := uc.Charge(context.Background(), "u1", "w1", decimal.RequireFromString("50"), "second")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.Failed() || *second.FailureReason != domain.FailureInsufficientFunds {
		t.Fatalf("expected insufficient funds on second charge, got %+v", second)
	}

	if !wallet.Balance.Equal(decimal.RequireFromString("40.00")) {
		t.Errorf("expected balance 40.00, got %s", wallet.Balance)
	}

	if len(txnRepo.All()) != 2 {
		t.Errorf("expected both attempts recorded, got %d", len(txnRepo.All()))
	}
}

func TestWalletUseCase_TransferFunds(t *testing.T) {
	sender := &domain.User{ID: "u1", Username: "alice"}

	t.Run("successful transfer moves funds and records both legs", func(t *testing.T) {
		walletRepo := mocks.NewMockWalletRepository()
		txnRepo := mocks.NewMockTransactionRepository()
		senderWallet := seedWallet(t, walletRepo, "w1", "u1", "30.00", domain.WalletStatusActive)
		receiverWallet := seedWallet(t, walletRepo, "w2", "u2", "10.00", domain.WalletStatusActive)
		walletRepo.SetOwnerUsername("u2", "bob")

		uc := newWalletUseCase(walletRepo, txnRepo, mocks.NewMockSubscriptionRepository())
		txn, err := uc.TransferFunds(context.Background(), sender, usecase.TransferInput{
			FromWalletID: "w1",
			ToUsername:   "bob",
			Amount:       decimal.RequireFromString("5"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if txn.Failed() {
			t.Fatalf("expected success, got failure %v", txn.FailureReason)
		}

		if txn.Type != domain.TransactionTypeWithdrawal {
			t.Errorf("expected withdrawal returned, got %s", txn.Type)
		}

		if !senderWallet.Balance.Equal(decimal.RequireFromString("25.00")) {
			t.Errorf("expected sender balance 25.00, got %s", senderWallet.Balance)
		}

		if !receiverWallet.Balance.Equal(decimal.RequireFromString("15.00")) {
			t.Errorf("expected receiver balance 15.00, got %s", receiverWallet.Balance)
		}

		txns := txnRepo.All()
		if len(txns) != 2 {
			t.Fatalf("expected withdrawal and deposit records, got %d", len(txns))
		}

		deposit := txns[1]
		if deposit.Type != domain.TransactionTypeDeposit || deposit.OwnerID != "u2" {
			t.Errorf("expected receiver deposit, got type=%s owner=%s", deposit.Type, deposit.OwnerID)
		}

		want := "Transfer from alice to bob, for 5.00"
		if txn.Description != want {
			t.Errorf("expected description %q, got %q", want, txn.Description)
		}
	})

	t.Run("unknown receiver records single failed withdrawal", func(t *testing.T) {
		walletRepo := mocks.NewMockWalletRepository()
		txnRepo := mocks.NewMockTransactionRepository()
		senderWallet := seedWallet(t, walletRepo, "w1", "u1", "30.00", domain.WalletStatusActive)

		uc := newWalletUseCase(walletRepo, txnRepo, mocks.NewMockSubscriptionRepository())
		txn, err := uc.TransferFunds(context.Background(), sender, usecase.TransferInput{
			FromWalletID: "w1",
			ToUsername:   "nobody",
			Amount:       decimal.RequireFromString("5"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !txn.Failed() || *txn.FailureReason != domain.FailureInvalidTransfer {
			t.Fatalf("expected invalid criteria transfer, got %+v", txn)
		}

		if !senderWallet.Balance.Equal(decimal.RequireFromString("30.00")) {
			t.Errorf("expected balance unchanged, got %s", senderWallet.Balance)
		}

		if len(txnRepo.All()) != 1 {
			t.Errorf("expected single record, got %d", len(txnRepo.All()))
		}
	})

	t.Run("receiver with only inactive wallets is unresolvable", func(t *testing.T) {
		walletRepo := mocks.NewMockWalletRepository()
		txnRepo := mocks.NewMockTransactionRepository()
		seedWallet(t, walletRepo, "w1", "u1", "30.00", domain.WalletStatusActive)
		seedWallet(t, walletRepo, "w2", "u2", "10.00", domain.WalletStatusInactive)
		walletRepo.SetOwnerUsername("u2", "bob")

		uc := newWalletUseCase(walletRepo, txnRepo, mocks.NewMockSubscriptionRepository())
		txn, err := uc.TransferFunds(context.Background(), sender, usecase.TransferInput{
			FromWalletID: "w1",
			ToUsername:   "bob",
			Amount:       decimal.RequireFromString("5"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !txn.Failed() || *txn.FailureReason != domain.FailureInvalidTransfer {
			t.Fatalf("expected invalid criteria transfer, got %+v", txn)
		}
	})

	t.Run("insufficient sender funds commit only the failed withdrawal", func(t *testing.T) {
		walletRepo := mocks.NewMockWalletRepository()
		txnRepo := mocks.NewMockTransactionRepository()
		seedWallet(t, walletRepo, "w1", "u1", "3.00", domain.WalletStatusActive)
		receiverWallet := seedWallet(t, walletRepo, "w2", "u2", "10.00", domain.WalletStatusActive)
		walletRepo.SetOwnerUsername("u2", "bob")

		uc := newWalletUseCase(walletRepo, txnRepo, mocks.NewMockSubscriptionRepository())
		txn, err := uc.TransferFunds(context.Background(), sender, usecase.TransferInput{
			FromWalletID: "w1",
			ToUsername:   "bob",
			Amount:       decimal.RequireFromString("5"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !txn.Failed() || *txn.FailureReason != domain.FailureInsufficientFunds {
			t.Fatalf("expected insufficient funds, got %+v", txn)
		}

		if !receiverWallet.Balance.Equal(decimal.RequireFromString("10.00")) {
			t.Errorf("expected receiver untouched, got %s", receiverWallet.Balance)
		}

		if len(txnRepo.All()) != 1 {
			t.Errorf("expected single record, got %d", len(txnRepo.All()))
		}
	})

	t.Run("sender must own the source wallet", func(t *testing.T) {
		walletRepo := mocks.NewMockWalletRepository()
		seedWallet(t, walletRepo, "w2", "u2", "10.00", domain.WalletStatusActive)

		uc := newWalletUseCase(walletRepo, mocks.NewMockTransactionRepository(), mocks.NewMockSubscriptionRepository())
		_, err := uc.TransferFunds(context.Background(), sender, usecase.TransferInput{
			FromWalletID: "w2",
			ToUsername:   "bob",
			Amount:       decimal.RequireFromString("5"),
		})

		if !errors.Is(err, domain.ErrWalletNotFound) {
			t.Fatalf("expected ErrWalletNotFound, got %v", err)
		}
	})
}

func TestWalletUseCase_TransferFunds_NotifierFailureDoesNotFailTransfer(t *testing.T) {
	ctrl := gomock.NewController(t)

	notifier := mocks.NewMockNotificationGateway(ctrl)
	notifier.EXPECT().
		Send(gomock.Any(), "u1", "Funds Transfer", gomock.Any()).
		Return(errors.New("gateway down"))

	walletRepo := mocks.NewMockWalletRepository()
	txnRepo := mocks.NewMockTransactionRepository()
	senderWallet := seedWallet(t, walletRepo, "w1", "u1", "30.00", domain.WalletStatusActive)
	seedWallet(t, walletRepo, "w2", "u2", "10.00", domain.WalletStatusActive)
	walletRepo.SetOwnerUsername("u2", "bob")

	uc := usecase.NewWalletUseCase(
		mocks.NewMockTransactionManager(),
		walletRepo,
		txnRepo,
		mocks.NewMockSubscriptionRepository(),
		notifier,
		mocks.NewMockIDGenerator(),
		nil,
	)

	txn, err := uc.TransferFunds(context.Background(), &domain.User{ID: "u1", Username: "alice"}, usecase.TransferInput{
		FromWalletID: "w1",
		ToUsername:   "bob",
		Amount:       decimal.RequireFromString("5"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if txn.Failed() {
		t.Fatalf("expected committed transfer despite notifier failure, got %+v", txn)
	}

	if !senderWallet.Balance.Equal(decimal.RequireFromString("25.00")) {
		t.Errorf("expected sender balance 25.00, got %s", senderWallet.Balance)
	}
}

func TestWalletUseCase_UnlockNewWallet(t *testing.T) {
	tests := []struct {
		name        string
		tier        domain.SubscriptionTier
		existing    int
		expectError bool
	}{
		{
			name:     "premium under limit",
			tier:     domain.TierPremium,
			existing: 1,
		},
		{
			name:        "default at limit",
			tier:        domain.TierDefault,
			existing:    1,
			expectError: true,
		},
		{
			name:        "ultimate at limit",
			tier:        domain.TierUltimate,
			existing:    3,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			walletRepo := mocks.NewMockWalletRepository()
			subRepo := mocks.NewMockSubscriptionRepository()

			for i := 0; i < tt.existing; i++ {
				seedWallet(t, walletRepo, "w"+string(rune('1'+i)), "u1", "0", domain.WalletStatusActive)
			}

			if err := subRepo.Create(context.Background(), nil, &domain.Subscription{
				ID:      "s1",
				OwnerID: "u1",
				Tier:    tt.tier,
			}); err != nil {
				t.Fatalf("seed subscription: %v", err)
			}

			uc := newWalletUseCase(walletRepo, mocks.NewMockTransactionRepository(), subRepo)
			wallet, err := uc.UnlockNewWallet(context.Background(), "u1")

			if tt.expectError {
				if !errors.Is(err, domain.ErrWalletLimitReached) {
					t.Fatalf("expected ErrWalletLimitReached, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !wallet.Balance.IsZero() {
				t.Errorf("expected empty wallet, got balance %s", wallet.Balance)
			}

			if wallet.Status != domain.WalletStatusActive {
				t.Errorf("expected active wallet, got %s", wallet.Status)
			}
		})
	}
}

func TestWalletUseCase_InitializeFirstWallet(t *testing.T) {
	walletRepo := mocks.NewMockWalletRepository()
	uc := newWalletUseCase(walletRepo, mocks.NewMockTransactionRepository(), mocks.NewMockSubscriptionRepository())

	wallet, err := uc.InitializeFirstWallet(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !wallet.Balance.Equal(decimal.RequireFromString(usecase.WelcomeBalance)) {
		t.Errorf("expected welcome balance %s, got %s", usecase.WelcomeBalance, wallet.Balance)
	}

	if wallet.Currency != usecase.DefaultCurrency {
		t.Errorf("expected currency %s, got %s", usecase.DefaultCurrency, wallet.Currency)
	}

	if _, err := uc.InitializeFirstWallet(context.Background(), "u1"); !errors.Is(err, domain.ErrWalletAlreadyInitialized) {
		t.Fatalf("expected ErrWalletAlreadyInitialized, got %v", err)
	}
}

func TestWalletUseCase_SwitchWalletStatus(t *testing.T) {
	walletRepo := mocks.NewMockWalletRepository()
	seedWallet(t, walletRepo, "w1", "u1", "0", domain.WalletStatusActive)

	uc := newWalletUseCase(walletRepo, mocks.NewMockTransactionRepository(), mocks.NewMockSubscriptionRepository())

	wallet, err := uc.SwitchWalletStatus(context.Background(), "w1", "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wallet.Status != domain.WalletStatusInactive {
		t.Errorf("expected inactive, got %s", wallet.Status)
	}

	wallet, err = uc.SwitchWalletStatus(context.Background(), "w1", "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wallet.Status != domain.WalletStatusActive {
		t.Errorf("expected active, got %s", wallet.Status)
	}

	if _, err := uc.SwitchWalletStatus(context.Background(), "w1", "other"); !errors.Is(err, domain.ErrWalletNotFound) {
		t.Fatalf("expected ErrWalletNotFound for foreign owner, got %v", err)
	}
}
