package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/smartwallet/internal/adapter/http/dto"
	"github.com/iho/smartwallet/internal/domain"
	"github.com/iho/smartwallet/internal/usecase"
	"github.com/iho/smartwallet/internal/usecase/mocks"
)

func TestTransferHandler_Create(t *testing.T) {
	walletRepo := mocks.NewMockWalletRepository()
	userRepo := mocks.NewMockUserRepository()
	txnRepo := mocks.NewMockTransactionRepository()
	subRepo := mocks.NewMockSubscriptionRepository()
	txManager := mocks.NewMockTransactionManager()
	idGen := mocks.NewMockIDGenerator()

	walletUC := usecase.NewWalletUseCase(txManager, walletRepo, txnRepo, subRepo, nil, idGen, nil)
	subUC := usecase.NewSubscriptionUseCase(txManager, subRepo, walletRepo, walletUC, idGen, nil)
	userUC := usecase.NewUserUseCase(txManager, userRepo, subUC, walletUC, nil, idGen)

	now := time.Now().UTC()
	_ = userRepo.Create(context.Background(), nil, &domain.User{ID: "u1", Username: "alice", Active: true, CreatedAt: now})
	_ = walletRepo.Create(context.Background(), nil, &domain.Wallet{
		ID: "w1", OwnerID: "u1", Balance: decimal.RequireFromString("30.00"),
		Currency: "EUR", Status: domain.WalletStatusActive, CreatedAt: now,
	})
	_ = walletRepo.Create(context.Background(), nil, &domain.Wallet{
		ID: "w2", OwnerID: "u2", Balance: decimal.RequireFromString("10.00"),
		Currency: "EUR", Status: domain.WalletStatusActive, CreatedAt: now,
	})
	walletRepo.SetOwnerUsername("u2", "bob")

	router := chi.NewRouter()
	router.Post("/transfers", NewTransferHandler(walletUC, userUC).Create)

	body, _ := json.Marshal(dto.TransferRequest{
		UserID:       "u1",
		FromWalletID: "w1",
		ToUsername:   "bob",
		Amount:       decimal.RequireFromString("5"),
	})
	req := httptest.NewRequest(http.MethodPost, "/transfers", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.Type != string(domain.TransactionTypeWithdrawal) {
		t.Errorf("expected withdrawal in response, got %s", resp.Type)
	}

	if !resp.BalanceLeft.Equal(decimal.RequireFromString("25.00")) {
		t.Errorf("expected balance_left 25.00, got %s", resp.BalanceLeft)
	}

	if resp.Description != "Transfer from alice to bob, for 5.00" {
		t.Errorf("unexpected description %q", resp.Description)
	}
}

func TestTransferHandler_Create_UnknownSender(t *testing.T) {
	walletRepo := mocks.NewMockWalletRepository()
	userRepo := mocks.NewMockUserRepository()
	txManager := mocks.NewMockTransactionManager()
	idGen := mocks.NewMockIDGenerator()

	walletUC := usecase.NewWalletUseCase(txManager, walletRepo, mocks.NewMockTransactionRepository(),
		mocks.NewMockSubscriptionRepository(), nil, idGen, nil)
	subUC := usecase.NewSubscriptionUseCase(txManager, mocks.NewMockSubscriptionRepository(), walletRepo, walletUC, idGen, nil)
	userUC := usecase.NewUserUseCase(txManager, userRepo, subUC, walletUC, nil, idGen)

	router := chi.NewRouter()
	router.Post("/transfers", NewTransferHandler(walletUC, userUC).Create)

	body, _ := json.Marshal(dto.TransferRequest{
		UserID:       "missing",
		FromWalletID: "w1",
		ToUsername:   "bob",
		Amount:       decimal.RequireFromString("5"),
	})
	req := httptest.NewRequest(http.MethodPost, "/transfers", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
