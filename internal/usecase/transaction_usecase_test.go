package usecase_test

import (
	"context"
	"testing"

	"github.com/iho/smartwallet/internal/domain"
	"github.com/iho/smartwallet/internal/usecase"
	"github.com/iho/smartwallet/internal/usecase/mocks"
)

func TestTransactionUseCase_ListByOwner(t *testing.T) {
	txnRepo := mocks.NewMockTransactionRepository()

	var gotLimit, gotOffset int
	txnRepo.ListByOwnerFunc = func(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Transaction, error) {
		gotLimit, gotOffset = limit, offset
		return nil, nil
	}

	uc := usecase.NewTransactionUseCase(txnRepo)

	if _, err := uc.ListByOwner(context.Background(), "u1", 0, -3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotLimit != 50 || gotOffset != 0 {
		t.Errorf("expected clamped pagination (50, 0), got (%d, %d)", gotLimit, gotOffset)
	}

	if _, err := uc.ListByOwner(context.Background(), "u1", 5000, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotLimit != 1000 || gotOffset != 10 {
		t.Errorf("expected clamped pagination (1000, 10), got (%d, %d)", gotLimit, gotOffset)
	}
}
