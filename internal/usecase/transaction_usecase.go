package usecase

import (
	"context"

	"github.com/iho/smartwallet/internal/domain"
)

// TransactionUseCase exposes read access to the transaction history.
type TransactionUseCase struct {
	txnRepo TransactionRepository
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(txnRepo TransactionRepository) *TransactionUseCase {
	return &TransactionUseCase{txnRepo: txnRepo}
}

// ListByOwner lists the owner's transactions, newest first.
func (uc *TransactionUseCase) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Transaction, error) {
	limit, offset = domain.ValidatePagination(limit, offset)

	return uc.txnRepo.ListByOwner(ctx, ownerID, limit, offset)
}
