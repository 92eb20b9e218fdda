package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/iho/smartwallet/internal/domain"
)

// UserUseCase handles user onboarding and lookup.
type UserUseCase struct {
	txManager TransactionManager
	userRepo  UserRepository
	subUC     *SubscriptionUseCase
	walletUC  *WalletUseCase
	notifier  NotificationGateway
	idGen     IDGenerator
}

// NewUserUseCase creates a new UserUseCase.
func NewUserUseCase(
	txManager TransactionManager,
	userRepo UserRepository,
	subUC *SubscriptionUseCase,
	walletUC *WalletUseCase,
	notifier NotificationGateway,
	idGen IDGenerator,
) *UserUseCase {
	return &UserUseCase{
		txManager: txManager,
		userRepo:  userRepo,
		subUC:     subUC,
		walletUC:  walletUC,
		notifier:  notifier,
		idGen:     idGen,
	}
}

// RegisterUserInput represents input for registering a user.
type RegisterUserInput struct {
	Username string
	Email    string
	Country  string
}

// Register creates the user together with their default subscription and
// the welcome-funded first wallet in one database transaction. The
// notification contact preference is saved afterwards, best effort.
func (uc *UserUseCase) Register(ctx context.Context, input RegisterUserInput) (*domain.User, error) {
	if input.Username == "" || input.Email == "" {
		return nil, domain.ErrInvalidUserDetails
	}

	_, err := uc.userRepo.GetByUsername(ctx, input.Username)
	if err == nil {
		return nil, domain.ErrUserAlreadyExists
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(txCtx)

	now := time.Now().UTC()
	user := &domain.User{
		ID:        uc.idGen.Generate(),
		Username:  input.Username,
		Email:     input.Email,
		Country:   input.Country,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.userRepo.Create(txCtx, tx, user); err != nil {
		return nil, err
	}

	if _, err := uc.subUC.CreateDefaultTx(txCtx, tx, user.ID); err != nil {
		return nil, err
	}

	if _, err := uc.walletUC.InitializeFirstWalletTx(txCtx, tx, user.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.notifier != nil {
		prefCtx, prefCancel := context.WithTimeout(ctx, NotifyTimeout)
		defer prefCancel()

		// The gateway logs its own failures; onboarding never rolls back
		// over a missing contact preference.
		_ = uc.notifier.UpsertPreference(prefCtx, user.ID, true, user.Email)
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (uc *UserUseCase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}

// GetUserByUsername retrieves a user by username.
func (uc *UserUseCase) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return uc.userRepo.GetByUsername(ctx, username)
}
