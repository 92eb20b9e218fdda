package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/smartwallet/internal/domain"
	"github.com/iho/smartwallet/internal/infrastructure/metrics"
)

// WalletUseCase is the ledger engine. Every balance mutation goes through
// it and commits atomically with the transaction record describing it.
// Business rejections (inactive wallet, insufficient funds, unresolvable
// transfer receiver) are not errors: the call succeeds and returns a
// failed transaction carrying the reason.
type WalletUseCase struct {
	txManager  TransactionManager
	walletRepo WalletRepository
	txnRepo    TransactionRepository
	subRepo    SubscriptionRepository
	notifier   NotificationGateway
	idGen      IDGenerator
	metrics    *metrics.Metrics
}

// NewWalletUseCase creates a new WalletUseCase.
func NewWalletUseCase(
	txManager TransactionManager,
	walletRepo WalletRepository,
	txnRepo TransactionRepository,
	subRepo SubscriptionRepository,
	notifier NotificationGateway,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *WalletUseCase {
	return &WalletUseCase{
		txManager:  txManager,
		walletRepo: walletRepo,
		txnRepo:    txnRepo,
		subRepo:    subRepo,
		notifier:   notifier,
		idGen:      idGen,
		metrics:    metrics,
	}
}

// TopUp credits amount to the wallet. An inactive wallet does not
// short-circuit: the attempt is recorded as a failed deposit with reason
// "inactive wallet" and the balance stays untouched.
func (uc *WalletUseCase) TopUp(ctx context.Context, walletID string, amount decimal.Decimal) (*domain.Transaction, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	start := time.Now()

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(txCtx)

	wallet, err := uc.walletRepo.GetByIDForUpdate(txCtx, tx, walletID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	description := fmt.Sprintf("Top Up %.2f", amount.InexactFloat64())

	var txn *domain.Transaction
	if !wallet.IsActive() {
		txn = uc.newTransaction(wallet.OwnerID, InstitutionName, wallet.ID, amount, wallet.Balance,
			wallet.Currency, domain.TransactionTypeDeposit, domain.TransactionStatusFailed,
			description, domain.FailureInactiveWallet, now)
	} else {
		newBalance := wallet.ApplyCredit(amount)
		if err := uc.walletRepo.UpdateBalance(txCtx, tx, wallet.ID, newBalance, now); err != nil {
			return nil, err
		}

		txn = uc.newTransaction(wallet.OwnerID, InstitutionName, wallet.ID, amount, newBalance,
			wallet.Currency, domain.TransactionTypeDeposit, domain.TransactionStatusSucceeded,
			description, "", now)
	}

	if err := uc.txnRepo.Create(txCtx, tx, txn); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.observe(txn, start)

	return txn, nil
}

// Charge debits amount from the wallet. Both rejection conditions are
// always evaluated; when the wallet is inactive and the balance is short,
// the balance check runs last and "insufficient funds" is the recorded
// reason.
func (uc *WalletUseCase) Charge(ctx context.Context, userID, walletID string, amount decimal.Decimal, description string) (*domain.Transaction, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	start := time.Now()

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(txCtx)

	wallet, err := uc.walletRepo.GetByIDForUpdate(txCtx, tx, walletID)
	if err != nil {
		return nil, err
	}

	txn, err := uc.chargeLocked(txCtx, tx, userID, wallet, amount, description)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.observe(txn, start)

	return txn, nil
}

// TransferInput represents input for a funds transfer.
type TransferInput struct {
	FromWalletID string
	ToUsername   string
	Amount       decimal.Decimal
}

// TransferFunds moves funds from the sender's wallet to the receiver's
// first active wallet, addressed by username. Receiver resolution failures
// produce a single failed withdrawal with reason "invalid criteria
// transfer"; a rejected debit commits only the failed withdrawal. On
// success the withdrawal and the receiver's deposit commit atomically.
func (uc *WalletUseCase) TransferFunds(ctx context.Context, sender *domain.User, input TransferInput) (*domain.Transaction, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	start := time.Now()

	senderWallet, err := uc.walletRepo.GetByIDAndOwner(ctx, input.FromWalletID, sender.ID)
	if err != nil {
		return nil, err
	}

	description := fmt.Sprintf("Transfer from %s to %s, for %.2f",
		sender.Username, input.ToUsername, input.Amount.InexactFloat64())

	receiverWallet, err := uc.resolveReceiverWallet(ctx, input.ToUsername)
	if err != nil {
		return nil, err
	}

	if receiverWallet == nil {
		now := time.Now().UTC()
		txn := uc.newTransaction(sender.ID, senderWallet.ID, input.ToUsername, input.Amount,
			senderWallet.Balance, senderWallet.Currency, domain.TransactionTypeWithdrawal,
			domain.TransactionStatusFailed, description, domain.FailureInvalidTransfer, now)

		if err := uc.txnRepo.Create(ctx, nil, txn); err != nil {
			return nil, err
		}

		uc.observe(txn, start)
		uc.notifyTransfer(sender.ID, txn)

		return txn, nil
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(txCtx)

	// Lock both wallets in sorted ID order (DEADLOCK PREVENTION).
	ids := []string{senderWallet.ID, receiverWallet.ID}
	if ids[0] == ids[1] {
		ids = ids[:1]
	}
	sort.Strings(ids)

	wallets, err := uc.walletRepo.GetByIDsForUpdate(txCtx, tx, ids)
	if err != nil {
		return nil, err
	}

	if len(wallets) != len(ids) {
		return nil, domain.ErrWalletNotFound
	}

	var lockedSender, lockedReceiver *domain.Wallet
	for _, w := range wallets {
		if w.ID == senderWallet.ID {
			lockedSender = w
		}
		if w.ID == receiverWallet.ID {
			lockedReceiver = w
		}
	}

	withdrawal, err := uc.chargeLocked(txCtx, tx, sender.ID, lockedSender, input.Amount, description)
	if err != nil {
		return nil, err
	}

	if withdrawal.Failed() {
		if err := tx.Commit(txCtx); err != nil {
			return nil, err
		}

		uc.observe(withdrawal, start)
		uc.notifyTransfer(sender.ID, withdrawal)

		return withdrawal, nil
	}

	now := time.Now().UTC()
	receiverBalance := lockedReceiver.ApplyCredit(input.Amount)
	if err := uc.walletRepo.UpdateBalance(txCtx, tx, lockedReceiver.ID, receiverBalance, now); err != nil {
		return nil, err
	}
	lockedReceiver.Balance = receiverBalance

	deposit := uc.newTransaction(lockedReceiver.OwnerID, lockedSender.ID, lockedReceiver.ID,
		input.Amount, receiverBalance, lockedReceiver.Currency, domain.TransactionTypeDeposit,
		domain.TransactionStatusSucceeded, description, "", now)

	if err := uc.txnRepo.Create(txCtx, tx, deposit); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.observe(withdrawal, start)
	uc.observe(deposit, start)
	uc.notifyTransfer(sender.ID, withdrawal)

	return withdrawal, nil
}

// UnlockNewWallet creates an additional empty wallet for the user, subject
// to the wallet limit of the user's active subscription tier.
func (uc *WalletUseCase) UnlockNewWallet(ctx context.Context, userID string) (*domain.Wallet, error) {
	sub, err := uc.subRepo.GetActiveByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	count, err := uc.walletRepo.CountByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	if count >= sub.Tier.WalletLimit() {
		return nil, fmt.Errorf("%w: tier %s allows %d", domain.ErrWalletLimitReached, sub.Tier, sub.Tier.WalletLimit())
	}

	now := time.Now().UTC()
	wallet := &domain.Wallet{
		ID:        uc.idGen.Generate(),
		OwnerID:   userID,
		Balance:   decimal.Zero,
		Currency:  DefaultCurrency,
		Status:    domain.WalletStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.walletRepo.Create(ctx, nil, wallet); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.WalletsCreated.Inc()
	}

	return wallet, nil
}

// InitializeFirstWallet provisions the onboarding wallet, pre-funded with
// the welcome balance. It fails if the user already has a wallet.
func (uc *WalletUseCase) InitializeFirstWallet(ctx context.Context, userID string) (*domain.Wallet, error) {
	count, err := uc.walletRepo.CountByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	if count > 0 {
		return nil, domain.ErrWalletAlreadyInitialized
	}

	return uc.InitializeFirstWalletTx(ctx, nil, userID)
}

// InitializeFirstWalletTx is the unit-of-work variant used by registration,
// where the user row, subscription and wallet commit together.
func (uc *WalletUseCase) InitializeFirstWalletTx(ctx context.Context, tx Transaction, userID string) (*domain.Wallet, error) {
	now := time.Now().UTC()
	wallet := &domain.Wallet{
		ID:        uc.idGen.Generate(),
		OwnerID:   userID,
		Balance:   decimal.RequireFromString(WelcomeBalance),
		Currency:  DefaultCurrency,
		Status:    domain.WalletStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.walletRepo.Create(ctx, tx, wallet); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.WalletsCreated.Inc()
	}

	return wallet, nil
}

// SwitchWalletStatus toggles the wallet between active and inactive.
func (uc *WalletUseCase) SwitchWalletStatus(ctx context.Context, walletID, ownerID string) (*domain.Wallet, error) {
	wallet, err := uc.walletRepo.GetByIDAndOwner(ctx, walletID, ownerID)
	if err != nil {
		return nil, err
	}

	wallet.Switch()

	now := time.Now().UTC()
	if err := uc.walletRepo.UpdateStatus(ctx, wallet.ID, wallet.Status, now); err != nil {
		return nil, err
	}
	wallet.UpdatedAt = now

	if uc.metrics != nil {
		uc.metrics.WalletStatusSwitches.Inc()
	}

	return wallet, nil
}

// GetWallet retrieves a wallet owned by ownerID.
func (uc *WalletUseCase) GetWallet(ctx context.Context, walletID, ownerID string) (*domain.Wallet, error) {
	return uc.walletRepo.GetByIDAndOwner(ctx, walletID, ownerID)
}

// ListWallets lists the user's wallets, oldest first.
func (uc *WalletUseCase) ListWallets(ctx context.Context, ownerID string) ([]*domain.Wallet, error) {
	return uc.walletRepo.ListByOwner(ctx, ownerID)
}

const recentTransactionsPerWallet = 4

// RecentTransactions returns the latest transactions touching each of the
// given wallets, keyed by wallet ID. Used for dashboard-style views.
func (uc *WalletUseCase) RecentTransactions(ctx context.Context, wallets []*domain.Wallet) (map[string][]*domain.Transaction, error) {
	byWallet := make(map[string][]*domain.Transaction, len(wallets))
	for _, w := range wallets {
		txns, err := uc.txnRepo.ListByWallet(ctx, w.ID, recentTransactionsPerWallet)
		if err != nil {
			return nil, err
		}

		byWallet[w.ID] = txns
	}

	return byWallet, nil
}

// chargeLocked runs the debit primitive against a wallet already locked in
// tx. The caller owns the transaction lifecycle. On rejection the wallet
// is left untouched and a failed withdrawal is recorded in the same tx.
func (uc *WalletUseCase) chargeLocked(ctx context.Context, tx Transaction, userID string, wallet *domain.Wallet, amount decimal.Decimal, description string) (*domain.Transaction, error) {
	now := time.Now().UTC()

	var failureReason string
	if !wallet.IsActive() {
		failureReason = domain.FailureInactiveWalletStatus
	}
	if !wallet.CanCover(amount) {
		failureReason = domain.FailureInsufficientFunds
	}

	if failureReason != "" {
		txn := uc.newTransaction(userID, wallet.ID, InstitutionName, amount, wallet.Balance,
			wallet.Currency, domain.TransactionTypeWithdrawal, domain.TransactionStatusFailed,
			description, failureReason, now)

		if err := uc.txnRepo.Create(ctx, tx, txn); err != nil {
			return nil, err
		}

		return txn, nil
	}

	newBalance := wallet.ApplyDebit(amount)
	if err := uc.walletRepo.UpdateBalance(ctx, tx, wallet.ID, newBalance, now); err != nil {
		return nil, err
	}
	wallet.Balance = newBalance

	txn := uc.newTransaction(userID, wallet.ID, InstitutionName, amount, newBalance,
		wallet.Currency, domain.TransactionTypeWithdrawal, domain.TransactionStatusSucceeded,
		description, "", now)

	if err := uc.txnRepo.Create(ctx, tx, txn); err != nil {
		return nil, err
	}

	return txn, nil
}

// resolveReceiverWallet finds the receiver's first active wallet by
// username. A nil wallet with nil error means the receiver cannot accept
// the transfer.
func (uc *WalletUseCase) resolveReceiverWallet(ctx context.Context, username string) (*domain.Wallet, error) {
	wallets, err := uc.walletRepo.ListByOwnerUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	for _, w := range wallets {
		if w.IsActive() {
			return w, nil
		}
	}

	return nil, nil
}

func (uc *WalletUseCase) newTransaction(
	ownerID, sender, receiver string,
	amount, balanceLeft decimal.Decimal,
	currency string,
	txType domain.TransactionType,
	status domain.TransactionStatus,
	description, failureReason string,
	now time.Time,
) *domain.Transaction {
	txn := &domain.Transaction{
		ID:          uc.idGen.Generate(),
		OwnerID:     ownerID,
		Sender:      sender,
		Receiver:    receiver,
		Amount:      amount,
		BalanceLeft: balanceLeft,
		Currency:    currency,
		Type:        txType,
		Status:      status,
		Description: description,
		CreatedAt:   now,
	}

	if failureReason != "" {
		txn.FailureReason = &failureReason
	}

	return txn
}

func (uc *WalletUseCase) observe(txn *domain.Transaction, start time.Time) {
	if uc.metrics == nil {
		return
	}

	uc.metrics.TransactionsRecorded.WithLabelValues(string(txn.Type), string(txn.Status)).Inc()
	uc.metrics.OperationDuration.Observe(time.Since(start).Seconds())
	uc.metrics.OperationAmount.Observe(txn.Amount.InexactFloat64())

	if txn.FailureReason != nil {
		uc.metrics.TransactionsFailed.WithLabelValues(*txn.FailureReason).Inc()
	}
}

// notifyTransfer tells the sender how the transfer went. Best effort: a
// gateway failure never affects the committed ledger state.
func (uc *WalletUseCase) notifyTransfer(userID string, txn *domain.Transaction) {
	if uc.notifier == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), NotifyTimeout)
	defer cancel()

	body := fmt.Sprintf("%s: %s", txn.Description, txn.Status)
	if txn.FailureReason != nil {
		body = fmt.Sprintf("%s (%s)", body, *txn.FailureReason)
	}

	if err := uc.notifier.Send(ctx, userID, "Funds Transfer", body); err != nil {
		if uc.metrics != nil {
			uc.metrics.NotificationsFailed.Inc()
		}
		return
	}

	if uc.metrics != nil {
		uc.metrics.NotificationsSent.Inc()
	}
}
