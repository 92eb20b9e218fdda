package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/smartwallet/internal/domain"
	"github.com/iho/smartwallet/internal/usecase"
)

// MockWalletRepository is a mock implementation of WalletRepository. The
// default behaviour is an in-memory store; individual methods can be
// overridden via the Func fields.
type MockWalletRepository struct {
	mu      sync.RWMutex
	wallets map[string]*domain.Wallet
	owners  map[string]string // owner ID -> username

	CreateFunc              func(ctx context.Context, tx usecase.Transaction, wallet *domain.Wallet) error
	GetByIDFunc             func(ctx context.Context, id string) (*domain.Wallet, error)
	GetByIDForUpdateFunc    func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Wallet, error)
	GetByIDsForUpdateFunc   func(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Wallet, error)
	GetByIDAndOwnerFunc     func(ctx context.Context, id, ownerID string) (*domain.Wallet, error)
	ListByOwnerFunc         func(ctx context.Context, ownerID string) ([]*domain.Wallet, error)
	ListByOwnerUsernameFunc func(ctx context.Context, username string) ([]*domain.Wallet, error)
	PrimaryByOwnerFunc      func(ctx context.Context, ownerID string) (*domain.Wallet, error)
	CountByOwnerFunc        func(ctx context.Context, ownerID string) (int, error)
	UpdateBalanceFunc       func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	UpdateStatusFunc        func(ctx context.Context, id string, status domain.WalletStatus, updatedAt time.Time) error
}

func NewMockWalletRepository() *MockWalletRepository {
	return &MockWalletRepository{
		wallets: make(map[string]*domain.Wallet),
		owners:  make(map[string]string),
	}
}

// SetOwnerUsername registers the username the in-memory store resolves
// for ListByOwnerUsername.
func (m *MockWalletRepository) SetOwnerUsername(ownerID, username string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.owners[ownerID] = username
}

func (m *MockWalletRepository) Create(ctx context.Context, tx usecase.Transaction, wallet *domain.Wallet) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, wallet)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wallets[wallet.ID] = wallet
	return nil
}

func (m *MockWalletRepository) GetByID(ctx context.Context, id string) (*domain.Wallet, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if w, ok := m.wallets[id]; ok {
		return w, nil
	}
	return nil, domain.ErrWalletNotFound
}

func (m *MockWalletRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Wallet, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockWalletRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Wallet, error) {
	if m.GetByIDsForUpdateFunc != nil {
		return m.GetByIDsForUpdateFunc(ctx, tx, ids)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var wallets []*domain.Wallet
	for _, id := range ids {
		if w, ok := m.wallets[id]; ok {
			wallets = append(wallets, w)
		}
	}
	return wallets, nil
}

func (m *MockWalletRepository) GetByIDAndOwner(ctx context.Context, id, ownerID string) (*domain.Wallet, error) {
	if m.GetByIDAndOwnerFunc != nil {
		return m.GetByIDAndOwnerFunc(ctx, id, ownerID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if w, ok := m.wallets[id]; ok && w.OwnerID == ownerID {
		return w, nil
	}
	return nil, domain.ErrWalletNotFound
}

func (m *MockWalletRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Wallet, error) {
	if m.ListByOwnerFunc != nil {
		return m.ListByOwnerFunc(ctx, ownerID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.walletsOfLocked(ownerID), nil
}

func (m *MockWalletRepository) ListByOwnerUsername(ctx context.Context, username string) ([]*domain.Wallet, error) {
	if m.ListByOwnerUsernameFunc != nil {
		return m.ListByOwnerUsernameFunc(ctx, username)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for ownerID, name := range m.owners {
		if name == username {
			return m.walletsOfLocked(ownerID), nil
		}
	}
	return nil, nil
}

func (m *MockWalletRepository) PrimaryByOwner(ctx context.Context, ownerID string) (*domain.Wallet, error) {
	if m.PrimaryByOwnerFunc != nil {
		return m.PrimaryByOwnerFunc(ctx, ownerID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	wallets := m.walletsOfLocked(ownerID)
	if len(wallets) == 0 {
		return nil, domain.ErrWalletNotFound
	}
	return wallets[0], nil
}

func (m *MockWalletRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	if m.CountByOwnerFunc != nil {
		return m.CountByOwnerFunc(ctx, ownerID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.walletsOfLocked(ownerID)), nil
}

func (m *MockWalletRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.wallets[id]; ok {
		w.Balance = balance
		w.UpdatedAt = updatedAt
		return nil
	}
	return domain.ErrWalletNotFound
}

func (m *MockWalletRepository) UpdateStatus(ctx context.Context, id string, status domain.WalletStatus, updatedAt time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.wallets[id]; ok {
		w.Status = status
		w.UpdatedAt = updatedAt
		return nil
	}
	return domain.ErrWalletNotFound
}

// walletsOfLocked returns the owner's wallets sorted oldest first. The
// caller holds the lock.
func (m *MockWalletRepository) walletsOfLocked(ownerID string) []*domain.Wallet {
	var wallets []*domain.Wallet
	for _, w := range m.wallets {
		if w.OwnerID == ownerID {
			wallets = append(wallets, w)
		}
	}
	sort.Slice(wallets, func(i, j int) bool {
		return wallets[i].CreatedAt.Before(wallets[j].CreatedAt)
	})
	return wallets
}

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mu   sync.RWMutex
	txns []*domain.Transaction

	CreateFunc       func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error
	ListByOwnerFunc  func(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Transaction, error)
	ListByWalletFunc func(ctx context.Context, walletID string, limit int) ([]*domain.Transaction, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{}
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txns = append(m.txns, txn)
	return nil
}

func (m *MockTransactionRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Transaction, error) {
	if m.ListByOwnerFunc != nil {
		return m.ListByOwnerFunc(ctx, ownerID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var txns []*domain.Transaction
	for i := len(m.txns) - 1; i >= 0; i-- {
		if m.txns[i].OwnerID == ownerID {
			txns = append(txns, m.txns[i])
		}
	}
	if offset > len(txns) {
		offset = len(txns)
	}
	txns = txns[offset:]
	if limit < len(txns) {
		txns = txns[:limit]
	}
	return txns, nil
}

func (m *MockTransactionRepository) ListByWallet(ctx context.Context, walletID string, limit int) ([]*domain.Transaction, error) {
	if m.ListByWalletFunc != nil {
		return m.ListByWalletFunc(ctx, walletID, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var txns []*domain.Transaction
	for i := len(m.txns) - 1; i >= 0 && len(txns) < limit; i-- {
		txn := m.txns[i]
		if (txn.Type == domain.TransactionTypeDeposit && txn.Receiver == walletID) ||
			(txn.Type == domain.TransactionTypeWithdrawal && txn.Sender == walletID) {
			txns = append(txns, txn)
		}
	}
	return txns, nil
}

// All returns every recorded transaction in insertion order.
func (m *MockTransactionRepository) All() []*domain.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.Transaction(nil), m.txns...)
}

// MockSubscriptionRepository is a mock implementation of SubscriptionRepository.
type MockSubscriptionRepository struct {
	mu   sync.RWMutex
	subs map[string]*domain.Subscription

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, sub *domain.Subscription) error
	GetActiveByOwnerFunc func(ctx context.Context, ownerID string) (*domain.Subscription, error)
	ListDueForRenewalFunc func(ctx context.Context, now time.Time) ([]*domain.Subscription, error)
	MarkCompletedFunc    func(ctx context.Context, tx usecase.Transaction, id string, completedAt time.Time) error
	ExtendExpiryFunc     func(ctx context.Context, id string, expiresAt time.Time) error
}

func NewMockSubscriptionRepository() *MockSubscriptionRepository {
	return &MockSubscriptionRepository{
		subs: make(map[string]*domain.Subscription),
	}
}

func (m *MockSubscriptionRepository) Create(ctx context.Context, tx usecase.Transaction, sub *domain.Subscription) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, sub)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs[sub.ID] = sub
	return nil
}

func (m *MockSubscriptionRepository) GetActiveByOwner(ctx context.Context, ownerID string) (*domain.Subscription, error) {
	if m.GetActiveByOwnerFunc != nil {
		return m.GetActiveByOwnerFunc(ctx, ownerID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, sub := range m.subs {
		if sub.OwnerID == ownerID && !sub.Completed {
			return sub, nil
		}
	}
	return nil, domain.ErrSubscriptionNotFound
}

func (m *MockSubscriptionRepository) ListDueForRenewal(ctx context.Context, now time.Time) ([]*domain.Subscription, error) {
	if m.ListDueForRenewalFunc != nil {
		return m.ListDueForRenewalFunc(ctx, now)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var due []*domain.Subscription
	for _, sub := range m.subs {
		if !sub.Completed && !sub.ExpiresAt.After(now) {
			due = append(due, sub)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		return due[i].ExpiresAt.Before(due[j].ExpiresAt)
	})
	return due, nil
}

func (m *MockSubscriptionRepository) MarkCompleted(ctx context.Context, tx usecase.Transaction, id string, completedAt time.Time) error {
	if m.MarkCompletedFunc != nil {
		return m.MarkCompletedFunc(ctx, tx, id, completedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if sub, ok := m.subs[id]; ok && !sub.Completed {
		sub.Completed = true
		sub.CompletedAt = &completedAt
		return nil
	}
	return domain.ErrSubscriptionNotFound
}

func (m *MockSubscriptionRepository) ExtendExpiry(ctx context.Context, id string, expiresAt time.Time) error {
	if m.ExtendExpiryFunc != nil {
		return m.ExtendExpiryFunc(ctx, id, expiresAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if sub, ok := m.subs[id]; ok && !sub.Completed {
		sub.ExpiresAt = expiresAt
		return nil
	}
	return domain.ErrSubscriptionNotFound
}

// ActiveByOwner returns the owner's non-completed subscription, nil if none.
func (m *MockSubscriptionRepository) ActiveByOwner(ownerID string) *domain.Subscription {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, sub := range m.subs {
		if sub.OwnerID == ownerID && !sub.Completed {
			return sub
		}
	}
	return nil
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	CreateFunc        func(ctx context.Context, tx usecase.Transaction, user *domain.User) error
	GetByIDFunc       func(ctx context.Context, id string) (*domain.User, error)
	GetByUsernameFunc func(ctx context.Context, username string) (*domain.User, error)
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, tx usecase.Transaction, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}
