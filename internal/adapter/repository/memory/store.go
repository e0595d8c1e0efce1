// Package memory backs the ledger with process-local state. It implements
// the same repository contracts as the postgres adapter and keeps the same
// concurrency discipline: per-account exclusive locks with a bounded wait,
// taken in ascending account_id order for transfers.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Hasan-Saju/Bank-Teller-App/internal/commons"
	"github.com/Hasan-Saju/Bank-Teller-App/internal/domain"
	"github.com/shopspring/decimal"
)

type Store struct {
	lockWait time.Duration

	mu           sync.RWMutex
	accounts     map[string]*domain.Account
	transactions []domain.Transaction
	txnIndex     map[string]struct{}
	nextRowID    int64

	locksMu      sync.Mutex
	accountLocks map[string]chan struct{}
}

// defaultLockWait bounds account lock acquisition when the caller passes a
// non-positive wait. A zero-duration timer could fire before a free lock is
// taken.
const defaultLockWait = 5 * time.Second

func NewStore(lockWait time.Duration) *Store {
	if lockWait <= 0 {
		lockWait = defaultLockWait
	}
	return &Store{
		lockWait:     lockWait,
		accounts:     make(map[string]*domain.Account),
		txnIndex:     make(map[string]struct{}),
		accountLocks: make(map[string]chan struct{}),
	}
}

func (s *Store) Create(_ context.Context, account domain.Account) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[account.AccountID]; exists {
		return domain.Account{}, fmt.Errorf("create account %q: %w", account.AccountID, commons.ErrDuplicateRecord)
	}

	now := time.Now().UTC()
	s.nextRowID++
	account.ID = fmt.Sprintf("%d", s.nextRowID)
	account.CreatedAt = now
	account.UpdatedAt = now

	stored := account
	s.accounts[account.AccountID] = &stored
	return account, nil
}

func (s *Store) GetByAccountID(_ context.Context, accountID string) (domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return domain.Account{}, commons.ErrRecordNotFound
	}
	return *account, nil
}

func (s *Store) ListByOwnerID(_ context.Context, ownerID string) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := make([]domain.Account, 0)
	for _, account := range s.accounts {
		if account.OwnerID == ownerID {
			accounts = append(accounts, *account)
		}
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].AccountID < accounts[j].AccountID
	})
	return accounts, nil
}

func (s *Store) PostDeposit(ctx context.Context, txn domain.Transaction) (domain.Transaction, decimal.Decimal, error) {
	accountID := *txn.ToAccountID
	if err := s.acquire(ctx, accountID); err != nil {
		return domain.Transaction{}, decimal.Zero, err
	}
	defer s.release(accountID)

	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return domain.Transaction{}, decimal.Zero, domain.ErrAccountNotFound
	}
	if _, taken := s.txnIndex[txn.TransactionID]; taken {
		return domain.Transaction{}, decimal.Zero, fmt.Errorf("insert transaction %q: %w", txn.TransactionID, commons.ErrDuplicateRecord)
	}

	account.Balance = account.Balance.Add(txn.Amount)
	account.UpdatedAt = time.Now().UTC()
	posted := s.appendLocked(txn)
	return posted, account.Balance, nil
}

func (s *Store) PostWithdrawal(ctx context.Context, txn domain.Transaction) (domain.Transaction, decimal.Decimal, error) {
	accountID := *txn.FromAccountID
	if err := s.acquire(ctx, accountID); err != nil {
		return domain.Transaction{}, decimal.Zero, err
	}
	defer s.release(accountID)

	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return domain.Transaction{}, decimal.Zero, domain.ErrAccountNotFound
	}
	if account.Balance.LessThan(txn.Amount) {
		return domain.Transaction{}, decimal.Zero, domain.ErrInsufficientFunds
	}
	if _, taken := s.txnIndex[txn.TransactionID]; taken {
		return domain.Transaction{}, decimal.Zero, fmt.Errorf("insert transaction %q: %w", txn.TransactionID, commons.ErrDuplicateRecord)
	}

	account.Balance = account.Balance.Sub(txn.Amount)
	account.UpdatedAt = time.Now().UTC()
	posted := s.appendLocked(txn)
	return posted, account.Balance, nil
}

func (s *Store) PostTransfer(ctx context.Context, txn domain.Transaction) (domain.Transaction, decimal.Decimal, error) {
	fromID := *txn.FromAccountID
	toID := *txn.ToAccountID

	// A same-account transfer would block on the second acquire of its own
	// lock. Validation rejects these upstream; refuse here as well so the
	// invariant does not depend on every caller.
	if fromID == toID {
		return domain.Transaction{}, decimal.Zero, domain.ErrSameAccountTransfer
	}

	// Both locks in ascending account_id order, never caller order.
	first, second := fromID, toID
	if toID < fromID {
		first, second = toID, fromID
	}

	if err := s.acquire(ctx, first); err != nil {
		return domain.Transaction{}, decimal.Zero, err
	}
	defer s.release(first)
	if err := s.acquire(ctx, second); err != nil {
		return domain.Transaction{}, decimal.Zero, err
	}
	defer s.release(second)

	s.mu.Lock()
	defer s.mu.Unlock()

	from, ok := s.accounts[fromID]
	if !ok {
		return domain.Transaction{}, decimal.Zero, domain.ErrAccountNotFound
	}
	to, ok := s.accounts[toID]
	if !ok {
		return domain.Transaction{}, decimal.Zero, domain.ErrAccountNotFound
	}
	if from.Balance.LessThan(txn.Amount) {
		return domain.Transaction{}, decimal.Zero, domain.ErrInsufficientFunds
	}
	if _, taken := s.txnIndex[txn.TransactionID]; taken {
		return domain.Transaction{}, decimal.Zero, fmt.Errorf("insert transaction %q: %w", txn.TransactionID, commons.ErrDuplicateRecord)
	}

	now := time.Now().UTC()
	from.Balance = from.Balance.Sub(txn.Amount)
	from.UpdatedAt = now
	to.Balance = to.Balance.Add(txn.Amount)
	to.UpdatedAt = now
	posted := s.appendLocked(txn)
	return posted, from.Balance, nil
}

func (s *Store) GetByTransactionID(_ context.Context, transactionID string) (domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, txn := range s.transactions {
		if txn.TransactionID == transactionID {
			return txn, nil
		}
	}
	return domain.Transaction{}, commons.ErrRecordNotFound
}

func (s *Store) List(_ context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]domain.Transaction, 0)
	for _, txn := range s.transactions {
		if matchesFilter(txn, filter) {
			matched = append(matched, txn)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].Timestamp.Equal(matched[j].Timestamp) {
			return matched[i].Timestamp.Before(matched[j].Timestamp)
		}
		return matched[i].TransactionID < matched[j].TransactionID
	})
	return matched, nil
}

func (s *Store) Aggregate(_ context.Context, filter domain.TransactionFilter) (domain.TransactionAggregate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	agg := domain.TransactionAggregate{Sum: decimal.Zero}
	for _, txn := range s.transactions {
		if matchesFilter(txn, filter) {
			agg.Count++
			agg.Sum = agg.Sum.Add(txn.Amount)
		}
	}
	return agg, nil
}

// appendLocked records txn in the log. Callers hold mu and the lock of every
// account the entry touches.
func (s *Store) appendLocked(txn domain.Transaction) domain.Transaction {
	s.nextRowID++
	txn.ID = fmt.Sprintf("%d", s.nextRowID)
	txn.CreatedAt = time.Now().UTC()
	s.txnIndex[txn.TransactionID] = struct{}{}
	s.transactions = append(s.transactions, txn)
	return txn
}

// acquire takes the exclusive lock for one account, waiting at most lockWait.
func (s *Store) acquire(ctx context.Context, accountID string) error {
	lock := s.accountLock(accountID)

	timeout := time.NewTimer(s.lockWait)
	defer timeout.Stop()

	select {
	case lock <- struct{}{}:
		return nil
	case <-timeout.C:
		return fmt.Errorf("%w: account %s", domain.ErrOperationTimeout, accountID)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) release(accountID string) {
	<-s.accountLock(accountID)
}

func (s *Store) accountLock(accountID string) chan struct{} {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	lock, ok := s.accountLocks[accountID]
	if !ok {
		lock = make(chan struct{}, 1)
		s.accountLocks[accountID] = lock
	}
	return lock
}

func matchesFilter(txn domain.Transaction, filter domain.TransactionFilter) bool {
	if filter.FromAccountID != "" {
		if txn.FromAccountID == nil || *txn.FromAccountID != filter.FromAccountID {
			return false
		}
	}
	if filter.ToAccountID != "" {
		if txn.ToAccountID == nil || *txn.ToAccountID != filter.ToAccountID {
			return false
		}
	}
	if filter.Type != "" && txn.Type != filter.Type {
		return false
	}
	return true
}
