package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Hasan-Saju/Bank-Teller-App/internal/commons"
	"github.com/Hasan-Saju/Bank-Teller-App/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func seedAccount(t *testing.T, store *Store, accountID string, balance string) {
	t.Helper()

	amount, err := decimal.NewFromString(balance)
	require.NoError(t, err)

	_, err = store.Create(context.Background(), domain.Account{
		AccountID: accountID,
		OwnerID:   "owner-1",
		ProductID: "product-1",
		Balance:   amount,
	})
	require.NoError(t, err)
}

func strPtr(value string) *string {
	return &value
}

func TestCreateRejectsDuplicateAccountID(t *testing.T) {
	store := NewStore(time.Second)
	seedAccount(t, store, "100000001", "0")

	_, err := store.Create(context.Background(), domain.Account{
		AccountID: "100000001",
		OwnerID:   "owner-2",
		ProductID: "product-1",
		Balance:   decimal.Zero,
	})
	require.ErrorIs(t, err, commons.ErrDuplicateRecord)
}

func TestPostWithdrawalInsufficientFundsChangesNothing(t *testing.T) {
	store := NewStore(time.Second)
	seedAccount(t, store, "100000001", "150")

	_, _, err := store.PostWithdrawal(context.Background(), domain.Transaction{
		TransactionID: "1000000001",
		Type:          domain.TransactionTypeWithdraw,
		FromAccountID: strPtr("100000001"),
		Amount:        decimal.NewFromInt(200),
		Timestamp:     time.Now().UTC(),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	account, err := store.GetByAccountID(context.Background(), "100000001")
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(150)), "balance changed on rejected withdrawal")

	agg, err := store.Aggregate(context.Background(), domain.TransactionFilter{})
	require.NoError(t, err)
	assert.Zero(t, agg.Count, "rejected withdrawal appended a log entry")
}

func TestPostTransferMissingDestinationRollsBack(t *testing.T) {
	store := NewStore(time.Second)
	seedAccount(t, store, "100000001", "100")

	_, _, err := store.PostTransfer(context.Background(), domain.Transaction{
		TransactionID: "1000000001",
		Type:          domain.TransactionTypeTransfer,
		FromAccountID: strPtr("100000001"),
		ToAccountID:   strPtr("900000009"),
		Amount:        decimal.NewFromInt(40),
		Timestamp:     time.Now().UTC(),
	})
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	account, err := store.GetByAccountID(context.Background(), "100000001")
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(100)), "source account was debited by a failed transfer")

	agg, err := store.Aggregate(context.Background(), domain.TransactionFilter{})
	require.NoError(t, err)
	assert.Zero(t, agg.Count)
}

func TestPostRejectsDuplicateTransactionID(t *testing.T) {
	store := NewStore(time.Second)
	seedAccount(t, store, "100000001", "0")

	txn := domain.Transaction{
		TransactionID: "1000000001",
		Type:          domain.TransactionTypeDeposit,
		ToAccountID:   strPtr("100000001"),
		Amount:        decimal.NewFromInt(10),
		Timestamp:     time.Now().UTC(),
	}

	_, _, err := store.PostDeposit(context.Background(), txn)
	require.NoError(t, err)

	_, balance, err := store.PostDeposit(context.Background(), txn)
	require.ErrorIs(t, err, commons.ErrDuplicateRecord)
	assert.True(t, balance.IsZero())

	account, err := store.GetByAccountID(context.Background(), "100000001")
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(10)), "duplicate posting mutated the balance")
}

func TestPostTransferRejectsSameAccount(t *testing.T) {
	store := NewStore(time.Second)
	seedAccount(t, store, "100000001", "100")

	_, _, err := store.PostTransfer(context.Background(), domain.Transaction{
		TransactionID: "1000000001",
		Type:          domain.TransactionTypeTransfer,
		FromAccountID: strPtr("100000001"),
		ToAccountID:   strPtr("100000001"),
		Amount:        decimal.NewFromInt(25),
		Timestamp:     time.Now().UTC(),
	})
	require.ErrorIs(t, err, domain.ErrSameAccountTransfer)

	account, err := store.GetByAccountID(context.Background(), "100000001")
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(100)), "same-account transfer mutated the balance")

	agg, err := store.Aggregate(context.Background(), domain.TransactionFilter{})
	require.NoError(t, err)
	assert.Zero(t, agg.Count, "rejected transfer appended a log entry")
}

func TestNewStoreDefaultsNonPositiveLockWait(t *testing.T) {
	store := NewStore(0)
	assert.Equal(t, defaultLockWait, store.lockWait)
	seedAccount(t, store, "100000001", "0")

	// A free lock must be acquirable; a zero-duration timer could fire first.
	_, balance, err := store.PostDeposit(context.Background(), domain.Transaction{
		TransactionID: "1000000001",
		Type:          domain.TransactionTypeDeposit,
		ToAccountID:   strPtr("100000001"),
		Amount:        decimal.NewFromInt(10),
		Timestamp:     time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.Equal(t, "10.00", balance.StringFixed(2))
}

func TestAcquireTimesOutOnHeldLock(t *testing.T) {
	store := NewStore(50 * time.Millisecond)
	seedAccount(t, store, "100000001", "100")

	require.NoError(t, store.acquire(context.Background(), "100000001"))
	defer store.release("100000001")

	_, _, err := store.PostDeposit(context.Background(), domain.Transaction{
		TransactionID: "1000000001",
		Type:          domain.TransactionTypeDeposit,
		ToAccountID:   strPtr("100000001"),
		Amount:        decimal.NewFromInt(10),
		Timestamp:     time.Now().UTC(),
	})
	require.ErrorIs(t, err, domain.ErrOperationTimeout)
}

func TestAcquireHonorsContextCancellation(t *testing.T) {
	store := NewStore(time.Minute)
	seedAccount(t, store, "100000001", "100")

	require.NoError(t, store.acquire(context.Background(), "100000001"))
	defer store.release("100000001")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, _, err := store.PostWithdrawal(ctx, domain.Transaction{
			TransactionID: "1000000001",
			Type:          domain.TransactionTypeWithdraw,
			FromAccountID: strPtr("100000001"),
			Amount:        decimal.NewFromInt(10),
			Timestamp:     time.Now().UTC(),
		})
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("cancelled posting did not return")
	}

	account, err := store.GetByAccountID(context.Background(), "100000001")
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(100)), "cancelled posting mutated the balance")
}

func TestOpposingTransfersDoNotDeadlock(t *testing.T) {
	store := NewStore(10 * time.Second)
	seedAccount(t, store, "100000001", "1000")
	seedAccount(t, store, "100000002", "1000")

	var group errgroup.Group
	for i := 0; i < 50; i++ {
		from, to := "100000001", "100000002"
		if i%2 == 1 {
			from, to = to, from
		}
		txnID := fmt.Sprintf("%d", 2000000000+i)
		group.Go(func() error {
			_, _, err := store.PostTransfer(context.Background(), domain.Transaction{
				TransactionID: txnID,
				Type:          domain.TransactionTypeTransfer,
				FromAccountID: strPtr(from),
				ToAccountID:   strPtr(to),
				Amount:        decimal.NewFromInt(1),
				Timestamp:     time.Now().UTC(),
			})
			return err
		})
	}
	require.NoError(t, group.Wait())

	a, err := store.GetByAccountID(context.Background(), "100000001")
	require.NoError(t, err)
	b, err := store.GetByAccountID(context.Background(), "100000002")
	require.NoError(t, err)
	assert.True(t, a.Balance.Add(b.Balance).Equal(decimal.NewFromInt(2000)), "transfers created or destroyed money")
}

func TestAggregateEmptyReportsZeroSum(t *testing.T) {
	store := NewStore(time.Second)

	agg, err := store.Aggregate(context.Background(), domain.TransactionFilter{Type: domain.TransactionTypeDeposit})
	require.NoError(t, err)
	assert.Zero(t, agg.Count)
	assert.True(t, agg.Sum.Equal(decimal.Zero))
	assert.Equal(t, "0.00", agg.Sum.StringFixed(2))
}
