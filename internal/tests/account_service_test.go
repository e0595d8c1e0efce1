package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Hasan-Saju/Bank-Teller-App/internal/adapter/http/models"
	"github.com/Hasan-Saju/Bank-Teller-App/internal/adapter/repository/memory"
	"github.com/Hasan-Saju/Bank-Teller-App/internal/usecase/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func newAccountFixture(t *testing.T) (*memory.Store, *services.AccountService) {
	t.Helper()
	store := memory.NewStore(5 * time.Second)
	registry := memory.NewRegistry(
		[]string{"4000000001", "4000000002"},
		[]string{"SAV-01", "CHK-01"},
	)
	return store, services.NewAccountService(store, registry)
}

func TestOpenAccountSuccess(t *testing.T) {
	_, svc := newAccountFixture(t)

	resp, err := svc.OpenAccount(context.Background(), models.OpenAccountRequest{
		OwnerID:   "4000000001",
		ProductID: "SAV-01",
	})
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.NotNil(t, resp.Data)

	assert.Len(t, resp.Data.AccountID, 9)
	assert.Equal(t, "0.00", resp.Data.Balance)
	assert.Equal(t, "4000000001", resp.Data.OwnerID)
	assert.Equal(t, "SAV-01", resp.Data.ProductID)
}

func TestOpenAccountRejectsUnknownOwnerOrProduct(t *testing.T) {
	_, svc := newAccountFixture(t)

	resp, err := svc.OpenAccount(context.Background(), models.OpenAccountRequest{
		OwnerID:   "4999999999",
		ProductID: "SAV-01",
	})
	require.Error(t, err)
	assert.False(t, resp.Success)

	resp, err = svc.OpenAccount(context.Background(), models.OpenAccountRequest{
		OwnerID:   "4000000001",
		ProductID: "NOPE",
	})
	require.Error(t, err)
	assert.False(t, resp.Success)
}

func TestOpenAccountRequiresOwnerAndProduct(t *testing.T) {
	_, svc := newAccountFixture(t)

	resp, err := svc.OpenAccount(context.Background(), models.OpenAccountRequest{})
	require.Error(t, err)
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Errors)
}

func TestGetAccountNotFound(t *testing.T) {
	_, svc := newAccountFixture(t)

	resp, err := svc.GetAccount(context.Background(), "999999999")
	require.Error(t, err)
	assert.False(t, resp.Success)
}

func TestListAccountsForOwner(t *testing.T) {
	_, svc := newAccountFixture(t)

	for _, product := range []string{"SAV-01", "CHK-01"} {
		_, err := svc.OpenAccount(context.Background(), models.OpenAccountRequest{
			OwnerID:   "4000000001",
			ProductID: product,
		})
		require.NoError(t, err)
	}
	_, err := svc.OpenAccount(context.Background(), models.OpenAccountRequest{
		OwnerID:   "4000000002",
		ProductID: "SAV-01",
	})
	require.NoError(t, err)

	resp, err := svc.ListAccountsForOwner(context.Background(), "4000000001")
	require.NoError(t, err)
	require.NotNil(t, resp.Data)
	assert.Len(t, *resp.Data, 2)
}

// Opening many accounts concurrently must never hand out the same account
// id twice; collisions on the sparse 9-digit space are resolved by the
// unique-insert reservation and retry.
func TestConcurrentAccountIdentifiersAreDistinct(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping 100k account openings in short mode")
	}

	_, svc := newAccountFixture(t)

	const openings = 100000

	var mu sync.Mutex
	seen := make(map[string]struct{}, openings)

	var group errgroup.Group
	group.SetLimit(64)
	for i := 0; i < openings; i++ {
		group.Go(func() error {
			resp, err := svc.OpenAccount(context.Background(), models.OpenAccountRequest{
				OwnerID:   "4000000001",
				ProductID: "SAV-01",
			})
			if err != nil {
				return err
			}
			mu.Lock()
			seen[resp.Data.AccountID] = struct{}{}
			mu.Unlock()
			return nil
		})
	}
	require.NoError(t, group.Wait())

	assert.Len(t, seen, openings, "duplicate account ids were issued")
}
