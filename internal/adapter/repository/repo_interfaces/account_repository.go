package repo_interfaces

import (
	"context"

	"github.com/Hasan-Saju/Bank-Teller-App/internal/domain"
)

type AccountRepository interface {
	// Create inserts a new account. The account_id unique constraint is the
	// identifier reservation: a collision surfaces as
	// commons.ErrDuplicateRecord and the caller retries with a fresh id.
	Create(ctx context.Context, account domain.Account) (domain.Account, error)
	GetByAccountID(ctx context.Context, accountID string) (domain.Account, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]domain.Account, error)
}
