package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Hasan-Saju/Bank-Teller-App/internal/commons"
	"github.com/Hasan-Saju/Bank-Teller-App/internal/domain"
	"github.com/Hasan-Saju/Bank-Teller-App/internal/logger"
	"github.com/lib/pq"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	logger.Info("account repository create", logger.Fields{
		"accountId": account.AccountID,
		"ownerId":   account.OwnerID,
		"productId": account.ProductID,
	})

	const query = `
INSERT INTO accounts (
	account_id,
	owner_id,
	product_id,
	balance
) VALUES ($1, $2, $3, $4)
RETURNING id, created_at, updated_at`

	var id string
	var createdAt time.Time
	var updatedAt time.Time

	if err := r.db.QueryRowContext(
		ctx,
		query,
		account.AccountID,
		account.OwnerID,
		account.ProductID,
		account.Balance,
	).Scan(&id, &createdAt, &updatedAt); err != nil {
		if isUniqueViolation(err) {
			logger.Info("account repository duplicate account id", logger.Fields{
				"accountId": account.AccountID,
			})
			return domain.Account{}, fmt.Errorf("create account %q: %w", account.AccountID, commons.ErrDuplicateRecord)
		}
		logger.Error("account repository create failed", err, logger.Fields{
			"accountId": account.AccountID,
			"ownerId":   account.OwnerID,
		})
		return domain.Account{}, fmt.Errorf("create account: %w", err)
	}

	account.ID = id
	account.CreatedAt = createdAt
	account.UpdatedAt = updatedAt

	logger.Info("account repository create success", logger.Fields{
		"id":        account.ID,
		"accountId": account.AccountID,
	})

	return account, nil
}

func (r *AccountRepository) GetByAccountID(ctx context.Context, accountID string) (domain.Account, error) {
	const query = `
SELECT id, account_id, owner_id, product_id, balance, created_at, updated_at
FROM accounts
WHERE account_id = $1`

	var account domain.Account
	if err := r.db.QueryRowContext(ctx, query, accountID).Scan(
		&account.ID,
		&account.AccountID,
		&account.OwnerID,
		&account.ProductID,
		&account.Balance,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Info("account repository record not found", logger.Fields{
				"accountId": accountID,
			})
			return domain.Account{}, commons.ErrRecordNotFound
		}
		logger.Error("account repository get failed", err, logger.Fields{
			"accountId": accountID,
		})
		return domain.Account{}, fmt.Errorf("get account by account id: %w", err)
	}

	return account, nil
}

func (r *AccountRepository) ListByOwnerID(ctx context.Context, ownerID string) ([]domain.Account, error) {
	const query = `
SELECT id, account_id, owner_id, product_id, balance, created_at, updated_at
FROM accounts
WHERE owner_id = $1
ORDER BY created_at, account_id`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		logger.Error("account repository list by owner failed", err, logger.Fields{
			"ownerId": ownerID,
		})
		return nil, fmt.Errorf("list accounts by owner id: %w", err)
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0)
	for rows.Next() {
		var account domain.Account
		if err := rows.Scan(
			&account.ID,
			&account.AccountID,
			&account.OwnerID,
			&account.ProductID,
			&account.Balance,
			&account.CreatedAt,
			&account.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan account row: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate account rows: %w", err)
	}

	return accounts, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == "23505"
	}
	return false
}

func isLockNotAvailable(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == "55P03"
	}
	return false
}
