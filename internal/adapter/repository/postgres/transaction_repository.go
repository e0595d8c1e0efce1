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
	"github.com/shopspring/decimal"
)

// TransactionRepository posts ledger movements against Postgres. Every Post*
// method runs inside one database transaction so the balance mutation and the
// log append commit together. Debits are conditional updates guarded by
// `balance >= amount`; a zero-row result distinguishes an overdraft from a
// missing account via an existence probe inside the same transaction.
type TransactionRepository struct {
	db       *sql.DB
	lockWait time.Duration
}

func NewTransactionRepository(db *sql.DB, lockWait time.Duration) *TransactionRepository {
	return &TransactionRepository{db: db, lockWait: lockWait}
}

func (r *TransactionRepository) PostDeposit(ctx context.Context, txn domain.Transaction) (domain.Transaction, decimal.Decimal, error) {
	logger.Info("transaction repository post deposit", logger.Fields{
		"transactionId": txn.TransactionID,
		"toAccountId":   txn.ToAccountID,
		"amount":        txn.Amount,
	})

	var balance decimal.Decimal
	posted, err := r.withTx(ctx, func(tx *sql.Tx) (domain.Transaction, error) {
		const credit = `
UPDATE accounts
SET balance = balance + $2,
    updated_at = NOW()
WHERE account_id = $1
RETURNING balance`

		if err := tx.QueryRowContext(ctx, credit, txn.ToAccountID, txn.Amount).Scan(&balance); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.Transaction{}, domain.ErrAccountNotFound
			}
			return domain.Transaction{}, fmt.Errorf("credit account: %w", err)
		}

		return insertTransaction(ctx, tx, txn)
	})
	if err != nil {
		logger.Error("transaction repository post deposit failed", err, logger.Fields{
			"transactionId": txn.TransactionID,
			"toAccountId":   txn.ToAccountID,
		})
		return domain.Transaction{}, decimal.Zero, err
	}

	logger.Info("transaction repository post deposit success", logger.Fields{
		"transactionId": posted.TransactionID,
		"toAccountId":   posted.ToAccountID,
	})
	return posted, balance, nil
}

func (r *TransactionRepository) PostWithdrawal(ctx context.Context, txn domain.Transaction) (domain.Transaction, decimal.Decimal, error) {
	logger.Info("transaction repository post withdrawal", logger.Fields{
		"transactionId": txn.TransactionID,
		"fromAccountId": txn.FromAccountID,
		"amount":        txn.Amount,
	})

	var balance decimal.Decimal
	posted, err := r.withTx(ctx, func(tx *sql.Tx) (domain.Transaction, error) {
		newBalance, err := debitAccount(ctx, tx, *txn.FromAccountID, txn.Amount)
		if err != nil {
			return domain.Transaction{}, err
		}
		balance = newBalance

		return insertTransaction(ctx, tx, txn)
	})
	if err != nil {
		logger.Error("transaction repository post withdrawal failed", err, logger.Fields{
			"transactionId": txn.TransactionID,
			"fromAccountId": txn.FromAccountID,
		})
		return domain.Transaction{}, decimal.Zero, err
	}

	logger.Info("transaction repository post withdrawal success", logger.Fields{
		"transactionId": posted.TransactionID,
		"fromAccountId": posted.FromAccountID,
	})
	return posted, balance, nil
}

func (r *TransactionRepository) PostTransfer(ctx context.Context, txn domain.Transaction) (domain.Transaction, decimal.Decimal, error) {
	logger.Info("transaction repository post transfer", logger.Fields{
		"transactionId": txn.TransactionID,
		"fromAccountId": txn.FromAccountID,
		"toAccountId":   txn.ToAccountID,
		"amount":        txn.Amount,
	})

	fromID := *txn.FromAccountID
	toID := *txn.ToAccountID

	// The ordering loop below keys its debit branch on account id, so a
	// same-account transfer would debit twice and never credit. Validation
	// rejects these upstream; refuse here as well so the invariant does not
	// depend on every caller.
	if fromID == toID {
		return domain.Transaction{}, decimal.Zero, domain.ErrSameAccountTransfer
	}

	var balance decimal.Decimal
	posted, err := r.withTx(ctx, func(tx *sql.Tx) (domain.Transaction, error) {
		// Row locks are taken in ascending account_id order regardless of
		// transfer direction so that concurrent opposing transfers cannot
		// deadlock.
		ordered := []string{fromID, toID}
		if toID < fromID {
			ordered = []string{toID, fromID}
		}

		for _, accountID := range ordered {
			if accountID == fromID {
				newBalance, err := debitAccount(ctx, tx, fromID, txn.Amount)
				if err != nil {
					return domain.Transaction{}, err
				}
				balance = newBalance
				continue
			}

			if err := creditAccount(ctx, tx, toID, txn.Amount); err != nil {
				return domain.Transaction{}, err
			}
		}

		return insertTransaction(ctx, tx, txn)
	})
	if err != nil {
		logger.Error("transaction repository post transfer failed", err, logger.Fields{
			"transactionId": txn.TransactionID,
			"fromAccountId": fromID,
			"toAccountId":   toID,
		})
		return domain.Transaction{}, decimal.Zero, err
	}

	logger.Info("transaction repository post transfer success", logger.Fields{
		"transactionId": posted.TransactionID,
		"fromAccountId": fromID,
		"toAccountId":   toID,
	})
	return posted, balance, nil
}

func (r *TransactionRepository) GetByTransactionID(ctx context.Context, transactionID string) (domain.Transaction, error) {
	const query = `
SELECT id, transaction_id, transaction_type, from_account_id, to_account_id, amount, txn_timestamp, created_at
FROM transactions
WHERE transaction_id = $1`

	txn, err := scanTransaction(r.db.QueryRowContext(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Info("transaction repository record not found", logger.Fields{
				"transactionId": transactionID,
			})
			return domain.Transaction{}, commons.ErrRecordNotFound
		}
		logger.Error("transaction repository get failed", err, logger.Fields{
			"transactionId": transactionID,
		})
		return domain.Transaction{}, fmt.Errorf("get transaction by transaction id: %w", err)
	}

	return txn, nil
}

func (r *TransactionRepository) List(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	query := `
SELECT id, transaction_id, transaction_type, from_account_id, to_account_id, amount, txn_timestamp, created_at
FROM transactions`
	where, args := filterClause(filter)
	query += where + `
ORDER BY txn_timestamp, transaction_id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("transaction repository list failed", err, nil)
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]domain.Transaction, 0)
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		transactions = append(transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}

	return transactions, nil
}

func (r *TransactionRepository) Aggregate(ctx context.Context, filter domain.TransactionFilter) (domain.TransactionAggregate, error) {
	query := `
SELECT COUNT(*), COALESCE(SUM(amount), 0)
FROM transactions`
	where, args := filterClause(filter)
	query += where

	var agg domain.TransactionAggregate
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&agg.Count, &agg.Sum); err != nil {
		logger.Error("transaction repository aggregate failed", err, nil)
		return domain.TransactionAggregate{}, fmt.Errorf("aggregate transactions: %w", err)
	}

	return agg, nil
}

// withTx runs fn inside a database transaction with a bounded lock wait.
// Any error rolls the whole unit back; lock-wait expiry is reported as
// domain.ErrOperationTimeout.
func (r *TransactionRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) (domain.Transaction, error)) (domain.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("begin posting transaction: %w", err)
	}

	if r.lockWait > 0 {
		lockTimeout := fmt.Sprintf("SET LOCAL lock_timeout = %d", r.lockWait.Milliseconds())
		if _, err := tx.ExecContext(ctx, lockTimeout); err != nil {
			_ = tx.Rollback()
			return domain.Transaction{}, fmt.Errorf("set lock timeout: %w", err)
		}
	}

	posted, err := fn(tx)
	if err != nil {
		_ = tx.Rollback()
		if isLockNotAvailable(err) {
			return domain.Transaction{}, fmt.Errorf("%w: %s", domain.ErrOperationTimeout, err.Error())
		}
		return domain.Transaction{}, err
	}

	if err := tx.Commit(); err != nil {
		return domain.Transaction{}, fmt.Errorf("commit posting transaction: %w", err)
	}

	return posted, nil
}

func debitAccount(ctx context.Context, tx *sql.Tx, accountID string, amount decimal.Decimal) (decimal.Decimal, error) {
	const debit = `
UPDATE accounts
SET balance = balance - $2,
    updated_at = NOW()
WHERE account_id = $1
  AND balance >= $2
RETURNING balance`

	var balance decimal.Decimal
	err := tx.QueryRowContext(ctx, debit, accountID, amount).Scan(&balance)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, fmt.Errorf("debit account: %w", err)
	}

	const probe = `SELECT EXISTS (SELECT 1 FROM accounts WHERE account_id = $1)`
	var exists bool
	if probeErr := tx.QueryRowContext(ctx, probe, accountID).Scan(&exists); probeErr != nil {
		return decimal.Zero, fmt.Errorf("probe debit account: %w", probeErr)
	}
	if !exists {
		return decimal.Zero, domain.ErrAccountNotFound
	}
	return decimal.Zero, domain.ErrInsufficientFunds
}

func creditAccount(ctx context.Context, tx *sql.Tx, accountID string, amount decimal.Decimal) error {
	const credit = `
UPDATE accounts
SET balance = balance + $2,
    updated_at = NOW()
WHERE account_id = $1`

	result, err := tx.ExecContext(ctx, credit, accountID, amount)
	if err != nil {
		return fmt.Errorf("credit account: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("credit account rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func insertTransaction(ctx context.Context, tx *sql.Tx, txn domain.Transaction) (domain.Transaction, error) {
	const query = `
INSERT INTO transactions (
	transaction_id,
	transaction_type,
	from_account_id,
	to_account_id,
	amount,
	txn_timestamp
) VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at`

	var id string
	var createdAt time.Time
	if err := tx.QueryRowContext(
		ctx,
		query,
		txn.TransactionID,
		txn.Type,
		txn.FromAccountID,
		txn.ToAccountID,
		txn.Amount,
		txn.Timestamp,
	).Scan(&id, &createdAt); err != nil {
		if isUniqueViolation(err) {
			return domain.Transaction{}, fmt.Errorf("insert transaction %q: %w", txn.TransactionID, commons.ErrDuplicateRecord)
		}
		return domain.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	txn.ID = id
	txn.CreatedAt = createdAt
	return txn, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (domain.Transaction, error) {
	var txn domain.Transaction
	var fromAccount sql.NullString
	var toAccount sql.NullString

	if err := row.Scan(
		&txn.ID,
		&txn.TransactionID,
		&txn.Type,
		&fromAccount,
		&toAccount,
		&txn.Amount,
		&txn.Timestamp,
		&txn.CreatedAt,
	); err != nil {
		return domain.Transaction{}, err
	}

	if fromAccount.Valid {
		value := fromAccount.String
		txn.FromAccountID = &value
	}
	if toAccount.Valid {
		value := toAccount.String
		txn.ToAccountID = &value
	}

	return txn, nil
}

func filterClause(filter domain.TransactionFilter) (string, []any) {
	clauses := make([]string, 0, 3)
	args := make([]any, 0, 3)

	if filter.FromAccountID != "" {
		args = append(args, filter.FromAccountID)
		clauses = append(clauses, fmt.Sprintf("from_account_id = $%d", len(args)))
	}
	if filter.ToAccountID != "" {
		args = append(args, filter.ToAccountID)
		clauses = append(clauses, fmt.Sprintf("to_account_id = $%d", len(args)))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		clauses = append(clauses, fmt.Sprintf("transaction_type = $%d", len(args)))
	}

	if len(clauses) == 0 {
		return "", nil
	}

	where := "\nWHERE " + clauses[0]
	for _, clause := range clauses[1:] {
		where += "\n  AND " + clause
	}
	return where, args
}
