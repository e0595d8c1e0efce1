package repo_interfaces

import (
	"context"

	"github.com/Hasan-Saju/Bank-Teller-App/internal/domain"
	"github.com/shopspring/decimal"
)

// TransactionRepository owns the transaction log and the only code paths
// allowed to move money. Each Post* call is one atomic unit: the balance
// mutation(s) and the log append commit together or not at all, and no other
// operation ever observes the intermediate state. Operations touching
// different accounts proceed in parallel; operations on the same account are
// serialized by the backend (row locks in Postgres, per-account locks in the
// memory store).
type TransactionRepository interface {
	// PostDeposit credits txn.Amount to the destination account and appends
	// txn. Returns the updated balance.
	PostDeposit(ctx context.Context, txn domain.Transaction) (domain.Transaction, decimal.Decimal, error)

	// PostWithdrawal debits txn.Amount from the source account and appends
	// txn. The balance check happens inside the atomic unit; a balance that
	// would go negative fails with domain.ErrInsufficientFunds and changes
	// nothing.
	PostWithdrawal(ctx context.Context, txn domain.Transaction) (domain.Transaction, decimal.Decimal, error)

	// PostTransfer debits the source, credits the destination and appends a
	// single txn, all in one atomic unit. Account locks are taken in
	// ascending account_id order. Returns the updated source balance.
	PostTransfer(ctx context.Context, txn domain.Transaction) (domain.Transaction, decimal.Decimal, error)

	GetByTransactionID(ctx context.Context, transactionID string) (domain.Transaction, error)
	List(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error)
	Aggregate(ctx context.Context, filter domain.TransactionFilter) (domain.TransactionAggregate, error)
}
