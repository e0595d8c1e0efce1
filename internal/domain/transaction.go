package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "Deposit"
	TransactionTypeWithdraw TransactionType = "Withdraw"
	TransactionTypeTransfer TransactionType = "Transfer"
)

// Transaction is one immutable entry in the ledger log. TransactionID is the
// public 10-digit identifier. FromAccountID is nil for deposits, ToAccountID
// is nil for withdrawals; a transfer carries both. Entries are insert-only:
// there is no update or delete path anywhere in the module.
type Transaction struct {
	ID            string
	TransactionID string
	Type          TransactionType
	FromAccountID *string
	ToAccountID   *string
	Amount        decimal.Decimal
	Timestamp     time.Time
	CreatedAt     time.Time
}

// TransactionFilter narrows List and Aggregate queries. Zero values match
// everything; non-zero fields are combined with AND.
type TransactionFilter struct {
	FromAccountID string
	ToAccountID   string
	Type          TransactionType
}

// TransactionAggregate is the count and amount sum over a filtered set of
// log entries. Sum is zero, never absent, when no entry matches.
type TransactionAggregate struct {
	Count int64
	Sum   decimal.Decimal
}
