package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a ledger account. AccountID is the public 9-digit identifier,
// immutable once assigned. OwnerID and ProductID are opaque references into
// the external client/product registry. Balance is never negative; only the
// posting operations of the transaction repository mutate it.
type Account struct {
	ID        string
	AccountID string
	OwnerID   string
	ProductID string
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
