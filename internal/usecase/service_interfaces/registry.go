package service_interfaces

import "context"

// Registry is the external client/product catalog the account-opening flow
// consults. Identity and catalog management live outside this module; the
// ledger only asks whether a reference is valid.
type Registry interface {
	OwnerExists(ctx context.Context, ownerID string) (bool, error)
	ProductExists(ctx context.Context, productID string) (bool, error)
}
