package memory

import (
	"context"
	"sync"
)

// Registry is a process-local stand-in for the external client/product
// catalog. Real deployments point the account service at the registry
// service; tests and local runs seed this one.
type Registry struct {
	mu       sync.RWMutex
	owners   map[string]struct{}
	products map[string]struct{}
}

func NewRegistry(ownerIDs []string, productIDs []string) *Registry {
	r := &Registry{
		owners:   make(map[string]struct{}, len(ownerIDs)),
		products: make(map[string]struct{}, len(productIDs)),
	}
	for _, id := range ownerIDs {
		r.owners[id] = struct{}{}
	}
	for _, id := range productIDs {
		r.products[id] = struct{}{}
	}
	return r
}

func (r *Registry) OwnerExists(_ context.Context, ownerID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.owners[ownerID]
	return ok, nil
}

func (r *Registry) ProductExists(_ context.Context, productID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.products[productID]
	return ok, nil
}
