package memory

import (
	"context"

	"storefront/domain/cart"
	"storefront/domain/shared"
)

// CartRepository cart storage over the store. The Lock* methods rely on
// the unit of work serializing executions.
type CartRepository struct {
	store *Store
}

// NewCartRepository creates a cart repository over store.
func NewCartRepository(store *Store) *CartRepository {
	return &CartRepository{store: store}
}

func (r *CartRepository) FindByCustomerID(ctx context.Context, customerID string) (*cart.Cart, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	cartID, ok := r.store.cartByCustomer[customerID]
	if !ok {
		return nil, cart.NewCartNotFoundError(customerID)
	}
	return cart.RebuildFromDTO(r.store.carts[cartID]), nil
}

func (r *CartRepository) LockByCustomerID(ctx context.Context, customerID string) (*cart.Cart, error) {
	return r.FindByCustomerID(ctx, customerID)
}

func (r *CartRepository) LockByItemID(ctx context.Context, itemID string) (*cart.Cart, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, dto := range r.store.carts {
		for _, item := range dto.Items {
			if item.ID() == itemID {
				return cart.RebuildFromDTO(dto), nil
			}
		}
	}
	return nil, cart.NewItemNotFoundError(itemID)
}

// Save stores a snapshot of c. New carts conflict when the customer
// already has one; existing carts must carry the stored version.
func (r *CartRepository) Save(ctx context.Context, c *cart.Cart) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	version := 0
	if c.IsNew() {
		if _, exists := r.store.cartByCustomer[c.CustomerID()]; exists {
			return shared.NewConflictError("cart", "customer already has a cart")
		}
	} else {
		stored, ok := r.store.carts[c.ID()]
		if !ok {
			return cart.NewCartNotFoundError(c.CustomerID())
		}
		if stored.Version != c.Version() {
			return shared.NewConflictError("cart", "cart was modified concurrently")
		}
		version = stored.Version + 1
	}

	r.store.carts[c.ID()] = cart.ReconstructionDTO{
		ID:         c.ID(),
		CustomerID: c.CustomerID(),
		Items:      c.Items(),
		Version:    version,
		CreatedAt:  c.CreatedAt(),
		UpdatedAt:  c.UpdatedAt(),
	}
	r.store.cartByCustomer[c.CustomerID()] = c.ID()
	c.MarkPersisted()
	return nil
}

var _ cart.Repository = (*CartRepository)(nil)
