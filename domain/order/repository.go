package order

import "context"

// Repository Order repository interface
type Repository interface {
	// Save inserts a new order with all its items, or updates status and
	// version of an existing one. Updates fail with ErrConcurrentModification
	// when the stored version moved on.
	Save(ctx context.Context, order *Order) error

	// FindByID returns ErrOrderNotFound when missing.
	FindByID(ctx context.Context, id string) (*Order, error)

	// FindByCustomerID newest first.
	FindByCustomerID(ctx context.Context, customerID string) ([]*Order, error)

	// FindItemByID returns the item together with its owning order.
	FindItemByID(ctx context.Context, itemID string) (*Order, Item, error)

	// Delete hard-deletes the order and its items.
	Delete(ctx context.Context, order *Order) error
}
