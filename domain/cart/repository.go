package cart

import "context"

// Repository cart persistence port.
//
// The Lock* methods take a write lock on the cart for the lifetime of the
// surrounding unit of work, which is what makes find-or-create and
// find-or-increment a single atomic read-modify-write.
type Repository interface {
	// FindByCustomerID returns ErrCartNotFound when the customer has no cart.
	FindByCustomerID(ctx context.Context, customerID string) (*Cart, error)

	// LockByCustomerID like FindByCustomerID, holding a write lock.
	LockByCustomerID(ctx context.Context, customerID string) (*Cart, error)

	// LockByItemID returns the cart owning itemID, or ErrItemNotFound.
	LockByItemID(ctx context.Context, itemID string) (*Cart, error)

	// Save inserts a new cart or writes changed and removed items.
	Save(ctx context.Context, c *Cart) error
}
