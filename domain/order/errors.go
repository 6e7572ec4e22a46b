/*
Package order - order domain errors

Sentinels support errors.Is(); constructors capture the stack at the point
of creation (usually the repository or the aggregate) through
shared.NewDomainError. No HTTP concepts here.
*/
package order

import (
	"errors"
	"fmt"

	"storefront/domain/shared"
)

var (
	// ErrOrderNotFound order does not exist
	ErrOrderNotFound = errors.New("order not found")

	// ErrItemNotFound order item does not exist
	ErrItemNotFound = errors.New("order item not found")

	// ErrEmptyOrder an order needs at least one item
	ErrEmptyOrder = errors.New("order must have at least one item")

	// ErrInvalidQuantity order item quantity out of range
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")

	// ErrInvalidTransition status change not allowed by the lifecycle
	ErrInvalidTransition = errors.New("invalid order status transition")

	// ErrConcurrentModification optimistic lock failure; callers may retry
	ErrConcurrentModification = fmt.Errorf("order was modified by another transaction: %w", shared.ErrConflict)
)

// NewOrderNotFoundError creates an order-not-found error.
func NewOrderNotFoundError(orderID string) error {
	return shared.NewDomainError(ErrOrderNotFound, "order", "id", "order not found: "+orderID)
}

// NewItemNotFoundError creates an order-item-not-found error.
func NewItemNotFoundError(itemID string) error {
	return shared.NewDomainError(ErrItemNotFound, "order_item", "id", "order item not found: "+itemID)
}

// NewEmptyOrderError creates an empty-order error.
func NewEmptyOrderError() error {
	return shared.NewDomainError(ErrEmptyOrder, "order", "items", "order must have at least one item")
}

// NewInvalidQuantityError creates an invalid-quantity error for a product.
func NewInvalidQuantityError(productID string, quantity int) error {
	return shared.NewDomainError(ErrInvalidQuantity, "order_item", "quantity",
		fmt.Sprintf("quantity for product %s must be a positive integer, got %d", productID, quantity))
}

// NewInvalidTransitionError creates an invalid-transition error.
func NewInvalidTransitionError(from, to Status) error {
	return shared.NewDomainError(ErrInvalidTransition, "order", "status",
		fmt.Sprintf("cannot transition order from %s to %s", from, to))
}

// NewConcurrentModificationError creates an optimistic-lock error.
func NewConcurrentModificationError(orderID string) error {
	return shared.NewDomainError(ErrConcurrentModification, "order", "version",
		"order "+orderID+" was modified by another transaction, please retry")
}
