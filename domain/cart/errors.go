package cart

import (
	"errors"
	"strconv"

	"storefront/domain/shared"
)

var (
	// ErrCartNotFound customer has no cart yet
	ErrCartNotFound = errors.New("cart not found")

	// ErrItemNotFound line item does not exist
	ErrItemNotFound = errors.New("cart item not found")

	// ErrInvalidQuantity quantity out of range
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
)

// NewCartNotFoundError creates a cart-not-found error for a customer.
func NewCartNotFoundError(customerID string) error {
	return shared.NewDomainError(ErrCartNotFound, "cart", "", "cart not found for customer "+customerID)
}

// NewItemNotFoundError creates an item-not-found error.
func NewItemNotFoundError(itemID string) error {
	return shared.NewDomainError(ErrItemNotFound, "cart_item", "id", "cart item not found: "+itemID)
}

// NewInvalidQuantityError creates an invalid-quantity error.
func NewInvalidQuantityError(quantity int) error {
	return shared.NewDomainError(ErrInvalidQuantity, "cart_item", "quantity",
		"quantity must be a positive integer, got "+strconv.Itoa(quantity))
}
