package cart

import "storefront/domain/shared"

// AuthorizeOwner is the single ownership policy for every cart mutation.
func AuthorizeOwner(c *Cart, actor shared.Actor) error {
	if c == nil || !actor.Owns(c.CustomerID()) {
		return shared.NewForbiddenError("cart", "cart item does not belong to the requesting customer")
	}
	return nil
}
