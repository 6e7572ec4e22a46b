package order

import "storefront/domain/shared"

// AuthorizeOwner only the owning customer or an admin may read or change an order.
func AuthorizeOwner(o *Order, actor shared.Actor) error {
	if o == nil || !actor.Owns(o.CustomerID()) {
		return shared.NewForbiddenError("order", "order does not belong to the requesting customer")
	}
	return nil
}

// AuthorizeAdmin administrative operations: fulfilment transitions and hard delete.
func AuthorizeAdmin(actor shared.Actor) error {
	if !actor.Admin {
		return shared.NewForbiddenError("order", "operation requires an administrator")
	}
	return nil
}

// AuthorizeTransition owners may cancel their own orders; every other
// transition is administrative.
func AuthorizeTransition(o *Order, actor shared.Actor, target Status) error {
	if target == StatusCancelled {
		return AuthorizeOwner(o, actor)
	}
	return AuthorizeAdmin(actor)
}
