package cart

import "storefront/domain/shared"

// ItemAddedEvent a product entered the cart
type ItemAddedEvent struct {
	shared.BaseEvent
	ItemID    string       `json:"item_id"`
	ProductID string       `json:"product_id"`
	Quantity  int          `json:"quantity"`
	UnitPrice shared.Money `json:"unit_price"`
}

func NewItemAddedEvent(cartID, itemID, productID string, quantity int, price shared.Money) *ItemAddedEvent {
	return &ItemAddedEvent{
		BaseEvent: shared.NewBaseEvent("cart.item_added", cartID),
		ItemID:    itemID,
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: price,
	}
}

// ItemQuantityChangedEvent a line's quantity was merged or set
type ItemQuantityChangedEvent struct {
	shared.BaseEvent
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

func NewItemQuantityChangedEvent(cartID, itemID string, quantity int) *ItemQuantityChangedEvent {
	return &ItemQuantityChangedEvent{
		BaseEvent: shared.NewBaseEvent("cart.item_quantity_changed", cartID),
		ItemID:    itemID,
		Quantity:  quantity,
	}
}

// ItemRemovedEvent a line was deleted (audit trail for the hard delete)
type ItemRemovedEvent struct {
	shared.BaseEvent
	ItemID    string `json:"item_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func NewItemRemovedEvent(cartID, itemID, productID string, quantity int) *ItemRemovedEvent {
	return &ItemRemovedEvent{
		BaseEvent: shared.NewBaseEvent("cart.item_removed", cartID),
		ItemID:    itemID,
		ProductID: productID,
		Quantity:  quantity,
	}
}
