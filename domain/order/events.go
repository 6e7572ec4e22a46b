package order

import "storefront/domain/shared"

type OrderPlacedEvent struct {
	shared.BaseEvent
	CustomerID string       `json:"customer_id"`
	Total      shared.Money `json:"total"`
	Discount   shared.Money `json:"discount"`
	AmountDue  shared.Money `json:"amount_due"`
	CouponCode string       `json:"coupon_code,omitempty"`
	ItemCount  int          `json:"item_count"`
}

func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseEvent:  shared.NewBaseEvent("order.placed", o.id),
		CustomerID: o.customerID,
		Total:      o.total,
		Discount:   o.discount,
		AmountDue:  o.amountDue,
		CouponCode: o.couponCode,
		ItemCount:  len(o.items),
	}
}

type OrderStatusChangedEvent struct {
	shared.BaseEvent
	From Status `json:"from"`
	To   Status `json:"to"`
}

func NewOrderStatusChangedEvent(orderID string, from, to Status) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseEvent: shared.NewBaseEvent("order.status_changed", orderID),
		From:      from,
		To:        to,
	}
}

type OrderCancelledEvent struct {
	shared.BaseEvent
	From   Status `json:"from"`
	Reason string `json:"reason,omitempty"`
}

func NewOrderCancelledEvent(orderID string, from Status, reason string) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseEvent: shared.NewBaseEvent("order.cancelled", orderID),
		From:      from,
		Reason:    reason,
	}
}

// OrderDeletedEvent audit record of a hard delete; carries the last known state.
type OrderDeletedEvent struct {
	shared.BaseEvent
	CustomerID string       `json:"customer_id"`
	Status     Status       `json:"status"`
	Total      shared.Money `json:"total"`
	ItemCount  int          `json:"item_count"`
	DeletedBy  string       `json:"deleted_by,omitempty"`
}

func NewOrderDeletedEvent(o *Order, deletedBy string) *OrderDeletedEvent {
	return &OrderDeletedEvent{
		BaseEvent:  shared.NewBaseEvent("order.deleted", o.id),
		CustomerID: o.customerID,
		Status:     o.status,
		Total:      o.total,
		ItemCount:  len(o.items),
		DeletedBy:  deletedBy,
	}
}
