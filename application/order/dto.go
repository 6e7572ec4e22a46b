package order

import (
	"time"

	"storefront/domain/shared"
)

// PlaceOrderRequest body of POST /orders
type PlaceOrderRequest struct {
	Items      []OrderItemRequest `json:"items"`
	CouponCode string             `json:"coupon_code"`
}

// OrderItemRequest product and quantity; the price is always resolved server side
type OrderItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// CheckoutRequest body of POST /cart/checkout; empty ItemIDs converts the whole cart
type CheckoutRequest struct {
	ItemIDs    []string `json:"item_ids"`
	CouponCode string   `json:"coupon_code"`
}

// UpdateOrderStatusRequest body of PATCH /orders/:id
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CancelOrderRequest body of POST /orders/:id/cancel
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// OrderResponse order as shown to clients
type OrderResponse struct {
	ID         string              `json:"id"`
	CustomerID string              `json:"customer_id"`
	Items      []OrderItemResponse `json:"items"`
	Total      shared.Money        `json:"total"`
	Discount   shared.Money        `json:"discount"`
	AmountDue  shared.Money        `json:"amount_due"`
	CouponCode string              `json:"coupon_code,omitempty"`
	Status     string              `json:"status"`
	Version    int                 `json:"version"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// OrderItemResponse order line
type OrderItemResponse struct {
	ID          string       `json:"id"`
	OrderID     string       `json:"order_id"`
	ProductID   string       `json:"product_id"`
	ProductName string       `json:"product_name"`
	Quantity    int          `json:"quantity"`
	UnitPrice   shared.Money `json:"unit_price"`
	Subtotal    shared.Money `json:"subtotal"`
}
