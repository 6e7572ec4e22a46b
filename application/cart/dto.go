package cart

import (
	"time"

	"storefront/domain/pricing"
	"storefront/domain/shared"
)

// AddItemRequest body of POST /cart/items
type AddItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// UpdateQuantityRequest body of PATCH /cart/items/:id
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// QuoteRequest selected line items (empty means all) and an optional coupon
type QuoteRequest struct {
	ItemIDs    []string `json:"item_ids"`
	CouponCode string   `json:"coupon_code"`
}

// LineItemResponse a cart line
type LineItemResponse struct {
	ID        string       `json:"id"`
	CartID    string       `json:"cart_id"`
	ProductID string       `json:"product_id"`
	Quantity  int          `json:"quantity"`
	UnitPrice shared.Money `json:"unit_price"`
	Subtotal  shared.Money `json:"subtotal"`
	AddedAt   time.Time    `json:"added_at"`
}

// CartItemView a cart line joined with current product display data
type CartItemView struct {
	LineItemResponse
	ProductName string `json:"product_name"`
	ImageURL    string `json:"image_url"`
	Category    string `json:"category"`
	// Available false when the product is out of stock or no longer listed
	Available bool `json:"available"`
}

// CartView GET /cart
type CartView struct {
	ID         string         `json:"id"`
	CustomerID string         `json:"customer_id"`
	Items      []CartItemView `json:"items"`
	Subtotal   shared.Money   `json:"subtotal"`
}

// QuoteResponse pricing of the selected lines
type QuoteResponse struct {
	ItemIDs []string `json:"item_ids"`
	pricing.Quote
}
