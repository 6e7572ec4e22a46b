package po

import (
	"time"

	"storefront/domain/cart"
	"storefront/domain/shared"

	"github.com/shopspring/decimal"
)

// CartPO Cart persistence object. One row per customer.
type CartPO struct {
	ID         string    `gorm:"primaryKey;size:64"`
	CustomerID string    `gorm:"size:64;uniqueIndex;not null"`
	Version    int       `gorm:"default:0;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName Specify table name
func (CartPO) TableName() string {
	return "carts"
}

// CartItemPO line item row; (cart_id, product_id) is unique
type CartItemPO struct {
	ID        string          `gorm:"primaryKey;size:64"`
	CartID    string          `gorm:"size:64;not null;uniqueIndex:uk_cart_product,priority:1"`
	ProductID string          `gorm:"size:64;not null;uniqueIndex:uk_cart_product,priority:2"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency  string          `gorm:"size:3;not null"`
	AddedAt   time.Time       `gorm:"not null;index"`
}

// TableName Specify table name
func (CartItemPO) TableName() string {
	return "cart_items"
}

// FromCartDomain Convert domain model to persistence objects
func FromCartDomain(c *cart.Cart) (*CartPO, []CartItemPO) {
	cartPO := &CartPO{
		ID:         c.ID(),
		CustomerID: c.CustomerID(),
		Version:    c.Version(),
		CreatedAt:  c.CreatedAt(),
		UpdatedAt:  c.UpdatedAt(),
	}
	items := c.Items()
	itemPOs := make([]CartItemPO, len(items))
	for i, item := range items {
		itemPOs[i] = FromCartItemDomain(item)
	}
	return cartPO, itemPOs
}

// FromCartItemDomain Convert one line item
func FromCartItemDomain(item cart.LineItem) CartItemPO {
	return CartItemPO{
		ID:        item.ID(),
		CartID:    item.CartID(),
		ProductID: item.ProductID(),
		Quantity:  item.Quantity(),
		UnitPrice: item.UnitPrice().Amount(),
		Currency:  item.UnitPrice().Currency(),
		AddedAt:   item.AddedAt(),
	}
}

// ToDomain Convert persistence objects to the aggregate.
// itemPOs must already be ordered by AddedAt.
func (po *CartPO) ToDomain(itemPOs []CartItemPO) *cart.Cart {
	items := make([]cart.LineItem, len(itemPOs))
	for i, itemPO := range itemPOs {
		items[i] = cart.RebuildItemFromDTO(cart.ItemReconstructionDTO{
			ID:        itemPO.ID,
			CartID:    itemPO.CartID,
			ProductID: itemPO.ProductID,
			Quantity:  itemPO.Quantity,
			UnitPrice: shared.NewMoney(itemPO.UnitPrice, itemPO.Currency),
			AddedAt:   itemPO.AddedAt,
		})
	}
	return cart.RebuildFromDTO(cart.ReconstructionDTO{
		ID:         po.ID,
		CustomerID: po.CustomerID,
		Items:      items,
		Version:    po.Version,
		CreatedAt:  po.CreatedAt,
		UpdatedAt:  po.UpdatedAt,
	})
}
