package po

import (
	"time"

	"storefront/domain/order"
	"storefront/domain/shared"

	"github.com/shopspring/decimal"
)

// OrderPO Order persistence object
// Note: Only used for database mapping, does not contain any business logic
// Defining GORM associations is prohibited here
type OrderPO struct {
	ID         string          `gorm:"primaryKey;size:64"`
	CustomerID string          `gorm:"size:64;index;not null"`
	Status     string          `gorm:"size:20;not null"`
	Total      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Discount   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	AmountDue  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency   string          `gorm:"size:3;not null"`
	CouponCode string          `gorm:"size:64"`
	Version    int             `gorm:"default:0;not null"`
	CreatedAt  time.Time       `gorm:"index"`
	UpdatedAt  time.Time
}

// TableName Specify table name
func (OrderPO) TableName() string {
	return "orders"
}

// OrderItemPO Order item persistence object
type OrderItemPO struct {
	ID          string          `gorm:"primaryKey;size:64"`
	OrderID     string          `gorm:"size:64;index;not null"` // Only store ID, no GORM association
	Position    int             `gorm:"not null"`               // insertion order
	ProductID   string          `gorm:"size:64;not null"`
	ProductName string          `gorm:"size:255;not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency    string          `gorm:"size:3;not null"`
}

// TableName Specify table name
func (OrderItemPO) TableName() string {
	return "order_items"
}

// FromOrderDomain Convert domain model to persistence objects
func FromOrderDomain(o *order.Order) (*OrderPO, []OrderItemPO) {
	orderPO := &OrderPO{
		ID:         o.ID(),
		CustomerID: o.CustomerID(),
		Status:     string(o.Status()),
		Total:      o.Total().Amount(),
		Discount:   o.Discount().Amount(),
		AmountDue:  o.AmountDue().Amount(),
		Currency:   o.Total().Currency(),
		CouponCode: o.CouponCode(),
		Version:    o.Version(),
		CreatedAt:  o.CreatedAt(),
		UpdatedAt:  o.UpdatedAt(),
	}

	items := o.Items()
	itemPOs := make([]OrderItemPO, len(items))
	for i, item := range items {
		itemPOs[i] = OrderItemPO{
			ID:          item.ID(),
			OrderID:     o.ID(),
			Position:    i,
			ProductID:   item.ProductID(),
			ProductName: item.ProductName(),
			Quantity:    item.Quantity(),
			UnitPrice:   item.UnitPrice().Amount(),
			Subtotal:    item.Subtotal().Amount(),
			Currency:    item.UnitPrice().Currency(),
		}
	}

	return orderPO, itemPOs
}

// ToDomain Convert persistence object to domain model.
// itemPOs must already be sorted by Position.
func (po *OrderPO) ToDomain(itemPOs []OrderItemPO) *order.Order {
	items := make([]order.Item, len(itemPOs))
	for i, itemPO := range itemPOs {
		items[i] = itemPO.ToDomain()
	}

	return order.RebuildFromDTO(order.ReconstructionDTO{
		ID:         po.ID,
		CustomerID: po.CustomerID,
		Items:      items,
		Total:      shared.NewMoney(po.Total, po.Currency),
		Discount:   shared.NewMoney(po.Discount, po.Currency),
		AmountDue:  shared.NewMoney(po.AmountDue, po.Currency),
		CouponCode: po.CouponCode,
		Status:     order.Status(po.Status),
		Version:    po.Version,
		CreatedAt:  po.CreatedAt,
		UpdatedAt:  po.UpdatedAt,
	})
}

// ToDomain Convert an item row to the domain entity
func (po *OrderItemPO) ToDomain() order.Item {
	return order.RebuildItemFromDTO(order.ItemReconstructionDTO{
		ID:          po.ID,
		OrderID:     po.OrderID,
		ProductID:   po.ProductID,
		ProductName: po.ProductName,
		Quantity:    po.Quantity,
		UnitPrice:   shared.NewMoney(po.UnitPrice, po.Currency),
		Subtotal:    shared.NewMoney(po.Subtotal, po.Currency),
	})
}
