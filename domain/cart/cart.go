/*
Package cart Cart aggregate.

A Cart belongs to exactly one customer and owns an insertion-ordered list of
line items. Invariants enforced here:
  - at most one line item per product; repeated adds increase the quantity
  - the unit price is snapshotted on the first add and never refreshed
  - every quantity is >= 1; zero or negative is an error, not a removal

Carts are created lazily and never deleted, only emptied.
*/
package cart

import (
	"fmt"
	"math"
	"time"

	"storefront/domain/catalog"
	"storefront/domain/shared"

	"github.com/google/uuid"
)

// MaxQuantity upper bound of a line quantity, fits a signed 32-bit column.
const MaxQuantity = math.MaxInt32

// Cart aggregate root
type Cart struct {
	id         string
	customerID string
	items      []LineItem
	version    int
	createdAt  time.Time
	updatedAt  time.Time

	events []shared.DomainEvent

	// dirty tracking, consumed by the repository on save
	removedItems []string
	isNew        bool
}

// LineItem entity inside the cart aggregate
type LineItem struct {
	id        string
	cartID    string
	productID string
	quantity  int
	unitPrice shared.Money
	addedAt   time.Time
}

// NewCart creates an empty cart for a customer.
func NewCart(customerID string) (*Cart, error) {
	if customerID == "" {
		return nil, shared.NewValidationError("cart", "customer_id", "customer id is required")
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate cart ID: %w", err)
	}
	now := time.Now()
	return &Cart{
		id:         id.String(),
		customerID: customerID,
		createdAt:  now,
		updatedAt:  now,
		isNew:      true,
	}, nil
}

// ReconstructionDTO repository-only rebuild input
type ReconstructionDTO struct {
	ID         string
	CustomerID string
	Items      []LineItem
	Version    int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// RebuildFromDTO rebuilds a persisted cart. Repository use only.
func RebuildFromDTO(dto ReconstructionDTO) *Cart {
	items := make([]LineItem, len(dto.Items))
	copy(items, dto.Items)
	return &Cart{
		id:         dto.ID,
		customerID: dto.CustomerID,
		items:      items,
		version:    dto.Version,
		createdAt:  dto.CreatedAt,
		updatedAt:  dto.UpdatedAt,
	}
}

// ItemReconstructionDTO repository-only rebuild input
type ItemReconstructionDTO struct {
	ID        string
	CartID    string
	ProductID string
	Quantity  int
	UnitPrice shared.Money
	AddedAt   time.Time
}

// RebuildItemFromDTO rebuilds a persisted line item.
func RebuildItemFromDTO(dto ItemReconstructionDTO) LineItem {
	return LineItem{
		id:        dto.ID,
		cartID:    dto.CartID,
		productID: dto.ProductID,
		quantity:  dto.Quantity,
		unitPrice: dto.UnitPrice,
		addedAt:   dto.AddedAt,
	}
}

// ============================================================================
// Behaviour
// ============================================================================

// AddItem adds quantity units of product. An existing line for the same
// product is incremented and keeps its original price snapshot.
func (c *Cart) AddItem(product *catalog.Product, quantity int) (LineItem, error) {
	if err := validateQuantity(quantity); err != nil {
		return LineItem{}, err
	}
	if product == nil || product.ID == "" {
		return LineItem{}, shared.NewValidationError("cart", "product_id", "product is required")
	}

	for i := range c.items {
		if c.items[i].productID != product.ID {
			continue
		}
		if c.items[i].quantity > MaxQuantity-quantity {
			return LineItem{}, NewInvalidQuantityError(quantity)
		}
		c.items[i].quantity += quantity
		c.touch()
		c.events = append(c.events, NewItemQuantityChangedEvent(c.id, c.items[i].id, c.items[i].quantity))
		return c.items[i], nil
	}

	id, err := uuid.NewV7()
	if err != nil {
		return LineItem{}, fmt.Errorf("failed to generate line item ID: %w", err)
	}
	item := LineItem{
		id:        id.String(),
		cartID:    c.id,
		productID: product.ID,
		quantity:  quantity,
		unitPrice: product.Price,
		addedAt:   time.Now(),
	}
	c.items = append(c.items, item)
	c.touch()
	c.events = append(c.events, NewItemAddedEvent(c.id, item.id, item.productID, quantity, item.unitPrice))
	return item, nil
}

// UpdateQuantity sets the quantity of an existing line.
// Removal is a separate operation; quantity <= 0 is rejected and the item is left unchanged.
func (c *Cart) UpdateQuantity(itemID string, quantity int) (LineItem, error) {
	if err := validateQuantity(quantity); err != nil {
		return LineItem{}, err
	}
	idx := c.indexOf(itemID)
	if idx < 0 {
		return LineItem{}, NewItemNotFoundError(itemID)
	}
	c.items[idx].quantity = quantity
	c.touch()
	c.events = append(c.events, NewItemQuantityChangedEvent(c.id, itemID, quantity))
	return c.items[idx], nil
}

// RemoveItem deletes a line. Removing a missing line is an error.
func (c *Cart) RemoveItem(itemID string) (LineItem, error) {
	idx := c.indexOf(itemID)
	if idx < 0 {
		return LineItem{}, NewItemNotFoundError(itemID)
	}
	removed := c.items[idx]
	c.items = append(c.items[:idx], c.items[idx+1:]...)
	if !c.isNew {
		c.removedItems = append(c.removedItems, itemID)
	}
	c.touch()
	c.events = append(c.events, NewItemRemovedEvent(c.id, removed.id, removed.productID, removed.quantity))
	return removed, nil
}

// Select returns the lines with the given ids, in cart order.
// An empty id list selects every line.
func (c *Cart) Select(itemIDs []string) ([]LineItem, error) {
	if len(itemIDs) == 0 {
		return c.Items(), nil
	}
	wanted := make(map[string]bool, len(itemIDs))
	for _, id := range itemIDs {
		if c.indexOf(id) < 0 {
			return nil, NewItemNotFoundError(id)
		}
		wanted[id] = true
	}
	selected := make([]LineItem, 0, len(wanted))
	for _, item := range c.items {
		if wanted[item.id] {
			selected = append(selected, item)
		}
	}
	return selected, nil
}

// Item returns the line with the given id.
func (c *Cart) Item(itemID string) (LineItem, bool) {
	idx := c.indexOf(itemID)
	if idx < 0 {
		return LineItem{}, false
	}
	return c.items[idx], true
}

// ItemByProduct returns the line holding productID.
func (c *Cart) ItemByProduct(productID string) (LineItem, bool) {
	for _, item := range c.items {
		if item.productID == productID {
			return item, true
		}
	}
	return LineItem{}, false
}

func (c *Cart) indexOf(itemID string) int {
	for i, item := range c.items {
		if item.id == itemID {
			return i
		}
	}
	return -1
}

func (c *Cart) touch() {
	c.updatedAt = time.Now()
}

func validateQuantity(quantity int) error {
	if quantity <= 0 || quantity > MaxQuantity {
		return NewInvalidQuantityError(quantity)
	}
	return nil
}

// ============================================================================
// Getters
// ============================================================================

func (c *Cart) ID() string           { return c.id }
func (c *Cart) CustomerID() string   { return c.customerID }
func (c *Cart) Version() int         { return c.version }
func (c *Cart) CreatedAt() time.Time { return c.createdAt }
func (c *Cart) UpdatedAt() time.Time { return c.updatedAt }
func (c *Cart) Len() int             { return len(c.items) }

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []LineItem {
	items := make([]LineItem, len(c.items))
	copy(items, c.items)
	return items
}

// IsNew true until the repository persisted the cart once.
func (c *Cart) IsNew() bool { return c.isNew }

// RemovedItems ids removed since load, for the repository to delete.
func (c *Cart) RemovedItems() []string {
	ids := make([]string, len(c.removedItems))
	copy(ids, c.removedItems)
	return ids
}

// MarkPersisted clears dirty tracking after a save. Updates bump the
// version the same way the stored row does; the first insert keeps 0.
func (c *Cart) MarkPersisted() {
	if !c.isNew {
		c.version++
	}
	c.removedItems = nil
	c.isNew = false
}

// PullEvents returns and clears recorded events.
func (c *Cart) PullEvents() []shared.DomainEvent {
	events := c.events
	c.events = nil
	return events
}

func (i LineItem) ID() string              { return i.id }
func (i LineItem) CartID() string          { return i.cartID }
func (i LineItem) ProductID() string       { return i.productID }
func (i LineItem) Quantity() int           { return i.quantity }
func (i LineItem) UnitPrice() shared.Money { return i.unitPrice }
func (i LineItem) AddedAt() time.Time      { return i.addedAt }

// Subtotal unit price × quantity.
func (i LineItem) Subtotal() shared.Money { return i.unitPrice.Multiply(i.quantity) }

var _ shared.AggregateRoot = (*Cart)(nil)
