/*
Package order Order subdomain.

An Order is the immutable snapshot of what a customer bought: items carry
the unit price resolved at placement and never change afterwards. Only the
status moves, along the lifecycle in status.go.

Invariants:
  - an order has at least one item, every quantity >= 1
  - Total == Σ(unit price × quantity), independent of any discount
  - AmountDue == max(0, Total - Discount)
*/
package order

import (
	"fmt"
	"time"

	"storefront/domain/shared"

	"github.com/google/uuid"
)

// Order aggregate root
type Order struct {
	id         string
	customerID string
	items      []Item
	total      shared.Money
	discount   shared.Money
	amountDue  shared.Money
	couponCode string
	status     Status
	version    int // optimistic lock version
	createdAt  time.Time
	updatedAt  time.Time

	events []shared.DomainEvent
	isNew  bool
}

// Item order line, immutable after creation
type Item struct {
	id          string
	orderID     string
	productID   string
	productName string
	quantity    int
	unitPrice   shared.Money
	subtotal    shared.Money
}

// ItemRequest a resolved line to materialize
type ItemRequest struct {
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   shared.Money
}

// Discount the coupon outcome snapshotted into the order
type Discount struct {
	CouponCode string
	Amount     shared.Money
}

// ============================================================================
// Factory
// ============================================================================

// NewOrder materializes an order in status pending.
func NewOrder(customerID string, requests []ItemRequest, discount Discount) (*Order, error) {
	if customerID == "" {
		return nil, shared.NewValidationError("order", "customer_id", "customer id is required")
	}
	if len(requests) == 0 {
		return nil, NewEmptyOrderError()
	}

	orderID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate order ID: %w", err)
	}

	currency := requests[0].UnitPrice.Currency()
	total := shared.ZeroMoney(currency)
	items := make([]Item, len(requests))
	for i, req := range requests {
		if req.Quantity <= 0 || req.Quantity > MaxItemQuantity {
			return nil, NewInvalidQuantityError(req.ProductID, req.Quantity)
		}
		if req.UnitPrice.IsNegative() {
			return nil, shared.NewValidationError("order_item", "unit_price", "unit price cannot be negative")
		}

		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("failed to generate order item ID: %w", err)
		}
		subtotal := req.UnitPrice.Multiply(req.Quantity)
		if total, err = total.Add(subtotal); err != nil {
			return nil, err
		}
		items[i] = Item{
			id:          id.String(),
			orderID:     orderID.String(),
			productID:   req.ProductID,
			productName: req.ProductName,
			quantity:    req.Quantity,
			unitPrice:   req.UnitPrice,
			subtotal:    subtotal,
		}
	}

	discountAmount := discount.Amount
	if discountAmount.Currency() == "" {
		discountAmount = shared.ZeroMoney(currency)
	}
	if discountAmount.IsNegative() {
		return nil, shared.NewValidationError("order", "discount", "discount cannot be negative")
	}
	due, err := total.Sub(discountAmount)
	if err != nil {
		return nil, err
	}
	if discountAmount, err = discountAmount.Min(total); err != nil {
		return nil, err
	}

	now := time.Now()
	o := &Order{
		id:         orderID.String(),
		customerID: customerID,
		items:      items,
		total:      total,
		discount:   discountAmount,
		amountDue:  due.ClampZero(),
		couponCode: discount.CouponCode,
		status:     StatusPending,
		createdAt:  now,
		updatedAt:  now,
		isNew:      true,
	}
	o.events = append(o.events, NewOrderPlacedEvent(o))
	return o, nil
}

// ============================================================================
// Reconstruction - repository use only
// ============================================================================

// ReconstructionDTO rebuild input
type ReconstructionDTO struct {
	ID         string
	CustomerID string
	Items      []Item
	Total      shared.Money
	Discount   shared.Money
	AmountDue  shared.Money
	CouponCode string
	Status     Status
	Version    int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// RebuildFromDTO reconstructs a persisted order.
func RebuildFromDTO(dto ReconstructionDTO) *Order {
	return &Order{
		id:         dto.ID,
		customerID: dto.CustomerID,
		items:      dto.Items,
		total:      dto.Total,
		discount:   dto.Discount,
		amountDue:  dto.AmountDue,
		couponCode: dto.CouponCode,
		status:     dto.Status,
		version:    dto.Version,
		createdAt:  dto.CreatedAt,
		updatedAt:  dto.UpdatedAt,
	}
}

// ItemReconstructionDTO rebuild input for an item
type ItemReconstructionDTO struct {
	ID          string
	OrderID     string
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   shared.Money
	Subtotal    shared.Money
}

// RebuildItemFromDTO reconstructs a persisted item.
func RebuildItemFromDTO(dto ItemReconstructionDTO) Item {
	return Item{
		id:          dto.ID,
		orderID:     dto.OrderID,
		productID:   dto.ProductID,
		productName: dto.ProductName,
		quantity:    dto.Quantity,
		unitPrice:   dto.UnitPrice,
		subtotal:    dto.Subtotal,
	}
}

// ============================================================================
// Behaviour
// ============================================================================
//
// State changes never bump the version directly; the repository does that
// after a successful save (MarkPersisted).

// TransitionTo moves the order to target following the lifecycle table.
// Cancellation is routed through Cancel.
func (o *Order) TransitionTo(target Status) error {
	if target == StatusCancelled {
		return o.Cancel("")
	}
	if !o.status.CanTransitionTo(target) {
		return NewInvalidTransitionError(o.status, target)
	}
	from := o.status
	o.status = target
	o.updatedAt = time.Now()
	o.events = append(o.events, NewOrderStatusChangedEvent(o.id, from, target))
	return nil
}

// Cancel cancels a pending or paid order.
func (o *Order) Cancel(reason string) error {
	if !o.status.CanTransitionTo(StatusCancelled) {
		return NewInvalidTransitionError(o.status, StatusCancelled)
	}
	from := o.status
	o.status = StatusCancelled
	o.updatedAt = time.Now()
	o.events = append(o.events, NewOrderCancelledEvent(o.id, from, reason))
	return nil
}

// MarkDeleted records the audit event for a hard delete.
func (o *Order) MarkDeleted(deletedBy string) {
	o.events = append(o.events, NewOrderDeletedEvent(o, deletedBy))
}

// Item returns the item with the given id.
func (o *Order) Item(itemID string) (Item, bool) {
	for _, item := range o.items {
		if item.id == itemID {
			return item, true
		}
	}
	return Item{}, false
}

// ============================================================================
// Getters
// ============================================================================

func (o *Order) ID() string              { return o.id }
func (o *Order) CustomerID() string      { return o.customerID }
func (o *Order) Total() shared.Money     { return o.total }
func (o *Order) Discount() shared.Money  { return o.discount }
func (o *Order) AmountDue() shared.Money { return o.amountDue }
func (o *Order) CouponCode() string      { return o.couponCode }
func (o *Order) Status() Status          { return o.status }
func (o *Order) Version() int            { return o.version }
func (o *Order) CreatedAt() time.Time    { return o.createdAt }
func (o *Order) UpdatedAt() time.Time    { return o.updatedAt }

// Items returns a copy of the items in insertion order.
func (o *Order) Items() []Item {
	items := make([]Item, len(o.items))
	copy(items, o.items)
	return items
}

// IsNew true until the first successful save.
func (o *Order) IsNew() bool { return o.isNew }

// MarkPersisted called by the repository after a successful save.
// Updates bump the version like the stored row; the first insert keeps 0.
func (o *Order) MarkPersisted() {
	if !o.isNew {
		o.version++
	}
	o.isNew = false
}

// PullEvents returns and clears recorded events.
func (o *Order) PullEvents() []shared.DomainEvent {
	events := o.events
	o.events = nil
	return events
}

func (i Item) ID() string              { return i.id }
func (i Item) OrderID() string         { return i.orderID }
func (i Item) ProductID() string       { return i.productID }
func (i Item) ProductName() string     { return i.productName }
func (i Item) Quantity() int           { return i.quantity }
func (i Item) UnitPrice() shared.Money { return i.unitPrice }
func (i Item) Subtotal() shared.Money  { return i.subtotal }

var _ shared.AggregateRoot = (*Order)(nil)
