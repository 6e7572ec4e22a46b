package memory

import (
	"context"
	"sort"

	"storefront/domain/order"
)

// OrderRepository order storage over the store.
type OrderRepository struct {
	store *Store
}

// NewOrderRepository creates an order repository over store.
func NewOrderRepository(store *Store) *OrderRepository {
	return &OrderRepository{store: store}
}

func toOrderDTO(o *order.Order, version int) order.ReconstructionDTO {
	return order.ReconstructionDTO{
		ID:         o.ID(),
		CustomerID: o.CustomerID(),
		Items:      o.Items(),
		Total:      o.Total(),
		Discount:   o.Discount(),
		AmountDue:  o.AmountDue(),
		CouponCode: o.CouponCode(),
		Status:     o.Status(),
		Version:    version,
		CreatedAt:  o.CreatedAt(),
		UpdatedAt:  o.UpdatedAt(),
	}
}

// Save inserts a new order or updates an existing one under a version check.
func (r *OrderRepository) Save(ctx context.Context, o *order.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	version := 0
	if !o.IsNew() {
		stored, ok := r.store.orders[o.ID()]
		if !ok {
			return order.NewOrderNotFoundError(o.ID())
		}
		if stored.Version != o.Version() {
			return order.NewConcurrentModificationError(o.ID())
		}
		version = stored.Version + 1
	}
	r.store.orders[o.ID()] = toOrderDTO(o, version)
	o.MarkPersisted()
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	dto, ok := r.store.orders[id]
	if !ok {
		return nil, order.NewOrderNotFoundError(id)
	}
	return order.RebuildFromDTO(dto), nil
}

// FindByCustomerID newest first.
func (r *OrderRepository) FindByCustomerID(ctx context.Context, customerID string) ([]*order.Order, error) {
	r.store.mu.RLock()
	var dtos []order.ReconstructionDTO
	for _, dto := range r.store.orders {
		if dto.CustomerID == customerID {
			dtos = append(dtos, dto)
		}
	}
	r.store.mu.RUnlock()

	sort.Slice(dtos, func(i, j int) bool {
		if dtos[i].CreatedAt.Equal(dtos[j].CreatedAt) {
			return dtos[i].ID > dtos[j].ID
		}
		return dtos[i].CreatedAt.After(dtos[j].CreatedAt)
	})
	orders := make([]*order.Order, len(dtos))
	for i, dto := range dtos {
		orders[i] = order.RebuildFromDTO(dto)
	}
	return orders, nil
}

func (r *OrderRepository) FindItemByID(ctx context.Context, itemID string) (*order.Order, order.Item, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, dto := range r.store.orders {
		for _, item := range dto.Items {
			if item.ID() == itemID {
				return order.RebuildFromDTO(dto), item, nil
			}
		}
	}
	return nil, order.Item{}, order.NewItemNotFoundError(itemID)
}

// Delete removes the order under a version check.
func (r *OrderRepository) Delete(ctx context.Context, o *order.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.store.orders[o.ID()]
	if !ok {
		return order.NewOrderNotFoundError(o.ID())
	}
	if stored.Version != o.Version() {
		return order.NewConcurrentModificationError(o.ID())
	}
	delete(r.store.orders, o.ID())
	return nil
}

var _ order.Repository = (*OrderRepository)(nil)
