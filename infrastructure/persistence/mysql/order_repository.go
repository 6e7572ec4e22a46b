package mysql

import (
	"context"
	"errors"

	"storefront/domain/order"
	"storefront/infrastructure/persistence"
	"storefront/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

// OrderRepository MySQL/GORM implementation of order repository
// DDD principle: Repository is only responsible for persistence of aggregate roots, not event publishing
// GORM usage specification: Association features are prohibited to maintain DDD aggregate boundaries
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository Create order repository
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// getDB returns the transaction from context if available, otherwise the default db
func (r *OrderRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// Save inserts a new order with its items, or updates the status of an
// existing one under an optimistic version check. Items are immutable and
// never rewritten.
// When called standalone, it creates its own transaction for atomicity
func (r *OrderRepository) Save(ctx context.Context, o *order.Order) error {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return r.saveWithTx(tx, o)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.saveWithTx(tx, o)
	})
}

func (r *OrderRepository) saveWithTx(tx *gorm.DB, o *order.Order) error {
	orderPO, itemPOs := po.FromOrderDomain(o)

	if o.IsNew() {
		if err := tx.Create(orderPO).Error; err != nil {
			return err
		}
		if len(itemPOs) > 0 {
			if err := tx.Create(&itemPOs).Error; err != nil {
				return err
			}
		}
		o.MarkPersisted()
		return nil
	}

	result := tx.Model(&po.OrderPO{}).
		Where("id = ? AND version = ?", o.ID(), o.Version()).
		Updates(map[string]interface{}{
			"status":     string(o.Status()),
			"version":    gorm.Expr("version + 1"),
			"updated_at": o.UpdatedAt(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return order.NewConcurrentModificationError(o.ID())
	}
	o.MarkPersisted()
	return nil
}

// FindByID Find order by ID
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	db := r.getDB(ctx)
	var orderPO po.OrderPO

	if err := db.Where("id = ?", id).First(&orderPO).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.NewOrderNotFoundError(id)
		}
		return nil, err
	}

	// Manually query order items (no Preload, to keep aggregate boundaries clear)
	itemPOs, err := r.findItems(db, []string{id})
	if err != nil {
		return nil, err
	}
	return orderPO.ToDomain(itemPOs[id]), nil
}

// FindByCustomerID Find the customer's orders, newest first
func (r *OrderRepository) FindByCustomerID(ctx context.Context, customerID string) ([]*order.Order, error) {
	db := r.getDB(ctx)
	var orderPOs []po.OrderPO

	if err := db.Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&orderPOs).Error; err != nil {
		return nil, err
	}
	if len(orderPOs) == 0 {
		return []*order.Order{}, nil
	}

	ids := make([]string, len(orderPOs))
	for i := range orderPOs {
		ids[i] = orderPOs[i].ID
	}
	itemsByOrder, err := r.findItems(db, ids)
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, len(orderPOs))
	for i := range orderPOs {
		orders[i] = orderPOs[i].ToDomain(itemsByOrder[orderPOs[i].ID])
	}
	return orders, nil
}

// findItems batch-loads items for several orders in one query
func (r *OrderRepository) findItems(db *gorm.DB, orderIDs []string) (map[string][]po.OrderItemPO, error) {
	var itemPOs []po.OrderItemPO
	if err := db.Where("order_id IN ?", orderIDs).
		Order("order_id").Order("position ASC").
		Find(&itemPOs).Error; err != nil {
		return nil, err
	}
	byOrder := make(map[string][]po.OrderItemPO, len(orderIDs))
	for _, item := range itemPOs {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}
	return byOrder, nil
}

// FindItemByID returns an order item together with its order
func (r *OrderRepository) FindItemByID(ctx context.Context, itemID string) (*order.Order, order.Item, error) {
	db := r.getDB(ctx)
	var itemPO po.OrderItemPO
	if err := db.Where("id = ?", itemID).First(&itemPO).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.Item{}, order.NewItemNotFoundError(itemID)
		}
		return nil, order.Item{}, err
	}

	o, err := r.FindByID(ctx, itemPO.OrderID)
	if err != nil {
		return nil, order.Item{}, err
	}
	item, ok := o.Item(itemID)
	if !ok {
		return nil, order.Item{}, order.NewItemNotFoundError(itemID)
	}
	return o, item, nil
}

// Delete hard-deletes the order and its items. The audit trail is the
// order.deleted event written to the outbox in the same transaction.
func (r *OrderRepository) Delete(ctx context.Context, o *order.Order) error {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return r.deleteWithTx(tx, o)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.deleteWithTx(tx, o)
	})
}

func (r *OrderRepository) deleteWithTx(tx *gorm.DB, o *order.Order) error {
	if err := tx.Where("order_id = ?", o.ID()).Delete(&po.OrderItemPO{}).Error; err != nil {
		return err
	}
	result := tx.Where("id = ? AND version = ?", o.ID(), o.Version()).Delete(&po.OrderPO{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return order.NewConcurrentModificationError(o.ID())
	}
	return nil
}

// Compile-time interface implementation check
var _ order.Repository = (*OrderRepository)(nil)
