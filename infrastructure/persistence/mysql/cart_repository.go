package mysql

import (
	"context"
	"errors"

	"storefront/domain/cart"
	"storefront/domain/shared"
	"storefront/infrastructure/persistence"
	"storefront/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository MySQL/GORM implementation of the cart repository.
// GORM associations are not used; items are loaded and written explicitly.
type CartRepository struct {
	db *gorm.DB
}

// NewCartRepository Create cart repository
func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

// getDB returns the transaction from context if available, otherwise the default db
func (r *CartRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// FindByCustomerID loads the customer's cart without locking.
func (r *CartRepository) FindByCustomerID(ctx context.Context, customerID string) (*cart.Cart, error) {
	return r.findByCustomerID(ctx, r.getDB(ctx), customerID)
}

// LockByCustomerID loads the customer's cart with SELECT ... FOR UPDATE.
// Outside a transaction the lock is released immediately.
func (r *CartRepository) LockByCustomerID(ctx context.Context, customerID string) (*cart.Cart, error) {
	return r.findByCustomerID(ctx, r.getDB(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), customerID)
}

func (r *CartRepository) findByCustomerID(ctx context.Context, db *gorm.DB, customerID string) (*cart.Cart, error) {
	var cartPO po.CartPO
	if err := db.Where("customer_id = ?", customerID).First(&cartPO).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cart.NewCartNotFoundError(customerID)
		}
		return nil, err
	}
	return r.loadItems(ctx, &cartPO)
}

// LockByItemID locks and loads the cart owning itemID.
func (r *CartRepository) LockByItemID(ctx context.Context, itemID string) (*cart.Cart, error) {
	db := r.getDB(ctx)

	var itemPO po.CartItemPO
	if err := db.Select("cart_id").Where("id = ?", itemID).First(&itemPO).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cart.NewItemNotFoundError(itemID)
		}
		return nil, err
	}

	var cartPO po.CartPO
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", itemPO.CartID).
		First(&cartPO).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cart.NewItemNotFoundError(itemID)
		}
		return nil, err
	}
	return r.loadItems(ctx, &cartPO)
}

func (r *CartRepository) loadItems(ctx context.Context, cartPO *po.CartPO) (*cart.Cart, error) {
	var itemPOs []po.CartItemPO
	if err := r.getDB(ctx).
		Where("cart_id = ?", cartPO.ID).
		Order("added_at ASC").Order("id ASC").
		Find(&itemPOs).Error; err != nil {
		return nil, err
	}
	return cartPO.ToDomain(itemPOs), nil
}

// Save writes the cart header, upserts the current items and deletes removed ones.
// When called standalone, it creates its own transaction for atomicity.
func (r *CartRepository) Save(ctx context.Context, c *cart.Cart) error {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return r.saveWithTx(tx, c)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.saveWithTx(tx, c)
	})
}

func (r *CartRepository) saveWithTx(tx *gorm.DB, c *cart.Cart) error {
	cartPO, itemPOs := po.FromCartDomain(c)

	if c.IsNew() {
		if err := tx.Create(cartPO).Error; err != nil {
			return err
		}
	} else {
		result := tx.Model(&po.CartPO{}).
			Where("id = ? AND version = ?", c.ID(), c.Version()).
			Updates(map[string]interface{}{
				"version":    gorm.Expr("version + 1"),
				"updated_at": c.UpdatedAt(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewConflictError("cart", "cart "+c.ID()+" was modified by another transaction")
		}
	}

	if removed := c.RemovedItems(); len(removed) > 0 {
		if err := tx.Where("cart_id = ? AND id IN ?", c.ID(), removed).Delete(&po.CartItemPO{}).Error; err != nil {
			return err
		}
	}

	if len(itemPOs) > 0 {
		// rows that already exist (by id or by cart/product) take the new quantity
		if err := tx.Clauses(clause.OnConflict{
			DoUpdates: clause.AssignmentColumns([]string{"quantity"}),
		}).Create(&itemPOs).Error; err != nil {
			return err
		}
	}

	c.MarkPersisted()
	return nil
}

// Compile-time interface implementation check
var _ cart.Repository = (*CartRepository)(nil)
