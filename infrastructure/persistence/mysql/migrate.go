package mysql

import (
	"context"
	"fmt"

	"storefront/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

// Models every table owned or read by the service.
func Models() []interface{} {
	return []interface{}{
		&po.ProductPO{},
		&po.CartPO{},
		&po.CartItemPO{},
		&po.OrderPO{},
		&po.OrderItemPO{},
		&po.CouponPO{},
		&po.OutboxEventPO{},
	}
}

// AutoMigrate creates or extends the schema. It never drops columns.
func AutoMigrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
