package mysql

import (
	"context"
	"errors"

	"storefront/domain/pricing"
	"storefront/infrastructure/persistence"
	"storefront/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CouponRepository coupon table backed pricing.CouponBook.
type CouponRepository struct {
	db *gorm.DB
}

// NewCouponRepository Create coupon repository
func NewCouponRepository(db *gorm.DB) *CouponRepository {
	return &CouponRepository{db: db}
}

func (r *CouponRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// FindCoupon looks up an active coupon by normalized code.
func (r *CouponRepository) FindCoupon(ctx context.Context, code string) (*pricing.Coupon, error) {
	var couponPO po.CouponPO
	err := r.getDB(ctx).
		Where("code = ? AND active = ?", pricing.NormalizeCode(code), true).
		First(&couponPO).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pricing.ErrCouponNotFound
		}
		return nil, err
	}
	return couponPO.ToDomain(), nil
}

// Upsert inserts or replaces coupon definitions; used to seed the table from config.
func (r *CouponRepository) Upsert(ctx context.Context, coupons ...pricing.Coupon) error {
	if len(coupons) == 0 {
		return nil
	}
	rows := make([]*po.CouponPO, 0, len(coupons))
	for _, c := range coupons {
		if err := c.Validate(); err != nil {
			return err
		}
		rows = append(rows, po.FromCouponDomain(c))
	}
	return r.getDB(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error
}

// Compile-time interface implementation check
var _ pricing.CouponBook = (*CouponRepository)(nil)
