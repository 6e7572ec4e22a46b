package po

import (
	"time"

	"storefront/domain/pricing"

	"github.com/shopspring/decimal"
)

// CouponPO coupon table row; Code is stored upper-cased
type CouponPO struct {
	Code        string          `gorm:"primaryKey;size:64"`
	Kind        string          `gorm:"size:16;not null"`
	Value       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MinSubtotal decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ExpiresAt   *time.Time
	Description string `gorm:"size:255"`
	Active      bool   `gorm:"not null;default:true"`
}

// TableName Specify table name
func (CouponPO) TableName() string {
	return "coupons"
}

// ToDomain Convert to the pricing coupon
func (po *CouponPO) ToDomain() *pricing.Coupon {
	return &pricing.Coupon{
		Code:        po.Code,
		Kind:        pricing.Kind(po.Kind),
		Value:       po.Value,
		MinSubtotal: po.MinSubtotal,
		ExpiresAt:   po.ExpiresAt,
		Description: po.Description,
	}
}

// FromCouponDomain Convert a coupon definition
func FromCouponDomain(c pricing.Coupon) *CouponPO {
	return &CouponPO{
		Code:        pricing.NormalizeCode(c.Code),
		Kind:        string(c.Kind),
		Value:       c.Value,
		MinSubtotal: c.MinSubtotal,
		ExpiresAt:   c.ExpiresAt,
		Description: c.Description,
		Active:      true,
	}
}
