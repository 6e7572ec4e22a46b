package pricing

import (
	"errors"

	"storefront/domain/shared"
)

var (
	// ErrInvalidCoupon code unknown, expired, or not applicable to the subtotal
	ErrInvalidCoupon = errors.New("invalid coupon")

	// ErrCouponNotFound returned by CouponBook implementations for unknown codes
	ErrCouponNotFound = errors.New("coupon not found")
)

// NewInvalidCouponError creates an invalid-coupon error with a reason.
func NewInvalidCouponError(code, reason string) error {
	return shared.NewDomainError(ErrInvalidCoupon, "coupon", "coupon_code", "coupon "+code+" "+reason)
}
