package cmd

import (
	"fmt"
	"time"

	"storefront/config"
	"storefront/domain/pricing"

	"github.com/shopspring/decimal"
)

// CouponsFromConfig converts the pricing.coupons table. Amounts are strings
// in config so they stay exact.
func CouponsFromConfig(rows []config.CouponConfig) ([]pricing.Coupon, error) {
	coupons := make([]pricing.Coupon, 0, len(rows))
	for i, row := range rows {
		value, err := decimal.NewFromString(row.Value)
		if err != nil {
			return nil, fmt.Errorf("coupon %d (%s): invalid value %q: %w", i, row.Code, row.Value, err)
		}
		c := pricing.Coupon{
			Code:        pricing.NormalizeCode(row.Code),
			Kind:        pricing.Kind(row.Kind),
			Value:       value,
			Description: row.Description,
		}
		if row.MinSubtotal != "" {
			if c.MinSubtotal, err = decimal.NewFromString(row.MinSubtotal); err != nil {
				return nil, fmt.Errorf("coupon %d (%s): invalid min_subtotal %q: %w", i, row.Code, row.MinSubtotal, err)
			}
		}
		if row.ExpiresAt != "" {
			expires, err := time.Parse(time.RFC3339, row.ExpiresAt)
			if err != nil {
				return nil, fmt.Errorf("coupon %d (%s): invalid expires_at %q: %w", i, row.Code, row.ExpiresAt, err)
			}
			c.ExpiresAt = &expires
		}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("coupon %d (%s): %w", i, row.Code, err)
		}
		coupons = append(coupons, c)
	}
	return coupons, nil
}
