package cmd

import (
	"testing"

	"storefront/config"
	"storefront/domain/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCouponsFromConfig(t *testing.T) {
	coupons, err := CouponsFromConfig([]config.CouponConfig{
		{Code: "save20", Kind: "percentage", Value: "20"},
		{Code: "TENOFF", Kind: "fixed", Value: "10.00", MinSubtotal: "50", ExpiresAt: "2030-01-01T00:00:00Z"},
	})
	require.NoError(t, err)
	require.Len(t, coupons, 2)

	assert.Equal(t, "SAVE20", coupons[0].Code)
	assert.Equal(t, pricing.KindPercentage, coupons[0].Kind)
	assert.True(t, coupons[0].MinSubtotal.IsZero())
	assert.Nil(t, coupons[0].ExpiresAt)

	assert.Equal(t, "50", coupons[1].MinSubtotal.String())
	require.NotNil(t, coupons[1].ExpiresAt)
	assert.Equal(t, 2030, coupons[1].ExpiresAt.Year())
}

func TestCouponsFromConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		row  config.CouponConfig
	}{
		{"bad value", config.CouponConfig{Code: "X", Kind: "fixed", Value: "ten"}},
		{"bad min subtotal", config.CouponConfig{Code: "X", Kind: "fixed", Value: "1", MinSubtotal: "?"}},
		{"bad expiry", config.CouponConfig{Code: "X", Kind: "fixed", Value: "1", ExpiresAt: "tomorrow"}},
		{"unknown kind", config.CouponConfig{Code: "X", Kind: "bogo", Value: "1"}},
		{"percentage over 100", config.CouponConfig{Code: "X", Kind: "percentage", Value: "150"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CouponsFromConfig([]config.CouponConfig{tt.row})
			assert.Error(t, err)
		})
	}
}
