package pricing

import (
	"context"
	"strings"
	"time"

	"storefront/domain/shared"

	"github.com/shopspring/decimal"
)

// Kind coupon discount kind
type Kind string

const (
	KindPercentage Kind = "percentage" // Value is a percentage of the subtotal
	KindFixed      Kind = "fixed"      // Value is an amount, capped at the subtotal
)

// Coupon a discount rule keyed by a case-insensitive code.
type Coupon struct {
	Code        string
	Kind        Kind
	Value       decimal.Decimal
	MinSubtotal decimal.Decimal // zero means no minimum
	ExpiresAt   *time.Time
	Description string
}

// NormalizeCode canonical form used for lookups.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate checks the coupon definition itself, not its applicability.
func (c Coupon) Validate() error {
	if NormalizeCode(c.Code) == "" {
		return shared.NewValidationError("coupon", "code", "coupon code is required")
	}
	switch c.Kind {
	case KindPercentage:
		if !c.Value.IsPositive() || c.Value.GreaterThan(decimal.NewFromInt(100)) {
			return shared.NewValidationError("coupon", "value", "percentage must be in (0, 100]")
		}
	case KindFixed:
		if !c.Value.IsPositive() {
			return shared.NewValidationError("coupon", "value", "fixed discount must be positive")
		}
	default:
		return shared.NewValidationError("coupon", "kind", "unknown coupon kind "+string(c.Kind))
	}
	if c.MinSubtotal.IsNegative() {
		return shared.NewValidationError("coupon", "min_subtotal", "minimum subtotal cannot be negative")
	}
	return nil
}

// Discount computes the discount for subtotal. The result never exceeds subtotal.
func (c Coupon) Discount(subtotal shared.Money) shared.Money {
	var discount shared.Money
	switch c.Kind {
	case KindPercentage:
		discount = subtotal.Percent(c.Value)
	case KindFixed:
		discount = shared.NewMoney(c.Value, subtotal.Currency())
	default:
		return shared.ZeroMoney(subtotal.Currency())
	}
	if capped, err := discount.Min(subtotal); err == nil {
		discount = capped
	}
	return discount.ClampZero()
}

// CouponBook coupon policy source. Implementations return ErrCouponNotFound
// for unknown codes; any other error is an infrastructure failure.
type CouponBook interface {
	FindCoupon(ctx context.Context, code string) (*Coupon, error)
}

// StaticCouponBook in-memory coupon table, typically loaded from config.
type StaticCouponBook struct {
	coupons map[string]Coupon
}

// NewStaticCouponBook validates and indexes coupons by normalized code.
func NewStaticCouponBook(coupons ...Coupon) (*StaticCouponBook, error) {
	book := &StaticCouponBook{coupons: make(map[string]Coupon, len(coupons))}
	for _, c := range coupons {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		c.Code = NormalizeCode(c.Code)
		book.coupons[c.Code] = c
	}
	return book, nil
}

func (b *StaticCouponBook) FindCoupon(_ context.Context, code string) (*Coupon, error) {
	c, ok := b.coupons[NormalizeCode(code)]
	if !ok {
		return nil, ErrCouponNotFound
	}
	return &c, nil
}

// DefaultCoupons the storefront's built-in table: SAVE20 for 20% off.
func DefaultCoupons() []Coupon {
	return []Coupon{{
		Code:        "SAVE20",
		Kind:        KindPercentage,
		Value:       decimal.NewFromInt(20),
		Description: "20% off the selected items",
	}}
}
