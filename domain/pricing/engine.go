/*
Package pricing computes cart and order totals.

The engine is pure with respect to its inputs: prices come in on the lines,
coupon policy comes from an injected CouponBook. The only invariant it
enforces is total = max(0, subtotal - discount).
*/
package pricing

import (
	"context"
	"errors"
	"time"

	"storefront/domain/shared"
)

// Line a priced quantity; lines with Selected=false do not contribute.
type Line struct {
	Price    shared.Money
	Quantity int
	Selected bool
}

// Quote pricing result.
type Quote struct {
	Subtotal   shared.Money `json:"subtotal"`
	Discount   shared.Money `json:"discount"`
	Total      shared.Money `json:"total"`
	CouponCode string       `json:"coupon_code,omitempty"`
	Applied    bool         `json:"coupon_applied"`
}

// Engine pricing engine.
type Engine struct {
	coupons  CouponBook
	currency string
	now      func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the clock used for coupon expiry.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an engine pricing in currency.
func NewEngine(coupons CouponBook, currency string, opts ...Option) *Engine {
	e := &Engine{coupons: coupons, currency: currency, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Currency the engine's pricing currency.
func (e *Engine) Currency() string { return e.currency }

// ComputeSubtotal sums price × quantity over the selected lines.
func (e *Engine) ComputeSubtotal(lines []Line) (shared.Money, error) {
	subtotal := shared.ZeroMoney(e.currency)
	for _, line := range lines {
		if !line.Selected {
			continue
		}
		var err error
		subtotal, err = subtotal.Add(line.Price.Multiply(line.Quantity))
		if err != nil {
			return shared.Money{}, err
		}
	}
	return subtotal, nil
}

// ApplyCoupon applies code to subtotal.
//
// An empty code yields the undiscounted quote and no error. An unknown,
// expired or inapplicable code yields the undiscounted quote together with
// ErrInvalidCoupon, so callers can still render totals.
func (e *Engine) ApplyCoupon(ctx context.Context, subtotal shared.Money, code string) (Quote, error) {
	quote := Quote{
		Subtotal: subtotal,
		Discount: shared.ZeroMoney(subtotal.Currency()),
		Total:    subtotal.ClampZero(),
	}

	normalized := NormalizeCode(code)
	if normalized == "" {
		return quote, nil
	}
	quote.CouponCode = normalized

	if e.coupons == nil {
		return quote, NewInvalidCouponError(normalized, "is not recognized")
	}
	coupon, err := e.coupons.FindCoupon(ctx, normalized)
	if err != nil {
		if errors.Is(err, ErrCouponNotFound) {
			return quote, NewInvalidCouponError(normalized, "is not recognized")
		}
		return quote, err
	}
	if coupon.ExpiresAt != nil && !e.now().Before(*coupon.ExpiresAt) {
		return quote, NewInvalidCouponError(normalized, "has expired")
	}
	if subtotal.Amount().LessThan(coupon.MinSubtotal) {
		return quote, NewInvalidCouponError(normalized, "requires a subtotal of at least "+coupon.MinSubtotal.StringFixed(shared.MoneyScale))
	}

	discount := coupon.Discount(subtotal)
	total, err := subtotal.Sub(discount)
	if err != nil {
		return quote, err
	}
	quote.Discount = discount
	quote.Total = total.ClampZero()
	quote.Applied = true
	return quote, nil
}

// Price is ComputeSubtotal followed by ApplyCoupon.
func (e *Engine) Price(ctx context.Context, lines []Line, code string) (Quote, error) {
	subtotal, err := e.ComputeSubtotal(lines)
	if err != nil {
		return Quote{}, err
	}
	return e.ApplyCoupon(ctx, subtotal, code)
}
