package shared

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// MoneyScale number of fractional digits kept for every amount.
const MoneyScale = 2

// Money value object - fixed-point amount with a currency code.
// Amounts are rounded to MoneyScale places on construction and after every
// multiplication, so repeated additions never drift.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// NewMoney creates a Money value rounded to two places.
func NewMoney(amount decimal.Decimal, currency string) Money {
	return Money{
		amount:   amount.Round(MoneyScale),
		currency: currency,
	}
}

// ParseMoney parses a decimal string such as "19.99".
func ParseMoney(amount, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, NewValidationError("money", "amount", fmt.Sprintf("invalid amount %q", amount))
	}
	return NewMoney(d, currency), nil
}

// MustParseMoney is ParseMoney for constants and tests.
func MustParseMoney(amount, currency string) Money {
	m, err := ParseMoney(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// ZeroMoney returns 0.00 in the given currency.
func ZeroMoney(currency string) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() string        { return m.currency }

// String renders exactly two fractional digits.
func (m Money) String() string {
	return m.amount.StringFixed(MoneyScale)
}

// Add returns m + other.
func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return NewMoney(m.amount.Add(other.amount), m.currency), nil
}

// Sub returns m - other. The result may be negative.
func (m Money) Sub(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return NewMoney(m.amount.Sub(other.amount), m.currency), nil
}

// Multiply returns m × quantity.
func (m Money) Multiply(quantity int) Money {
	return NewMoney(m.amount.Mul(decimal.NewFromInt(int64(quantity))), m.currency)
}

// Percent returns percent% of m, rounded half away from zero.
func (m Money) Percent(percent decimal.Decimal) Money {
	return NewMoney(m.amount.Mul(percent).Div(decimal.NewFromInt(100)), m.currency)
}

// Min returns the smaller of m and other.
func (m Money) Min(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	if m.amount.LessThanOrEqual(other.amount) {
		return m, nil
	}
	return other, nil
}

// ClampZero returns 0 when m is negative.
func (m Money) ClampZero() Money {
	if m.amount.IsNegative() {
		return ZeroMoney(m.currency)
	}
	return m
}

func (m Money) IsZero() bool     { return m.amount.IsZero() }
func (m Money) IsNegative() bool { return m.amount.IsNegative() }

// IsGreaterThanOrEqual compares amounts; currencies must match.
func (m Money) IsGreaterThanOrEqual(other Money) bool {
	return m.currency == other.currency && m.amount.GreaterThanOrEqual(other.amount)
}

// Equals compares amount and currency.
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

func (m Money) sameCurrency(other Money) error {
	if m.currency != other.currency {
		return fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.currency, other.currency)
	}
	return nil
}

type moneyJSON struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// MarshalJSON renders {"amount":"20.00","currency":"USD"}.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Amount: m.String(), Currency: m.currency})
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var raw moneyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseMoney(raw.Amount, raw.Currency)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
