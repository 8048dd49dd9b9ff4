package valueobject

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrNegativeAmount = errors.New("monetary amount cannot be negative")
	ErrAmountTooLarge = errors.New("monetary amount exceeds the allowed ceiling")
	ErrDivideByZero   = errors.New("division by zero")
)

// maxAmount is the upper bound for any monetary value handled by the service.
var maxAmount = decimal.RequireFromString("999999999999.99")

// Money is an immutable monetary amount canonicalized to 2 fraction digits.
type Money struct {
	amount decimal.Decimal
}

// NewMoney validates and rounds the given decimal into a Money.
func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, ErrNegativeAmount
	}
	if amount.GreaterThan(maxAmount) {
		return Money{}, ErrAmountTooLarge
	}
	return Money{amount: amount.Round(2)}, nil
}

// NewMoneyFromFloat is a convenience constructor for request payloads.
func NewMoneyFromFloat(amount float64) (Money, error) {
	return NewMoney(decimal.NewFromFloat(amount))
}

// MustMoney panics on invalid input. Only for values known to be valid,
// such as literals in code; an invalid argument is a programming error.
func MustMoney(amount decimal.Decimal) Money {
	m, err := NewMoney(amount)
	if err != nil {
		panic(fmt.Sprintf("valueobject: invalid money %s: %v", amount, err))
	}
	return m
}

// ZeroMoney is the zero monetary value.
func ZeroMoney() Money {
	return Money{amount: decimal.Zero.Round(2)}
}

// newMoneyUnchecked skips validation. Used by arithmetic on already
// validated operands, where a negative intermediate (a yield below zero)
// is meaningful.
func newMoneyUnchecked(amount decimal.Decimal) Money {
	return Money{amount: amount}
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return newMoneyUnchecked(m.amount.Add(other.amount))
}

// Sub returns m - other. The result may be negative.
func (m Money) Sub(other Money) Money {
	return newMoneyUnchecked(m.amount.Sub(other.amount))
}

// Mul scales the amount by a plain decimal factor.
func (m Money) Mul(factor decimal.Decimal) Money {
	return newMoneyUnchecked(m.amount.Mul(factor))
}

// Div divides the amount by a plain decimal divisor.
func (m Money) Div(divisor decimal.Decimal) (Money, error) {
	if divisor.IsZero() {
		return Money{}, ErrDivideByZero
	}
	return newMoneyUnchecked(m.amount.Div(divisor)), nil
}

// Decimal exposes the underlying decimal amount. Callers must not assume
// it is interchangeable with a Rate fraction.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// Float64 returns the closest float64 representation.
func (m Money) Float64() float64 {
	return m.amount.InexactFloat64()
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

func (m Money) LessThan(other Money) bool {
	return m.amount.LessThan(other.amount)
}

func (m Money) GreaterThanOrEqual(other Money) bool {
	return m.amount.GreaterThanOrEqual(other.amount)
}

// Cmp returns -1, 0 or 1 comparing m against other.
func (m Money) Cmp(other Money) int {
	return m.amount.Cmp(other.amount)
}

func (m Money) String() string {
	return m.amount.StringFixed(2)
}

// MarshalJSON renders the amount as a JSON number with 2 fraction digits.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.amount.StringFixed(2)), nil
}

// UnmarshalJSON parses and validates a JSON number into a Money.
func (m *Money) UnmarshalJSON(data []byte) error {
	amount, err := decimal.NewFromString(string(data))
	if err != nil {
		return fmt.Errorf("parse money: %w", err)
	}
	parsed, err := NewMoney(amount)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
