package valueobject

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrRateTooLow  = errors.New("rate cannot be below -100%")
	ErrRateTooHigh = errors.New("rate cannot exceed 10000%")
)

var (
	minRate = decimal.NewFromInt(-1)
	maxRate = decimal.NewFromInt(100)
	hundred = decimal.NewFromInt(100)
)

// Rate is an immutable multiplier expressed as a decimal fraction
// (0.12 means 12%), canonicalized to 6 fraction digits.
type Rate struct {
	value decimal.Decimal
}

// NewRate validates and rounds a decimal fraction into a Rate.
func NewRate(fraction decimal.Decimal) (Rate, error) {
	if fraction.LessThan(minRate) {
		return Rate{}, ErrRateTooLow
	}
	if fraction.GreaterThan(maxRate) {
		return Rate{}, ErrRateTooHigh
	}
	return Rate{value: fraction.Round(6)}, nil
}

// NewRateFromPercent builds a Rate from a percentage literal (12.5 means 12.5%).
func NewRateFromPercent(percent decimal.Decimal) (Rate, error) {
	return NewRate(percent.Div(hundred))
}

// MustRate panics on invalid input. Only for literals known to be valid.
func MustRate(fraction decimal.Decimal) Rate {
	r, err := NewRate(fraction)
	if err != nil {
		panic(fmt.Sprintf("valueobject: invalid rate %s: %v", fraction, err))
	}
	return r
}

// MustRateFromPercent panics on invalid input. Only for literals known to be valid.
func MustRateFromPercent(percent decimal.Decimal) Rate {
	r, err := NewRateFromPercent(percent)
	if err != nil {
		panic(fmt.Sprintf("valueobject: invalid rate %s%%: %v", percent, err))
	}
	return r
}

// ZeroRate is the zero rate.
func ZeroRate() Rate {
	return Rate{value: decimal.Zero}
}

// Decimal exposes the underlying fraction. Callers must not assume it is
// interchangeable with a Money amount.
func (r Rate) Decimal() decimal.Decimal {
	return r.value
}

// AsPercent returns the fraction scaled to percent form (0.125 => 12.5).
func (r Rate) AsPercent() decimal.Decimal {
	return r.value.Mul(hundred)
}

// ApplyTo multiplies a monetary amount by the rate, re-validated as Money.
func (r Rate) ApplyTo(m Money) (Money, error) {
	return NewMoney(m.Decimal().Mul(r.value))
}

func (r Rate) IsZero() bool {
	return r.value.IsZero()
}

func (r Rate) Equal(other Rate) bool {
	return r.value.Equal(other.value)
}

// Cmp returns -1, 0 or 1 comparing r against other.
func (r Rate) Cmp(other Rate) int {
	return r.value.Cmp(other.value)
}

func (r Rate) String() string {
	return r.AsPercent().StringFixed(2) + "%"
}

// MarshalJSON renders the fraction as a JSON number.
func (r Rate) MarshalJSON() ([]byte, error) {
	return []byte(r.value.String()), nil
}

// UnmarshalJSON parses and validates a JSON number fraction into a Rate.
func (r *Rate) UnmarshalJSON(data []byte) error {
	fraction, err := decimal.NewFromString(string(data))
	if err != nil {
		return fmt.Errorf("parse rate: %w", err)
	}
	parsed, err := NewRate(fraction)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
