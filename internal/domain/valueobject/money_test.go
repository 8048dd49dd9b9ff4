package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoneyRoundsToTwoDigits(t *testing.T) {
	m, err := NewMoney(decimal.RequireFromString("100.999"))
	require.NoError(t, err)
	assert.Equal(t, "101.00", m.String())

	m, err = NewMoney(decimal.RequireFromString("100.994"))
	require.NoError(t, err)
	assert.Equal(t, "100.99", m.String())
}

func TestNewMoneyRejectsNegative(t *testing.T) {
	_, err := NewMoney(decimal.RequireFromString("-0.01"))
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestNewMoneyRejectsAboveCeiling(t *testing.T) {
	_, err := NewMoney(decimal.RequireFromString("1000000000000"))
	assert.ErrorIs(t, err, ErrAmountTooLarge)

	m, err := NewMoney(decimal.RequireFromString("999999999999.99"))
	require.NoError(t, err)
	assert.Equal(t, "999999999999.99", m.String())
}

func TestMoneyArithmetic(t *testing.T) {
	a := MustMoney(decimal.RequireFromString("150.25"))
	b := MustMoney(decimal.RequireFromString("49.75"))

	assert.Equal(t, "200.00", a.Add(b).String())
	assert.Equal(t, "100.50", a.Sub(b).String())
	assert.Equal(t, "300.50", a.Mul(decimal.NewFromInt(2)).String())

	// Sub may go negative; yields below zero are meaningful.
	loss := b.Sub(a)
	assert.True(t, loss.Decimal().IsNegative())
}

func TestMoneyDiv(t *testing.T) {
	a := MustMoney(decimal.RequireFromString("100.00"))

	half, err := a.Div(decimal.NewFromInt(2))
	require.NoError(t, err)
	assert.Equal(t, "50.00", half.String())

	_, err = a.Div(decimal.Zero)
	assert.ErrorIs(t, err, ErrDivideByZero)
}

func TestMoneyComparisons(t *testing.T) {
	small := MustMoney(decimal.RequireFromString("10.00"))
	big := MustMoney(decimal.RequireFromString("20.00"))

	assert.True(t, small.LessThan(big))
	assert.False(t, big.LessThan(small))
	assert.True(t, big.GreaterThanOrEqual(small))
	assert.True(t, big.GreaterThanOrEqual(big))
	assert.Equal(t, -1, small.Cmp(big))
	assert.Equal(t, 0, small.Cmp(small))
}

func TestMoneyJSON(t *testing.T) {
	m := MustMoney(decimal.RequireFromString("1234.5"))

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, "1234.50", string(data))

	var parsed Money
	require.NoError(t, json.Unmarshal([]byte("99.999"), &parsed))
	assert.Equal(t, "100.00", parsed.String())

	assert.Error(t, json.Unmarshal([]byte("-1"), &parsed))
}

func TestZeroMoney(t *testing.T) {
	assert.True(t, ZeroMoney().IsZero())
	assert.Equal(t, "0.00", ZeroMoney().String())
}
