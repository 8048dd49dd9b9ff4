package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/domain/valueobject"
)

func newTestProduct(t *testing.T, family ProductFamily, minAmount string, minTerm int, maxTerm *int) *Product {
	t.Helper()
	product, err := NewProduct(
		"Test Offering",
		family,
		RiskLow,
		valueobject.MustRateFromPercent(decimal.RequireFromString("10")),
		valueobject.MustMoney(decimal.RequireFromString(minAmount)),
		minTerm,
		maxTerm,
		false,
		false,
	)
	require.NoError(t, err)
	return product
}

func TestNewProductValidation(t *testing.T) {
	rate := valueobject.MustRateFromPercent(decimal.RequireFromString("10"))
	amount := valueobject.MustMoney(decimal.RequireFromString("100"))

	_, err := NewProduct("", FamilyCDB, RiskLow, rate, amount, 1, nil, false, false)
	assert.ErrorIs(t, err, ErrNameRequired)

	long := make([]byte, 201)
	for i := range long {
		long[i] = 'a'
	}
	_, err = NewProduct(string(long), FamilyCDB, RiskLow, rate, amount, 1, nil, false, false)
	assert.ErrorIs(t, err, ErrNameTooLong)

	_, err = NewProduct("ok", FamilyCDB, RiskLow, rate, amount, 0, nil, false, false)
	assert.ErrorIs(t, err, ErrTermOutOfRange)

	_, err = NewProduct("ok", FamilyCDB, RiskLow, rate, amount, 601, nil, false, false)
	assert.ErrorIs(t, err, ErrTermOutOfRange)

	lowMax := 5
	_, err = NewProduct("ok", FamilyCDB, RiskLow, rate, amount, 6, &lowMax, false, false)
	assert.ErrorIs(t, err, ErrMaxBelowMin)

	_, err = NewProduct("ok", ProductFamily("equity"), RiskLow, rate, amount, 1, nil, false, false)
	assert.Error(t, err)
}

func TestNewProductStartsActive(t *testing.T) {
	product := newTestProduct(t, FamilyCDB, "100", 1, nil)
	assert.True(t, product.Active)

	product.Deactivate()
	assert.False(t, product.Active)
	product.Activate()
	assert.True(t, product.Active)
}

func TestFeeSettersRequireFund(t *testing.T) {
	fee := valueobject.MustRateFromPercent(decimal.RequireFromString("1.5"))

	cdb := newTestProduct(t, FamilyCDB, "100", 1, nil)
	assert.ErrorIs(t, cdb.SetManagementFee(fee), ErrNotAFund)
	assert.ErrorIs(t, cdb.SetPerformanceFee(fee), ErrNotAFund)

	fund := newTestProduct(t, FamilyFund, "100", 1, nil)
	require.NoError(t, fund.SetManagementFee(fee))
	require.NoError(t, fund.SetPerformanceFee(fee))
	assert.NotNil(t, fund.ManagementFee)
	assert.NotNil(t, fund.PerformanceFee)
}

func TestIsEligible(t *testing.T) {
	maxTerm := 24
	product := newTestProduct(t, FamilyCDB, "1000", 6, &maxTerm)

	amount := func(s string) valueobject.Money {
		return valueobject.MustMoney(decimal.RequireFromString(s))
	}

	assert.True(t, product.IsEligible(amount("1000"), 6))
	assert.True(t, product.IsEligible(amount("1500"), 12))
	assert.True(t, product.IsEligible(amount("1000"), 24))

	assert.False(t, product.IsEligible(amount("999.99"), 6))
	assert.False(t, product.IsEligible(amount("1000"), 5))
	assert.False(t, product.IsEligible(amount("1000"), 25))

	product.Deactivate()
	assert.False(t, product.IsEligible(amount("1000"), 6))
}

func TestIsEligibleWithoutMaxTerm(t *testing.T) {
	product := newTestProduct(t, FamilyCDB, "100", 1, nil)
	assert.True(t, product.IsEligible(valueobject.MustMoney(decimal.RequireFromString("100")), 600))
}

func TestActiveOnlyPreservesOrder(t *testing.T) {
	first := newTestProduct(t, FamilyCDB, "100", 1, nil)
	second := newTestProduct(t, FamilyCDB, "100", 1, nil)
	third := newTestProduct(t, FamilyCDB, "100", 1, nil)
	second.Deactivate()

	active := ActiveOnly([]*Product{first, second, nil, third})
	require.Len(t, active, 2)
	assert.Same(t, first, active[0])
	assert.Same(t, third, active[1])
}

func TestFirstEligiblePicksCatalogOrder(t *testing.T) {
	strict := newTestProduct(t, FamilyCDB, "5000", 12, nil)
	loose := newTestProduct(t, FamilyCDB, "100", 1, nil)
	amount := valueobject.MustMoney(decimal.RequireFromString("500"))

	picked := FirstEligible([]*Product{strict, loose}, amount, 6)
	assert.Same(t, loose, picked)

	assert.Nil(t, FirstEligible([]*Product{strict}, amount, 6))
	assert.Nil(t, FirstEligible(nil, amount, 6))
}

func TestParseFamily(t *testing.T) {
	family, err := ParseFamily("  CDB ")
	require.NoError(t, err)
	assert.Equal(t, FamilyCDB, family)

	family, err = ParseFamily("Treasury_Inflation")
	require.NoError(t, err)
	assert.Equal(t, FamilyTreasuryInflation, family)

	_, err = ParseFamily("bitcoin")
	assert.Error(t, err)
}

func TestNewRiskTier(t *testing.T) {
	tier, err := NewRiskTier(" High ")
	require.NoError(t, err)
	assert.Equal(t, RiskHigh, tier)

	_, err = NewRiskTier("extreme")
	assert.Error(t, err)
}
