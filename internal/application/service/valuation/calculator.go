package valuation

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	catalog "main/internal/domain/entity/catalog"
	"main/internal/domain/valueobject"
)

// defaultInflationProxy is the fixed yearly inflation assumption added to
// the real rate of inflation-linked treasury products. A model
// simplification, tunable per deployment.
var defaultInflationProxy = decimal.RequireFromString("0.04")

// Result carries the outcome of one valuation run.
type Result struct {
	GrossFinal    valueobject.Money
	TaxAmount     valueobject.Money
	NetFinal      valueobject.Money
	EffectiveRate valueobject.Rate
	TaxRate       valueobject.Rate
	MaturityDate  time.Time
}

// Calculator projects gross and net proceeds for a product offering.
// It is stateless and safe for concurrent use.
type Calculator struct {
	inflationProxy decimal.Decimal
	now            func() time.Time
}

func NewCalculator() *Calculator {
	return &Calculator{
		inflationProxy: defaultInflationProxy,
		now:            time.Now,
	}
}

// WithClock replaces the time source. Intended for tests.
func (c *Calculator) WithClock(now func() time.Time) *Calculator {
	c.now = now
	return c
}

// WithInflationProxy replaces the yearly inflation assumption for
// inflation-linked products.
func (c *Calculator) WithInflationProxy(proxy decimal.Decimal) *Calculator {
	c.inflationProxy = proxy
	return c
}

// Calculate projects the proceeds of investing the given amount in the
// product for the given term. The maturity date uses calendar-month
// addition while the tax bracket uses a 30-day-month approximation; the
// two clocks intentionally disagree near bracket boundaries.
func (c *Calculator) Calculate(product *catalog.Product, invested valueobject.Money, termMonths int) (Result, error) {
	if product == nil {
		return Result{}, fmt.Errorf("product is nil")
	}
	if termMonths <= 0 {
		return Result{}, fmt.Errorf("term must be positive, got %d", termMonths)
	}

	maturityDate := c.now().UTC().AddDate(0, termMonths, 0)
	termYears := float64(termMonths) / 12.0

	grossFinal, err := c.grossFinal(product, invested, termYears)
	if err != nil {
		return Result{}, fmt.Errorf("compute gross value for %s: %w", product.Family, err)
	}

	// Fund performance fee is charged on the yield after the management
	// fee drag, before tax.
	if product.Family == catalog.FamilyFund && product.PerformanceFee != nil {
		yield := grossFinal.Sub(invested)
		deduction, err := product.PerformanceFee.ApplyTo(yield)
		if err != nil {
			return Result{}, fmt.Errorf("apply performance fee: %w", err)
		}
		grossFinal = grossFinal.Sub(deduction)
	}

	taxRate := valueobject.ZeroRate()
	taxAmount := valueobject.ZeroMoney()
	if !product.TaxExempt {
		taxRate = RegressiveTaxRate(termMonths)
		yield := grossFinal.Sub(invested)
		taxAmount, err = taxRate.ApplyTo(yield)
		if err != nil {
			return Result{}, fmt.Errorf("apply withholding tax: %w", err)
		}
	}

	return Result{
		GrossFinal:    grossFinal,
		TaxAmount:     taxAmount,
		NetFinal:      grossFinal.Sub(taxAmount),
		EffectiveRate: product.AnnualRate,
		TaxRate:       taxRate,
		MaturityDate:  maturityDate,
	}, nil
}

func (c *Calculator) grossFinal(product *catalog.Product, invested valueobject.Money, termYears float64) (valueobject.Money, error) {
	switch product.Family {
	case catalog.FamilyCDB,
		catalog.FamilyTreasurySelic,
		catalog.FamilyTreasuryFixed,
		catalog.FamilyRealEstateNote,
		catalog.FamilyAgribusinessNote:
		return compound(invested, product.AnnualRate.Decimal(), termYears)

	case catalog.FamilyTreasuryInflation:
		return compound(invested, product.AnnualRate.Decimal().Add(c.inflationProxy), termYears)

	case catalog.FamilyFund:
		growth := powFactor(decimal.NewFromInt(1).Add(product.AnnualRate.Decimal()), termYears)
		amount := invested.Decimal().Mul(growth)
		if product.ManagementFee != nil && product.ManagementFee.Decimal().IsPositive() {
			drag := powFactor(decimal.NewFromInt(1).Sub(product.ManagementFee.Decimal()), termYears)
			amount = amount.Mul(drag)
		}
		return valueobject.NewMoney(amount)

	default:
		return valueobject.Money{}, fmt.Errorf("unsupported product family: %s", product.Family)
	}
}

// compound grows the invested amount at the given yearly rate over a
// fractional number of years: invested × (1 + rate)^years.
func compound(invested valueobject.Money, yearlyRate decimal.Decimal, termYears float64) (valueobject.Money, error) {
	factor := powFactor(decimal.NewFromInt(1).Add(yearlyRate), termYears)
	return valueobject.NewMoney(invested.Decimal().Mul(factor))
}

// powFactor exponentiates on the decimal→float64→decimal boundary.
// Rounding happens only at Money construction, never mid-formula.
func powFactor(base decimal.Decimal, exponent float64) decimal.Decimal {
	return decimal.NewFromFloat(math.Pow(base.InexactFloat64(), exponent))
}
