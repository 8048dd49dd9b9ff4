package valuation

import (
	"github.com/shopspring/decimal"

	"main/internal/domain/valueobject"
)

// Withholding-tax brackets, regressive over the holding period measured
// in days. Band upper edges are inclusive. The schedule is regulatory:
// reordering or moving a boundary is a correctness bug.
var (
	taxRateUpTo180Days = valueobject.MustRateFromPercent(decimal.RequireFromString("22.5"))
	taxRateUpTo360Days = valueobject.MustRateFromPercent(decimal.RequireFromString("20.0"))
	taxRateUpTo720Days = valueobject.MustRateFromPercent(decimal.RequireFromString("17.5"))
	taxRateAbove720    = valueobject.MustRateFromPercent(decimal.RequireFromString("15.0"))
)

// RegressiveTaxRate returns the withholding-tax rate for a holding term.
// The term is converted with a 30-day-month approximation, not calendar
// arithmetic.
func RegressiveTaxRate(termMonths int) valueobject.Rate {
	days := termMonths * 30

	switch {
	case days <= 180:
		return taxRateUpTo180Days
	case days <= 360:
		return taxRateUpTo360Days
	case days <= 720:
		return taxRateUpTo720Days
	default:
		return taxRateAbove720
	}
}
