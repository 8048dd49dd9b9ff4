package catalog

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"main/internal/domain/valueobject"
)

const (
	minTermMonths = 1
	maxTermMonths = 600
	maxNameLength = 200
)

var (
	ErrNameRequired   = errors.New("product name is required")
	ErrNameTooLong    = errors.New("product name cannot exceed 200 characters")
	ErrNotAFund       = errors.New("fee rates can only be set on fund products")
	ErrTermOutOfRange = fmt.Errorf("minimum term must be between %d and %d months", minTermMonths, maxTermMonths)
	ErrMaxBelowMin    = errors.New("maximum term cannot be below the minimum term")
)

// Product is a concrete investable offering within a family. Rows live in
// the `products` table; fee rates are only meaningful for the fund family.
type Product struct {
	UID            uuid.UUID
	Name           string
	Description    string
	Family         ProductFamily
	RiskTier       RiskTier
	AnnualRate     valueobject.Rate
	MinAmount      valueobject.Money
	MinTermMonths  int
	MaxTermMonths  *int
	DailyLiquidity bool
	Active         bool
	TaxExempt      bool
	ManagementFee  *valueobject.Rate
	PerformanceFee *valueobject.Rate
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}

// NewProduct builds an active product after validating its invariants.
func NewProduct(
	name string,
	family ProductFamily,
	riskTier RiskTier,
	annualRate valueobject.Rate,
	minAmount valueobject.Money,
	minTermMonths int,
	maxTermMonths *int,
	dailyLiquidity bool,
	taxExempt bool,
) (*Product, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateTerms(minTermMonths, maxTermMonths); err != nil {
		return nil, err
	}
	if !family.IsValid() {
		return nil, fmt.Errorf("invalid product family: %s", family)
	}
	if !riskTier.IsValid() {
		return nil, fmt.Errorf("invalid risk tier: %s", riskTier)
	}
	return &Product{
		Name:           name,
		Family:         family,
		RiskTier:       riskTier,
		AnnualRate:     annualRate,
		MinAmount:      minAmount,
		MinTermMonths:  minTermMonths,
		MaxTermMonths:  maxTermMonths,
		DailyLiquidity: dailyLiquidity,
		TaxExempt:      taxExempt,
		Active:         true,
	}, nil
}

// SetManagementFee attaches a management fee. Fund products only.
func (p *Product) SetManagementFee(fee valueobject.Rate) error {
	if p.Family != FamilyFund {
		return ErrNotAFund
	}
	p.ManagementFee = &fee
	return nil
}

// SetPerformanceFee attaches a performance fee. Fund products only.
func (p *Product) SetPerformanceFee(fee valueobject.Rate) error {
	if p.Family != FamilyFund {
		return ErrNotAFund
	}
	p.PerformanceFee = &fee
	return nil
}

func (p *Product) Activate()   { p.Active = true }
func (p *Product) Deactivate() { p.Active = false }

// IsEligible reports whether the product admits the requested amount and term.
func (p *Product) IsEligible(amount valueobject.Money, termMonths int) bool {
	if !p.Active {
		return false
	}
	if amount.LessThan(p.MinAmount) {
		return false
	}
	if termMonths < p.MinTermMonths {
		return false
	}
	if p.MaxTermMonths != nil && termMonths > *p.MaxTermMonths {
		return false
	}
	return true
}

// ActiveOnly filters a candidate list down to active products,
// preserving order.
func ActiveOnly(products []*Product) []*Product {
	active := make([]*Product, 0, len(products))
	for _, p := range products {
		if p != nil && p.Active {
			active = append(active, p)
		}
	}
	return active
}

// FirstEligible returns the first product, in the order given, that admits
// the requested amount and term, or nil when none does. No further
// tie-break is applied; the catalog's returned order decides.
func FirstEligible(products []*Product, amount valueobject.Money, termMonths int) *Product {
	for _, p := range products {
		if p != nil && p.IsEligible(amount, termMonths) {
			return p
		}
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return ErrNameRequired
	}
	if len(name) > maxNameLength {
		return ErrNameTooLong
	}
	return nil
}

func validateTerms(minTerm int, maxTerm *int) error {
	if minTerm < minTermMonths || minTerm > maxTermMonths {
		return ErrTermOutOfRange
	}
	if maxTerm != nil && *maxTerm < minTerm {
		return ErrMaxBelowMin
	}
	return nil
}
