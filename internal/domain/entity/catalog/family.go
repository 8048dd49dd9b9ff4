package catalog

import (
	"fmt"
	"strings"
)

// ProductFamily is the category of an investment product.
type ProductFamily string

const (
	FamilyCDB               ProductFamily = "cdb"
	FamilyTreasurySelic     ProductFamily = "treasury_selic"
	FamilyTreasuryFixed     ProductFamily = "treasury_fixed"
	FamilyTreasuryInflation ProductFamily = "treasury_inflation"
	FamilyRealEstateNote    ProductFamily = "lci"
	FamilyAgribusinessNote  ProductFamily = "lca"
	FamilyFund              ProductFamily = "fund"
)

func (f ProductFamily) String() string {
	return string(f)
}

func (f ProductFamily) IsValid() bool {
	switch f {
	case FamilyCDB, FamilyTreasurySelic, FamilyTreasuryFixed, FamilyTreasuryInflation,
		FamilyRealEstateNote, FamilyAgribusinessNote, FamilyFund:
		return true
	default:
		return false
	}
}

// ParseFamily resolves a request string into a ProductFamily,
// case-insensitively.
func ParseFamily(s string) (ProductFamily, error) {
	f := ProductFamily(strings.ToLower(strings.TrimSpace(s)))
	if !f.IsValid() {
		return "", fmt.Errorf("invalid product family: %s", s)
	}
	return f, nil
}

// RiskTier classifies how risky a product is.
type RiskTier string

const (
	RiskLow    RiskTier = "low"
	RiskMedium RiskTier = "medium"
	RiskHigh   RiskTier = "high"
)

func (rt RiskTier) String() string {
	return string(rt)
}

func (rt RiskTier) IsValid() bool {
	switch rt {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	default:
		return false
	}
}

func NewRiskTier(s string) (RiskTier, error) {
	rt := RiskTier(strings.ToLower(strings.TrimSpace(s)))
	if !rt.IsValid() {
		return "", fmt.Errorf("invalid risk tier: %s", s)
	}
	return rt, nil
}
