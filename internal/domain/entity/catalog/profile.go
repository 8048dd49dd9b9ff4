package catalog

import (
	"fmt"
	"strings"
)

// InvestorProfile classifies a client's risk appetite.
type InvestorProfile string

const (
	ProfileConservative InvestorProfile = "conservative"
	ProfileModerate     InvestorProfile = "moderate"
	ProfileAggressive   InvestorProfile = "aggressive"
)

func (p InvestorProfile) String() string {
	return string(p)
}

func (p InvestorProfile) IsValid() bool {
	switch p {
	case ProfileConservative, ProfileModerate, ProfileAggressive:
		return true
	default:
		return false
	}
}

// ParseProfile resolves a request string into an InvestorProfile,
// case-insensitively.
func ParseProfile(s string) (InvestorProfile, error) {
	p := InvestorProfile(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", fmt.Errorf("invalid investor profile: %s", s)
	}
	return p, nil
}

// AllowedRiskTiers returns the risk tiers a profile may hold, most
// conservative first. Each profile admits everything a more cautious
// one does.
func (p InvestorProfile) AllowedRiskTiers() []RiskTier {
	switch p {
	case ProfileConservative:
		return []RiskTier{RiskLow}
	case ProfileModerate:
		return []RiskTier{RiskLow, RiskMedium}
	case ProfileAggressive:
		return []RiskTier{RiskLow, RiskMedium, RiskHigh}
	default:
		return nil
	}
}
