package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProfile(t *testing.T) {
	cases := []struct {
		input   string
		profile InvestorProfile
	}{
		{"conservative", ProfileConservative},
		{"Moderate", ProfileModerate},
		{"  AGGRESSIVE  ", ProfileAggressive},
	}
	for _, tc := range cases {
		profile, err := ParseProfile(tc.input)
		require.NoError(t, err, tc.input)
		assert.Equal(t, tc.profile, profile)
	}

	for _, input := range []string{"", "reckless", "conservador"} {
		_, err := ParseProfile(input)
		assert.Error(t, err, input)
	}
}

func TestAllowedRiskTiersWidenWithAppetite(t *testing.T) {
	assert.Equal(t, []RiskTier{RiskLow}, ProfileConservative.AllowedRiskTiers())
	assert.Equal(t, []RiskTier{RiskLow, RiskMedium}, ProfileModerate.AllowedRiskTiers())
	assert.Equal(t, []RiskTier{RiskLow, RiskMedium, RiskHigh}, ProfileAggressive.AllowedRiskTiers())
	assert.Nil(t, InvestorProfile("reckless").AllowedRiskTiers())
}
