package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/controller-hub/certguard/internal/types"
)

func TestCheckReasonableness_StrongResellerProfile(t *testing.T) {
	findings, err := CheckReasonableness(testInput(testFields()))
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, types.SeverityInfo, findings[0].Severity)
	assert.Contains(t, findings[0].Message, "strong_reseller")
	assert.Contains(t, findings[0].Message, "distributor")
	assert.Equal(t, "reasonableness_rules.resale.strong_reseller", findings[0].Rule)
}

func TestCheckReasonableness_HighValueClaim(t *testing.T) {
	fields := testFields()
	fields.BuyerName = "Vertical Metrics Inc"
	fields.ClaimedAmount = 400000

	findings, err := CheckReasonableness(testInput(fields))
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, types.SeverityWarning, findings[0].Severity)
	assert.Contains(t, findings[0].Message, "high_value_claim")
}

func TestCheckReasonableness_CatchAllDefault(t *testing.T) {
	fields := testFields()
	fields.BuyerName = "Vertical Metrics Inc"

	findings, err := CheckReasonableness(testInput(fields))
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, types.SeverityWarning, findings[0].Severity)
	assert.Contains(t, findings[0].Message, "weak_default")
	assert.Contains(t, findings[0].Message, "No recognizable resale channel")
}

func TestCheckReasonableness_FirstMatchingTierWins(t *testing.T) {
	fields := testFields()
	fields.BuyerName = "Acme Distributors LLC"
	fields.ClaimedAmount = 400000 // would also cross the high-value threshold

	findings, err := CheckReasonableness(testInput(fields))
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "strong_reseller")
}

func TestCheckReasonableness_NoTiersConfigured(t *testing.T) {
	fields := testFields()
	fields.ExemptionType = "government"

	findings, err := CheckReasonableness(testInput(fields))
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestCheckReasonableness_BusinessTypeSignal(t *testing.T) {
	fields := testFields()
	fields.BuyerName = "Vertical Metrics Inc"
	fields.BusinessType = "software reseller"

	findings, err := CheckReasonableness(testInput(fields))
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, types.SeverityInfo, findings[0].Severity)
}
