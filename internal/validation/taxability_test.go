package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/controller-hub/certguard/internal/types"
)

func TestCheckTaxability_NotTaxableClaimInTaxableState(t *testing.T) {
	fields := testFields()
	fields.ExemptionType = "not_taxable"

	findings, err := CheckTaxability(testInput(fields))
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, types.SeverityBlocking, findings[0].Severity)
	assert.Equal(t, "state_rules.TX.saas_taxable", findings[0].Rule)
}

func TestCheckTaxability_ExemptClaimInTaxableState(t *testing.T) {
	findings, err := CheckTaxability(testInput(testFields()))
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestCheckTaxability_NotTaxableState(t *testing.T) {
	fields := testFields()
	fields.Jurisdiction = "CA"

	findings, err := CheckTaxability(testInput(fields))
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, types.SeverityInfo, findings[0].Severity)
	assert.Contains(t, findings[0].Message, "precaution")
	assert.Contains(t, findings[0].Message, "Electronically delivered")
}

func TestCheckTaxability_NoSalesTaxState(t *testing.T) {
	fields := testFields()
	fields.Jurisdiction = "MT"

	findings, err := CheckTaxability(testInput(fields))
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, types.SeverityInfo, findings[0].Severity)
	assert.Contains(t, findings[0].Message, "no sales tax")
}

func TestCheckTaxability_UnknownJurisdictionStaysSilent(t *testing.T) {
	fields := testFields()
	fields.Jurisdiction = "ZZ"

	findings, err := CheckTaxability(testInput(fields))
	require.NoError(t, err)
	assert.Empty(t, findings)
}
