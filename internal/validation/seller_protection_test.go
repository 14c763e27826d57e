package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/controller-hub/certguard/internal/types"
)

func TestCheckSellerProtection_MissingMandatorySignature(t *testing.T) {
	fields := testFields()
	fields.SignaturePresent = false

	findings, err := CheckSellerProtection(testInput(fields))
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, types.SeverityBlocking, findings[0].Severity)
	assert.Contains(t, findings[0].Message, "signature")
	assert.Equal(t, "state_rules.TX.seller_protection_policy.signature", findings[0].Rule)
}

func TestCheckSellerProtection_MissingOptionalSellerName(t *testing.T) {
	fields := testFields()
	fields.SellerName = ""

	findings, err := CheckSellerProtection(testInput(fields))
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, types.SeverityWarning, findings[0].Severity)
	assert.Contains(t, findings[0].Message, "seller name")
}

func TestCheckSellerProtection_AllElementsPresent(t *testing.T) {
	findings, err := CheckSellerProtection(testInput(testFields()))
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestCheckSellerProtection_MultipleMissingElements(t *testing.T) {
	fields := testFields()
	fields.BuyerName = ""
	fields.SignaturePresent = false
	fields.IssueDate = nil

	findings, err := CheckSellerProtection(testInput(fields))
	require.NoError(t, err)
	require.Len(t, findings, 3)

	blocking := 0
	for _, f := range findings {
		if f.Severity == types.SeverityBlocking {
			blocking++
		}
	}
	assert.Equal(t, 2, blocking) // buyer_name and signature are mandatory in TX
}

func TestCheckSellerProtection_FormCompleteElement(t *testing.T) {
	in := testInput(testFields())
	rule := in.RuleSet.States["TX"]
	rule.SellerProtection.RequiredElements = []types.ProtectionElement{{Name: ElementFormComplete}}
	in.RuleSet.States["TX"] = rule

	rs := in.RuleSet
	tmpl, ok := rs.FormByID("mtc_uniform")
	require.True(t, ok)
	in.Template = tmpl
	in.Fields.RawText = "purchaser name: Acme Distributors LLC" // no signature label

	findings, err := CheckSellerProtection(in)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, types.SeverityWarning, findings[0].Severity)
	assert.Contains(t, findings[0].Message, "signature")
}

func TestCheckSellerProtection_UnknownElementName(t *testing.T) {
	in := testInput(testFields())
	rule := in.RuleSet.States["TX"]
	rule.SellerProtection.RequiredElements = []types.ProtectionElement{{Name: "notarized_seal"}}
	in.RuleSet.States["TX"] = rule

	_, err := CheckSellerProtection(in)
	require.Error(t, err)

	var shapeErr *RuleShapeError
	assert.ErrorAs(t, err, &shapeErr)
}
