package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/controller-hub/certguard/internal/types"
)

func testRuleSet() *types.RuleSet {
	return &types.RuleSet{
		Forms: []types.FormTemplate{
			{
				ID:  "mtc_uniform",
				MTC: true,
				Patterns: []types.WeightedPattern{
					{Text: "Uniform Sales & Use Tax", Weight: 2},
					{Text: "Multistate Tax Commission", Weight: 2},
					{Text: "certificate of exemption"},
				},
			},
			{
				ID:           "tx_01_339",
				Jurisdiction: "TX",
				Patterns: []types.WeightedPattern{
					{Text: "01-339", Weight: 2},
					{Text: "Texas Sales and Use Tax Exemption Certification", Weight: 2},
					{Text: "comptroller"},
				},
			},
			// Same patterns as tx_01_339 to exercise the tie-break.
			{
				ID:           "tx_shadow",
				Jurisdiction: "TX",
				Patterns: []types.WeightedPattern{
					{Text: "01-339", Weight: 2},
					{Text: "Texas Sales and Use Tax Exemption Certification", Weight: 2},
					{Text: "comptroller"},
				},
			},
		},
	}
}

func TestClassify_MatchesBestTemplate(t *testing.T) {
	rs := testRuleSet()
	text := "TEXAS SALES AND USE TAX EXEMPTION CERTIFICATION\nForm 01-339 (Back)\nComptroller of Public Accounts"

	result := Classify(text, rs)
	require.True(t, result.Known)
	assert.Equal(t, "tx_01_339", result.FormID)
	assert.Equal(t, "TX", result.Jurisdiction)
	assert.InDelta(t, 1.0, result.Confidence, 0.001)
	assert.Len(t, result.MatchedPatterns, 3)
}

func TestClassify_TieBreaksByDeclarationOrder(t *testing.T) {
	rs := testRuleSet()
	text := "Texas Sales and Use Tax Exemption Certification 01-339 comptroller"

	// tx_01_339 and tx_shadow score identically; the first listed wins.
	result := Classify(text, rs)
	require.True(t, result.Known)
	assert.Equal(t, "tx_01_339", result.FormID)
}

func TestClassify_BelowThresholdIsUnknown(t *testing.T) {
	rs := testRuleSet()
	// Only the weight-1 pattern matches: 1/5 = 0.2 for both templates.
	text := "certificate of exemption"

	result := Classify(text, rs)
	assert.False(t, result.Known)
	assert.Equal(t, "unknown", result.FormID)
	assert.Empty(t, result.Jurisdiction)
	assert.Nil(t, result.Template)
	assert.InDelta(t, 0.2, result.Confidence, 0.001)
}

func TestClassify_EmptyText(t *testing.T) {
	result := Classify("", testRuleSet())
	assert.False(t, result.Known)
	assert.Zero(t, result.Confidence)
}

func TestClassify_WeightedScoring(t *testing.T) {
	rs := testRuleSet()
	// Both weight-2 MTC phrases present, weight-1 phrase absent: 4/5 = 0.8.
	text := "UNIFORM SALES & USE TAX RESALE CERTIFICATE - MULTISTATE TAX COMMISSION"

	result := Classify(text, rs)
	require.True(t, result.Known)
	assert.Equal(t, "mtc_uniform", result.FormID)
	assert.InDelta(t, 0.8, result.Confidence, 0.001)
	require.NotNil(t, result.Template)
	assert.True(t, result.Template.MTC)
}

func TestClassify_DeterministicAcrossRuns(t *testing.T) {
	rs := testRuleSet()
	text := "Uniform Sales & Use Tax certificate of exemption, Multistate Tax Commission"

	first := Classify(text, rs)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(text, rs))
	}
}
