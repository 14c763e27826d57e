// Package disposition aggregates findings into the final certificate outcome.
package disposition

import (
	"strings"

	"github.com/controller-hub/certguard/internal/types"
)

// Per-finding confidence penalties. Informational findings cost almost
// nothing; blocking findings dominate. Confidence is monotonically
// non-increasing in both the count and the severity of findings.
const (
	infoPenalty     = 0.02
	warningPenalty  = 0.05
	blockingPenalty = 0.15
)

// Resolve maps a findings list to a disposition code by fixed precedence,
// first match wins:
//
//  1. any finding that forces review (unknown form, unknown jurisdiction,
//     extraction failure, failed blocking-capable check) → NEEDS_HUMAN_REVIEW
//  2. any blocking finding → NEEDS_CORRECTION
//  3. any warning finding → VALIDATED_WITH_NOTES
//  4. otherwise → VALIDATED
//
// The code is a pure function of the findings list.
func Resolve(findings []types.Finding) types.Code {
	hasBlocking := false
	hasWarning := false
	for _, f := range findings {
		if f.ForcesReview {
			return types.NeedsHumanReview
		}
		switch f.Severity {
		case types.SeverityBlocking:
			hasBlocking = true
		case types.SeverityWarning:
			hasWarning = true
		}
	}
	if hasBlocking {
		return types.NeedsCorrection
	}
	if hasWarning {
		return types.ValidatedNotes
	}
	return types.Validated
}

// Confidence scales the classifier confidence down by the count and severity
// of findings, clamped to [0, 1].
func Confidence(classifierConfidence float64, findings []types.Finding) float64 {
	score := classifierConfidence
	for _, f := range findings {
		switch f.Severity {
		case types.SeverityBlocking:
			score -= blockingPenalty
		case types.SeverityWarning:
			score -= warningPenalty
		case types.SeverityInfo:
			score -= infoPenalty
		}
	}
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// CorrectionItems extracts the blocking finding messages for downstream
// correction-request tooling.
func CorrectionItems(findings []types.Finding) []string {
	var items []string
	for _, f := range findings {
		if f.Severity == types.SeverityBlocking {
			items = append(items, f.Message)
		}
	}
	return items
}

// ProtectionStandard derives the seller-protection liability standard for a
// jurisdiction: federal supremacy for federal purchasers, the four-corners
// standard for streamlined member states, good faith everywhere else.
func ProtectionStandard(jurisdiction string, rs *types.RuleSet) types.ProtectionStandard {
	normalized := strings.ToUpper(strings.TrimSpace(jurisdiction))
	switch normalized {
	case "FEDERAL", "US", "USA":
		return types.ProtectionFederalSupremacy
	}
	if rule, ok := rs.State(normalized); ok && rule.SSTMember {
		return types.ProtectionFourCorners
	}
	return types.ProtectionGoodFaith
}
