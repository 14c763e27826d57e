// Package pipeline orchestrates certificate evaluation end to end.
package pipeline

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/controller-hub/certguard/internal/classify"
	"github.com/controller-hub/certguard/internal/disposition"
	"github.com/controller-hub/certguard/internal/evidence"
	"github.com/controller-hub/certguard/internal/types"
	"github.com/controller-hub/certguard/internal/validation"
)

var fieldValidator = validator.New()

// Options tunes a single evaluation.
type Options struct {
	// EvaluatedAt pins the evaluation clock; zero means time.Now(). Tests
	// and replays use it to keep expiration checks deterministic.
	EvaluatedAt time.Time
}

// lowExtractionConfidence marks extractions worth an informational note.
const lowExtractionConfidence = 0.8

// Evaluate runs one certificate through classification, the validation
// checks, and disposition resolution. It is a pure computation over the
// fields and the immutable rule set; it never returns an error: every
// defect becomes a finding on the disposition.
func Evaluate(fields *types.CertificateFields, rs *types.RuleSet, opts Options) *types.Disposition {
	now := opts.EvaluatedAt
	if now.IsZero() {
		now = time.Now().UTC()
	}

	if err := fieldValidator.Struct(fields); err != nil {
		return extractionFailure(fields.CertificateID, fmt.Errorf("extracted fields failed validation: %w", err), now)
	}

	var findings []types.Finding

	cls := classify.Classify(fields.RawText, rs)
	if !cls.Known {
		findings = append(findings, types.Finding{
			Check:        types.CheckClassification,
			Severity:     types.SeverityWarning,
			Message:      fmt.Sprintf("form not recognized (best match score %.2f below acceptance threshold); routing to human review", cls.Confidence),
			Rule:         "form_templates",
			ForcesReview: true,
		})
	}

	jurisdiction := fields.NormalizedJurisdiction()
	if jurisdiction == "" {
		jurisdiction = cls.Jurisdiction
	}

	if !federalJurisdiction(jurisdiction) {
		if _, ok := rs.State(jurisdiction); !ok {
			msg := fmt.Sprintf("jurisdiction %q is absent from the rule tables", jurisdiction)
			if jurisdiction == "" {
				msg = "no jurisdiction could be determined from the certificate"
			}
			findings = append(findings, types.Finding{
				Check:        types.CheckJurisdiction,
				Severity:     types.SeverityWarning,
				Message:      msg,
				Rule:         "state_rules",
				ForcesReview: true,
			})
		}
	}

	if fields.ExtractionConfidence < lowExtractionConfidence {
		findings = append(findings, types.Finding{
			Check:    types.CheckExtraction,
			Severity: types.SeverityInfo,
			Message:  fmt.Sprintf("extraction confidence %.2f below %.2f; field values may be incomplete", fields.ExtractionConfidence, lowExtractionConfidence),
		})
	}

	findings = append(findings, validation.RunChecks(validation.Input{
		Fields:       fields,
		RuleSet:      rs,
		Template:     cls.Template,
		Jurisdiction: jurisdiction,
		Now:          now,
	})...)

	d := &types.Disposition{
		CertificateID:    fields.CertificateID,
		Code:             disposition.Resolve(findings),
		Findings:         findings,
		Confidence:       disposition.Confidence(cls.Confidence, findings),
		FormID:           cls.FormID,
		Jurisdiction:     jurisdiction,
		SellerProtection: disposition.ProtectionStandard(jurisdiction, rs),
		CorrectionItems:  disposition.CorrectionItems(findings),
		EvaluatedAt:      now,
	}
	d.Explanation = evidence.Explain(d)
	return d
}

// ExtractionFailure builds the human-review disposition for a certificate
// whose extraction failed or timed out.
func ExtractionFailure(certificateID string, err error, opts Options) *types.Disposition {
	now := opts.EvaluatedAt
	if now.IsZero() {
		now = time.Now().UTC()
	}
	return extractionFailure(certificateID, err, now)
}

func extractionFailure(certificateID string, err error, now time.Time) *types.Disposition {
	findings := []types.Finding{{
		Check:        types.CheckExtraction,
		Severity:     types.SeverityWarning,
		Message:      fmt.Sprintf("extraction failed: %v", err),
		CheckFailed:  true,
		ForcesReview: true,
	}}
	d := &types.Disposition{
		CertificateID: certificateID,
		Code:          types.NeedsHumanReview,
		Findings:      findings,
		Confidence:    0,
		EvaluatedAt:   now,
	}
	d.Explanation = evidence.Explain(d)
	return d
}

// federalJurisdiction reports whether the code names the federal government
// rather than a state. Federal purchasers have no state rule record; their
// exemption rests on federal supremacy.
func federalJurisdiction(code string) bool {
	switch code {
	case "FEDERAL", "US", "USA":
		return true
	}
	return false
}
