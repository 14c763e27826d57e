package types

import "time"

// Code is the final outcome assigned to a certificate.
type Code string

const (
	Validated        Code = "VALIDATED"
	ValidatedNotes   Code = "VALIDATED_WITH_NOTES"
	NeedsCorrection  Code = "NEEDS_CORRECTION"
	NeedsHumanReview Code = "NEEDS_HUMAN_REVIEW"
)

// ProtectionStandard is the liability standard shielding the seller for
// accepting a certificate in good faith.
type ProtectionStandard string

const (
	ProtectionGoodFaith        ProtectionStandard = "good_faith"
	ProtectionFourCorners      ProtectionStandard = "four_corners"
	ProtectionFederalSupremacy ProtectionStandard = "federal_supremacy"
)

// Disposition is the sole artifact the engine hands to external reporting and
// notification collaborators. It is a pure function of the certificate fields
// and the rule set, and is never mutated after creation. The code is fully
// determined by the findings list; no hidden state influences it.
type Disposition struct {
	CertificateID string `json:"certificate_id,omitempty"`
	Code          Code   `json:"code"`

	// Findings in check execution order.
	Findings []Finding `json:"findings"`

	Confidence  float64 `json:"confidence"` // 0-1
	Explanation string  `json:"explanation"`

	FormID       string `json:"form_id,omitempty"`
	Jurisdiction string `json:"jurisdiction,omitempty"`

	SellerProtection ProtectionStandard `json:"seller_protection,omitempty"`

	// CorrectionItems carries the messages of blocking findings for
	// downstream correction-request tooling.
	CorrectionItems []string `json:"correction_items,omitempty"`

	EvaluatedAt time.Time `json:"evaluated_at"`
}

// BySeverity returns the findings carrying the given severity.
func (d *Disposition) BySeverity(s Severity) []Finding {
	var out []Finding
	for _, f := range d.Findings {
		if f.Severity == s {
			out = append(out, f)
		}
	}
	return out
}
