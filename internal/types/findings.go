// Package types provides type definitions for structured data used throughout the certguard system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Severity classifies how strongly a finding counts against a certificate.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityBlocking Severity = "blocking"
)

// ValidSeverity reports whether s is one of the three defined severity values.
func ValidSeverity(s Severity) bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityBlocking:
		return true
	}
	return false
}

// Check identifiers. Every finding names the check that produced it.
const (
	CheckClassification   = "classification"
	CheckJurisdiction     = "jurisdiction"
	CheckExtraction       = "extraction"
	CheckTaxability       = "taxability"
	CheckExpiration       = "expiration"
	CheckSellerProtection = "seller_protection"
	CheckResale           = "resale_restriction"
	CheckReasonableness   = "reasonableness"
)

// BlockingCapable reports whether a check is allowed to emit blocking findings.
// A crashed blocking-capable check cannot be silently downgraded, so the
// resolver routes its failure finding to human review.
func BlockingCapable(check string) bool {
	switch check {
	case CheckTaxability, CheckExpiration, CheckSellerProtection, CheckResale:
		return true
	}
	return false
}

// Finding represents a single observation produced by exactly one check.
// Findings are immutable once created.
type Finding struct {
	Check    string   `json:"check"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Rule     string   `json:"rule,omitempty"` // identifier of the triggering rule

	// CheckFailed marks a finding synthesized because the check itself could
	// not complete (missing optional field, unexpected rule shape).
	CheckFailed bool `json:"check_failed,omitempty"`

	// ForcesReview marks findings that route the certificate to human review
	// regardless of severity: unknown form, unknown jurisdiction, extraction
	// failure, or a failed blocking-capable check.
	ForcesReview bool `json:"forces_review,omitempty"`
}
