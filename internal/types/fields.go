package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// dateLayouts are the accepted wire formats for certificate dates.
// Extractors emit ISO dates; hand-filled field files often use US slashes.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	time.RFC3339,
}

// Date is a calendar date without a time component.
type Date struct {
	time.Time
}

// NewDate constructs a Date at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a date string in any of the accepted layouts.
func ParseDate(s string) (Date, error) {
	trimmed := strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return Date{Time: t}, nil
		}
	}
	return Date{}, fmt.Errorf("unrecognized date format: %q", s)
}

// MarshalJSON renders the date as an ISO calendar date.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format("2006-01-02"))
}

// UnmarshalJSON accepts any of the supported date layouts.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// CertificateFields holds the structured fields extracted from a single
// exemption certificate. It is produced once by the external extractor and
// never mutated afterwards.
type CertificateFields struct {
	CertificateID string `json:"certificate_id,omitempty"`
	BuyerName     string `json:"buyer_name"`
	SellerName    string `json:"seller_name,omitempty"`
	Jurisdiction  string `json:"jurisdiction,omitempty" validate:"omitempty,uppercase"`
	ExemptionType string `json:"exemption_type,omitempty"`

	SignaturePresent bool  `json:"signature_present"`
	IssueDate        *Date `json:"issue_date,omitempty"`
	ExpirationDate   *Date `json:"expiration_date,omitempty"`

	// Contextual signals used by the reasonableness check.
	BusinessType  string  `json:"business_type,omitempty"`
	ClaimedAmount float64 `json:"claimed_amount,omitempty" validate:"gte=0"`

	RawText              string  `json:"raw_text,omitempty"`
	ExtractionConfidence float64 `json:"extraction_confidence" validate:"gte=0,lte=1"`
}

// NormalizedJurisdiction returns the trimmed, upper-cased jurisdiction code.
func (f *CertificateFields) NormalizedJurisdiction() string {
	return strings.ToUpper(strings.TrimSpace(f.Jurisdiction))
}

// NormalizedExemptionType returns the trimmed, lower-cased exemption type.
func (f *CertificateFields) NormalizedExemptionType() string {
	return strings.ToLower(strings.TrimSpace(f.ExemptionType))
}
