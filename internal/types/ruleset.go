package types

import "strings"

// ExpirationMode selects how a jurisdiction treats certificate aging.
type ExpirationMode string

const (
	// ExpirationPerpetual means the certificate is valid until revoked.
	ExpirationPerpetual ExpirationMode = "perpetual"
	// ExpirationPeriodic means the certificate must be renewed every N years.
	ExpirationPeriodic ExpirationMode = "periodic"
)

// ExpirationPolicy describes a jurisdiction's renewal requirements.
type ExpirationPolicy struct {
	Mode         ExpirationMode `json:"mode"`
	RenewalYears int            `json:"renewal_years,omitempty"`
	Citation     string         `json:"citation,omitempty"`
}

// ProtectionElement names a certificate element the jurisdiction expects for
// good-faith acceptance. Mandatory elements escalate absence to blocking.
type ProtectionElement struct {
	Name      string `json:"name"`
	Mandatory bool   `json:"mandatory,omitempty"`
}

// SellerProtectionPolicy lists the elements a seller must see on a
// certificate to be shielded from liability for accepting it.
type SellerProtectionPolicy struct {
	RequiredElements []ProtectionElement `json:"required_elements"`
}

// StateRule holds the per-jurisdiction rule record.
type StateRule struct {
	SaaSTaxable      bool                   `json:"saas_taxable"`
	NoSalesTax       bool                   `json:"no_sales_tax,omitempty"`
	SSTMember        bool                   `json:"sst_member,omitempty"`
	Expiration       ExpirationPolicy       `json:"expiration_policy"`
	SellerProtection SellerProtectionPolicy `json:"seller_protection_policy"`
	Note             string                 `json:"note,omitempty"`
}

// MTCRestriction describes how a jurisdiction limits the multistate uniform
// certificate.
type MTCRestriction struct {
	ResaleOnly       bool     `json:"resale_only"`
	AlternativeForms []string `json:"alternative_forms,omitempty"`
}

// ReasonablenessTier is one graded bucket for an exemption claim. Tiers are
// evaluated in declaration order; the first matching tier wins. A tier with no
// patterns and no amount threshold matches everything (catch-all).
type ReasonablenessTier struct {
	Name      string   `json:"name"`
	Patterns  []string `json:"patterns,omitempty"`
	MinAmount float64  `json:"min_amount,omitempty"`
	Severity  Severity `json:"severity"`
	Note      string   `json:"note,omitempty"`
}

// WeightedPattern is one classifier phrase with an optional weight.
// A zero weight counts as 1.
type WeightedPattern struct {
	Text   string  `json:"text"`
	Weight float64 `json:"weight,omitempty"`
}

// FormTemplate describes one recognizable certificate form.
type FormTemplate struct {
	ID             string            `json:"id"`
	Jurisdiction   string            `json:"jurisdiction,omitempty"` // empty for multistate forms
	MTC            bool              `json:"mtc,omitempty"`
	Patterns       []WeightedPattern `json:"patterns"`
	RequiredFields []string          `json:"required_fields,omitempty"`
}

// RuleSet is the immutable bundle of the four rule tables. It is constructed
// once per load, read-only for the lifetime of every validation that
// references it, and safe for unsynchronized concurrent reads.
type RuleSet struct {
	States         map[string]StateRule            `json:"states"`
	MTC            map[string]MTCRestriction       `json:"mtc"`
	Reasonableness map[string][]ReasonablenessTier `json:"reasonableness"`

	// Forms preserves declaration order; classifier ties break in favor of
	// the earlier template.
	Forms []FormTemplate `json:"forms"`
}

// State looks up the rule record for a jurisdiction code.
func (rs *RuleSet) State(jurisdiction string) (StateRule, bool) {
	rule, ok := rs.States[strings.ToUpper(strings.TrimSpace(jurisdiction))]
	return rule, ok
}

// MTCRestriction looks up the multistate-form restriction for a jurisdiction.
func (rs *RuleSet) MTCRestriction(jurisdiction string) (MTCRestriction, bool) {
	r, ok := rs.MTC[strings.ToUpper(strings.TrimSpace(jurisdiction))]
	return r, ok
}

// Tiers returns the ordered reasonableness tiers for an exemption type.
func (rs *RuleSet) Tiers(exemptionType string) []ReasonablenessTier {
	return rs.Reasonableness[strings.ToLower(strings.TrimSpace(exemptionType))]
}

// FormByID returns the template with the given identifier.
func (rs *RuleSet) FormByID(id string) (*FormTemplate, bool) {
	for i := range rs.Forms {
		if rs.Forms[i].ID == id {
			return &rs.Forms[i], true
		}
	}
	return nil, false
}
