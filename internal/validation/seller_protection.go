package validation

import (
	"fmt"
	"strings"

	"github.com/controller-hub/certguard/internal/types"
)

// Seller-protection element names accepted in rule tables.
const (
	ElementBuyerName     = "buyer_name"
	ElementSellerName    = "seller_name"
	ElementExemptionType = "exemption_type"
	ElementSignature     = "signature"
	ElementIssueDate     = "issue_date"
	ElementFormComplete  = "form_complete"
)

// CheckSellerProtection evaluates the good-faith-acceptance criteria for the
// jurisdiction: every required element must be present on the certificate.
// A missing element is a warning unless the policy marks it mandatory, in
// which case it is blocking.
func CheckSellerProtection(in Input) ([]types.Finding, error) {
	rule, ok := in.RuleSet.State(in.Jurisdiction)
	if !ok {
		return nil, nil
	}

	var findings []types.Finding
	for _, element := range rule.SellerProtection.RequiredElements {
		ref := fmt.Sprintf("state_rules.%s.seller_protection_policy.%s", in.Jurisdiction, element.Name)

		present, detail, err := elementPresent(in, element.Name)
		if err != nil {
			return nil, err
		}
		if present {
			continue
		}

		severity := types.SeverityWarning
		if element.Mandatory {
			severity = types.SeverityBlocking
		}
		findings = append(findings, types.Finding{
			Check:    types.CheckSellerProtection,
			Severity: severity,
			Message:  detail,
			Rule:     ref,
		})
	}
	return findings, nil
}

// elementPresent reports whether the named element is satisfied by the
// certificate fields. An unrecognized element name is a rule-shape error and
// surfaces through the pipeline's failure isolation.
func elementPresent(in Input, name string) (bool, string, error) {
	f := in.Fields
	switch name {
	case ElementBuyerName:
		return strings.TrimSpace(f.BuyerName) != "", "missing buyer name", nil
	case ElementSellerName:
		return strings.TrimSpace(f.SellerName) != "", "missing seller name", nil
	case ElementExemptionType:
		return strings.TrimSpace(f.ExemptionType) != "", "missing exemption type", nil
	case ElementSignature:
		return f.SignaturePresent, "missing purchaser signature", nil
	case ElementIssueDate:
		return f.IssueDate != nil, "missing certificate issue date", nil
	case ElementFormComplete:
		missing := missingTemplateFields(in)
		if len(missing) == 0 {
			return true, "", nil
		}
		return false, fmt.Sprintf("form appears incomplete; required fields not found: %s", strings.Join(missing, ", ")), nil
	default:
		return false, "", &RuleShapeError{
			Check:   types.CheckSellerProtection,
			Rule:    fmt.Sprintf("state_rules.%s.seller_protection_policy", in.Jurisdiction),
			Message: fmt.Sprintf("unrecognized required element %q", name),
		}
	}
}

// missingTemplateFields lists template required fields with no trace in the
// raw text. With no template or no raw text the form cannot be judged
// incomplete.
func missingTemplateFields(in Input) []string {
	if in.Template == nil || strings.TrimSpace(in.Fields.RawText) == "" {
		return nil
	}
	haystack := strings.ToLower(in.Fields.RawText)
	var missing []string
	for _, field := range in.Template.RequiredFields {
		label := strings.ToLower(strings.ReplaceAll(field, "_", " "))
		if !strings.Contains(haystack, label) {
			missing = append(missing, field)
		}
	}
	return missing
}
