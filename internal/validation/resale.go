package validation

import (
	"fmt"
	"strings"

	"github.com/controller-hub/certguard/internal/types"
)

// ExemptionResale is the resale exemption type.
const ExemptionResale = "resale"

// CheckResaleRestriction enforces the MTC matrix: in a resale-only
// jurisdiction a multistate uniform form supports nothing but resale claims.
func CheckResaleRestriction(in Input) ([]types.Finding, error) {
	if in.Template == nil || !in.Template.MTC {
		return nil, nil
	}

	restriction, ok := in.RuleSet.MTCRestriction(in.Jurisdiction)
	if !ok || !restriction.ResaleOnly {
		return nil, nil
	}
	if in.Fields.NormalizedExemptionType() == ExemptionResale {
		return nil, nil
	}

	alternatives := "a state-specific form"
	if len(restriction.AlternativeForms) > 0 {
		alternatives = strings.Join(restriction.AlternativeForms, ", ")
	}
	return []types.Finding{{
		Check:    types.CheckResale,
		Severity: types.SeverityBlocking,
		Message: fmt.Sprintf("%s accepts the multistate uniform certificate for resale only; %q claims must be resubmitted on %s",
			in.Jurisdiction, in.Fields.ExemptionType, alternatives),
		Rule: fmt.Sprintf("mtc_restrictions.%s.resale_only", in.Jurisdiction),
	}}, nil
}
