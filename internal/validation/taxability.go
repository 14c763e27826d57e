package validation

import (
	"fmt"

	"github.com/controller-hub/certguard/internal/types"
)

// ExemptionNotTaxable is the exemption type claiming the purchased category
// is simply not taxable, rather than exempt under a statutory carve-out.
const ExemptionNotTaxable = "not_taxable"

// CheckTaxability compares the claimed exemption against the jurisdiction's
// taxability ruling. A not-taxable claim in a jurisdiction that has ruled the
// category taxable is blocking; where no certificate is required at all the
// check records that as informational context.
func CheckTaxability(in Input) ([]types.Finding, error) {
	rule, ok := in.RuleSet.State(in.Jurisdiction)
	if !ok {
		// Unknown jurisdiction is flagged once by the pipeline, not per check.
		return nil, nil
	}
	ref := fmt.Sprintf("state_rules.%s.saas_taxable", in.Jurisdiction)

	if rule.NoSalesTax {
		return []types.Finding{{
			Check:    types.CheckTaxability,
			Severity: types.SeverityInfo,
			Message:  fmt.Sprintf("%s has no sales tax; certificate is not required", in.Jurisdiction),
			Rule:     ref,
		}}, nil
	}

	if rule.SaaSTaxable && in.Fields.NormalizedExemptionType() == ExemptionNotTaxable {
		return []types.Finding{{
			Check:    types.CheckTaxability,
			Severity: types.SeverityBlocking,
			Message:  fmt.Sprintf("%s has ruled the purchased category taxable; a not-taxable claim cannot support the exemption", in.Jurisdiction),
			Rule:     ref,
		}}, nil
	}

	if !rule.SaaSTaxable {
		msg := fmt.Sprintf("purchased category is not taxable in %s; certificate kept on file as precaution", in.Jurisdiction)
		if rule.Note != "" {
			msg += ". " + rule.Note
		}
		return []types.Finding{{
			Check:    types.CheckTaxability,
			Severity: types.SeverityInfo,
			Message:  msg,
			Rule:     ref,
		}}, nil
	}

	return nil, nil
}
