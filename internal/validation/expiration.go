package validation

import (
	"fmt"

	"github.com/controller-hub/certguard/internal/types"
)

// renewalWindowDays is how far ahead of expiry a renewal warning fires.
const renewalWindowDays = 90

// CheckExpiration evaluates certificate age against the jurisdiction's
// expiration policy. A perpetual policy never raises an age finding no matter
// how old the certificate is. A periodic policy computes expiry from the
// issue date (or uses the printed expiration date when present) and flags
// expired certificates as blocking, near-expiry ones as warnings. An issue
// date in the future is blocking under any policy: it is a data defect, not
// an age question.
func CheckExpiration(in Input) ([]types.Finding, error) {
	rule, ok := in.RuleSet.State(in.Jurisdiction)
	if !ok {
		return nil, nil
	}
	policy := rule.Expiration
	ref := fmt.Sprintf("state_rules.%s.expiration_policy", in.Jurisdiction)

	var findings []types.Finding

	if in.Fields.IssueDate != nil && in.Fields.IssueDate.After(in.Now) {
		findings = append(findings, types.Finding{
			Check:    types.CheckExpiration,
			Severity: types.SeverityBlocking,
			Message:  fmt.Sprintf("certificate issue date %s is in the future", in.Fields.IssueDate.Format("2006-01-02")),
			Rule:     ref,
		})
	}

	if policy.Mode == types.ExpirationPerpetual {
		return findings, nil
	}
	if policy.Mode != types.ExpirationPeriodic {
		return nil, &RuleShapeError{
			Check:   types.CheckExpiration,
			Rule:    ref,
			Message: fmt.Sprintf("unknown expiration mode %q", policy.Mode),
		}
	}

	expiry := in.Fields.ExpirationDate
	if expiry == nil {
		if in.Fields.IssueDate == nil {
			findings = append(findings, types.Finding{
				Check:    types.CheckExpiration,
				Severity: types.SeverityWarning,
				Message:  fmt.Sprintf("%s requires renewal every %d years but the certificate carries no issue or expiration date", in.Jurisdiction, policy.RenewalYears),
				Rule:     ref,
			})
			return findings, nil
		}
		computed := types.Date{Time: in.Fields.IssueDate.AddDate(policy.RenewalYears, 0, 0)}
		expiry = &computed
	}

	citation := ""
	if policy.Citation != "" {
		citation = " Citation: " + policy.Citation
	}

	switch {
	case in.Now.After(expiry.Time):
		findings = append(findings, types.Finding{
			Check:    types.CheckExpiration,
			Severity: types.SeverityBlocking,
			Message:  fmt.Sprintf("certificate expired on %s under %s renewal rules.%s", expiry.Format("2006-01-02"), in.Jurisdiction, citation),
			Rule:     ref,
		})
	case expiry.Sub(in.Now).Hours() <= renewalWindowDays*24:
		findings = append(findings, types.Finding{
			Check:    types.CheckExpiration,
			Severity: types.SeverityWarning,
			Message:  fmt.Sprintf("certificate expires within %d days (%s); queue renewal.%s", renewalWindowDays, expiry.Format("2006-01-02"), citation),
			Rule:     ref,
		})
	}

	return findings, nil
}
