package validation

import (
	"fmt"
	"time"

	"github.com/controller-hub/certguard/internal/types"
)

// Input bundles everything a check may consult. Checks are pure: they read
// the input and the immutable rule set and return findings.
type Input struct {
	Fields       *types.CertificateFields
	RuleSet      *types.RuleSet
	Template     *types.FormTemplate // nil when the form is unknown
	Jurisdiction string              // resolved, normalized jurisdiction code
	Now          time.Time
}

// CheckFunc is one independent validation check. It returns zero or more
// findings, or an error when its own evaluation cannot complete.
type CheckFunc func(in Input) ([]types.Finding, error)

type namedCheck struct {
	name string
	fn   CheckFunc
}

// checkOrder fixes the execution order of the pipeline. Evidence rendering
// and resolver input both follow this order.
var checkOrder = []namedCheck{
	{types.CheckTaxability, CheckTaxability},
	{types.CheckExpiration, CheckExpiration},
	{types.CheckSellerProtection, CheckSellerProtection},
	{types.CheckResale, CheckResaleRestriction},
	{types.CheckReasonableness, CheckReasonableness},
}

// RunChecks executes every check in order and collects their findings. A
// check whose evaluation returns an error or panics is converted into a
// single warning finding naming the failed check; the remaining checks still
// run. One defective rule never unwinds the whole evaluation.
func RunChecks(in Input) []types.Finding {
	var all []types.Finding
	for _, check := range checkOrder {
		findings, err := runIsolated(check, in)
		if err != nil {
			all = append(all, types.Finding{
				Check:        check.name,
				Severity:     types.SeverityWarning,
				Message:      fmt.Sprintf("%s check did not complete: %v", check.name, err),
				CheckFailed:  true,
				ForcesReview: types.BlockingCapable(check.name),
			})
			continue
		}
		all = append(all, findings...)
	}
	return all
}

// runIsolated runs one check behind a recover barrier.
func runIsolated(check namedCheck, in Input) (findings []types.Finding, err error) {
	defer func() {
		if r := recover(); r != nil {
			findings = nil
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return check.fn(in)
}
