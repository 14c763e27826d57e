package validation

import (
	"fmt"
	"strings"

	"github.com/controller-hub/certguard/internal/types"
)

// CheckReasonableness grades the exemption claim against the tier table for
// its exemption type. Tiers are judgment signals, not hard violations: they
// map to info or warning findings only, with the exact thresholds living in
// configuration. The first tier whose patterns match the buyer profile, or
// whose amount threshold the claim crosses, wins.
func CheckReasonableness(in Input) ([]types.Finding, error) {
	tiers := in.RuleSet.Tiers(in.Fields.NormalizedExemptionType())
	if len(tiers) == 0 {
		return nil, nil
	}

	profile := strings.ToLower(strings.TrimSpace(in.Fields.BusinessType + " " + in.Fields.BuyerName))

	for _, tier := range tiers {
		matched, basis := tierMatches(tier, profile, in.Fields.ClaimedAmount)
		if !matched {
			continue
		}

		msg := fmt.Sprintf("claim falls into tier %q%s", tier.Name, basis)
		if tier.Note != "" {
			msg += ". " + tier.Note
		}
		return []types.Finding{{
			Check:    types.CheckReasonableness,
			Severity: tier.Severity,
			Message:  msg,
			Rule:     fmt.Sprintf("reasonableness_rules.%s.%s", in.Fields.NormalizedExemptionType(), tier.Name),
		}}, nil
	}

	return nil, nil
}

// tierMatches reports whether a tier applies, and on what basis. A tier with
// neither patterns nor an amount threshold is a catch-all.
func tierMatches(tier types.ReasonablenessTier, profile string, amount float64) (bool, string) {
	for _, pattern := range tier.Patterns {
		p := strings.ToLower(strings.TrimSpace(pattern))
		if p != "" && strings.Contains(profile, p) {
			return true, fmt.Sprintf(" based on buyer profile signal %q", pattern)
		}
	}
	if tier.MinAmount > 0 && amount >= tier.MinAmount {
		return true, fmt.Sprintf(" based on claimed amount %.2f at or above %.2f", amount, tier.MinAmount)
	}
	if len(tier.Patterns) == 0 && tier.MinAmount == 0 {
		return true, " by default (no stronger tier matched)"
	}
	return false, ""
}
