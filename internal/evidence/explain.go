// Package evidence renders dispositions into human-readable explanations.
package evidence

import (
	"fmt"
	"strings"

	"github.com/controller-hub/certguard/internal/types"
)

// Explain renders a disposition as stable, reproducible text: a header line
// with the code and confidence, then one line per finding in check execution
// order, referencing the triggering rule. Identical input always yields
// identical output.
func Explain(d *types.Disposition) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("disposition %s (confidence %.2f)", d.Code, d.Confidence))
	if d.FormID != "" {
		sb.WriteString(fmt.Sprintf(" for form %s", d.FormID))
	}
	if d.Jurisdiction != "" {
		sb.WriteString(fmt.Sprintf(" in %s", d.Jurisdiction))
	}
	sb.WriteString("\n")

	if len(d.Findings) == 0 {
		sb.WriteString("no findings; certificate passed every applicable check\n")
		return sb.String()
	}

	for _, f := range d.Findings {
		sb.WriteString(renderFinding(f))
		sb.WriteString("\n")
	}
	return sb.String()
}

func renderFinding(f types.Finding) string {
	line := fmt.Sprintf("[%s] %s: %s", f.Severity, f.Check, f.Message)
	if f.Rule != "" {
		line += fmt.Sprintf(" (rule %s)", f.Rule)
	}
	if f.CheckFailed {
		line += " [check did not complete]"
	}
	return line
}
