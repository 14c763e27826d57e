// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/controller-hub/certguard/internal/pipeline"
	"github.com/controller-hub/certguard/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxFindingsToShow is the default number of findings to display
	maxFindingsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintDisposition outputs a human-readable summary of one disposition.
func (p *Printer) PrintDisposition(d *types.Disposition) {
	if d == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Code:        %s\n", d.Code))
	sb.WriteString(fmt.Sprintf("Confidence:  %.2f\n", d.Confidence))
	if d.FormID != "" {
		sb.WriteString(fmt.Sprintf("Form:        %s\n", d.FormID))
	}
	if d.Jurisdiction != "" {
		sb.WriteString(fmt.Sprintf("State:       %s\n", d.Jurisdiction))
	}
	if d.SellerProtection != "" {
		sb.WriteString(fmt.Sprintf("Protection:  %s\n", d.SellerProtection))
	}

	if len(d.Findings) > 0 {
		sb.WriteString("\nFindings:\n")
		count := min(len(d.Findings), maxFindingsToShow)
		for i := 0; i < count; i++ {
			f := d.Findings[i]
			sb.WriteString(fmt.Sprintf("  • [%s] %s\n", f.Severity, f.Message))
		}
		if len(d.Findings) > maxFindingsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(d.Findings)-maxFindingsToShow))
		}
	}

	title := "Disposition"
	if d.CertificateID != "" {
		title = fmt.Sprintf("Disposition: %s", d.CertificateID)
	}
	p.printBox(title, strings.TrimRight(sb.String(), "\n"))
}

// PrintBatchSummary outputs the aggregate results of a batch run.
func (p *Printer) PrintBatchSummary(s *pipeline.Summary) {
	if s == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Certificates: %d\n", s.Total))
	sb.WriteString(fmt.Sprintf("Elapsed:      %s\n", s.Elapsed.Round(1e6)))

	codes := make([]string, 0, len(s.Counts))
	for code := range s.Counts {
		codes = append(codes, string(code))
	}
	sort.Strings(codes)
	for _, code := range codes {
		sb.WriteString(fmt.Sprintf("  %-22s %d\n", code, s.Counts[types.Code(code)]))
	}

	if len(s.Duplicates) > 0 {
		sb.WriteString(fmt.Sprintf("\nDuplicates: %d\n", len(s.Duplicates)))
		for _, pair := range s.Duplicates {
			sb.WriteString(fmt.Sprintf("  %s duplicates %s\n", pair.Duplicate, pair.Canonical))
		}
	}

	p.printBox("Batch Summary", strings.TrimRight(sb.String(), "\n"))
}

// PrintRuleSetSummary outputs the table sizes of a loaded rule set.
func (p *Printer) PrintRuleSetSummary(rs *types.RuleSet) {
	if rs == nil {
		return
	}
	content := fmt.Sprintf("State rules:          %d\nMTC restrictions:     %d\nReasonableness types: %d\nForm templates:       %d",
		len(rs.States), len(rs.MTC), len(rs.Reasonableness), len(rs.Forms))
	p.printBox("Rule Set", content)
}
