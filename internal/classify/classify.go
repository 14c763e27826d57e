// Package classify matches raw certificate text against form templates.
package classify

import (
	"strings"

	"github.com/controller-hub/certguard/internal/types"
)

// acceptanceThreshold is the minimum weighted match score for a template to
// be accepted. Below it the classifier reports an unknown form rather than
// guessing.
const acceptanceThreshold = 0.6

// Result is the outcome of form classification.
type Result struct {
	FormID       string  `json:"form_id"`
	Jurisdiction string  `json:"jurisdiction,omitempty"`
	Confidence   float64 `json:"confidence"`

	// Known is false when no template scored at or above the acceptance
	// threshold. An unknown form always forces human review downstream.
	Known bool `json:"known"`

	// MatchedPatterns lists the template phrases found in the text, for
	// evidence rendering.
	MatchedPatterns []string `json:"matched_patterns,omitempty"`

	Template *types.FormTemplate `json:"-"`
}

// Classify scores the raw text against every form template and selects the
// best match. Ties break in template declaration order (first listed wins) so
// the result is deterministic.
func Classify(rawText string, rs *types.RuleSet) Result {
	normalized := strings.ToLower(rawText)

	best := Result{FormID: "unknown"}
	for i := range rs.Forms {
		tmpl := &rs.Forms[i]
		score, matched := scoreTemplate(normalized, tmpl)
		if score > best.Confidence {
			best = Result{
				FormID:          tmpl.ID,
				Jurisdiction:    tmpl.Jurisdiction,
				Confidence:      score,
				MatchedPatterns: matched,
				Template:        tmpl,
			}
		}
	}

	if best.Confidence >= acceptanceThreshold {
		best.Known = true
		return best
	}

	// Keep the score for confidence reporting but drop the guess.
	return Result{FormID: "unknown", Confidence: best.Confidence}
}

// scoreTemplate computes the weighted fraction of template patterns present
// in the normalized text.
func scoreTemplate(normalizedText string, tmpl *types.FormTemplate) (float64, []string) {
	totalWeight := 0.0
	matchedWeight := 0.0
	var matched []string

	for _, pattern := range tmpl.Patterns {
		weight := pattern.Weight
		if weight == 0 {
			weight = 1
		}
		totalWeight += weight

		phrase := strings.ToLower(strings.TrimSpace(pattern.Text))
		if phrase == "" {
			continue
		}
		if strings.Contains(normalizedText, phrase) {
			matchedWeight += weight
			matched = append(matched, pattern.Text)
		}
	}

	if totalWeight == 0 {
		return 0.0, nil
	}
	return matchedWeight / totalWeight, matched
}
