// Package validation runs the independent certificate checks against the rule set.
package validation

import "fmt"

// Error represents a general validation error
type Error struct {
	Check   string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s check error: %s: %v", e.Check, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s check error: %s", e.Check, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// RuleShapeError reports a rule record the check could not interpret, such
// as an unrecognized seller-protection element name.
type RuleShapeError struct {
	Check   string
	Rule    string
	Message string
}

func (e *RuleShapeError) Error() string {
	return fmt.Sprintf("%s check: unexpected rule shape at %s: %s", e.Check, e.Rule, e.Message)
}
