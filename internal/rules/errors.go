// Package rules loads and indexes the jurisdiction rule tables.
package rules

import "fmt"

// ConfigError represents a malformed rule table. It is fatal at load time:
// no certificate is processed against a rule set that failed to load.
type ConfigError struct {
	Table   string
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("config error in %s: %s: %v", e.Table, e.Message, e.Cause)
	}
	return fmt.Sprintf("config error in %s: %s", e.Table, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// NotFoundError reports a jurisdiction absent from the rule tables.
type NotFoundError struct {
	Jurisdiction string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("jurisdiction %s not found in rule tables", e.Jurisdiction)
}
