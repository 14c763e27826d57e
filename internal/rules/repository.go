package rules

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/controller-hub/certguard/internal/schemas"
	"github.com/controller-hub/certguard/internal/types"
)

// Wire documents for the four rule tables. These mirror the on-disk JSON
// exactly so a loaded rule set re-serializes to an equivalent table.
type stateRulesDoc struct {
	States map[string]types.StateRule `json:"states"`
}

type mtcRestrictionsDoc struct {
	Jurisdictions map[string]types.MTCRestriction `json:"jurisdictions"`
}

type reasonablenessDoc struct {
	ExemptionTypes map[string][]types.ReasonablenessTier `json:"exemption_types"`
}

type formTemplatesDoc struct {
	Forms []types.FormTemplate `json:"forms"`
}

// Load reads, schema-validates, and decodes the four rule tables from a
// directory. Any malformed table yields a ConfigError and no RuleSet.
func Load(dir string) (*types.RuleSet, error) {
	readTable := func(table string) ([]byte, error) {
		path := filepath.Join(dir, table+".json")
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &ConfigError{Table: table, Message: fmt.Sprintf("cannot read %s", path), Cause: err}
		}
		if err := schemas.ValidateTable(table, data); err != nil {
			return nil, &ConfigError{Table: table, Message: "schema violation", Cause: err}
		}
		return data, nil
	}

	stateData, err := readTable(schemas.TableStateRules)
	if err != nil {
		return nil, err
	}
	mtcData, err := readTable(schemas.TableMTC)
	if err != nil {
		return nil, err
	}
	reasonData, err := readTable(schemas.TableReasonableness)
	if err != nil {
		return nil, err
	}
	formData, err := readTable(schemas.TableFormTemplates)
	if err != nil {
		return nil, err
	}

	return Parse(stateData, mtcData, reasonData, formData)
}

// Parse decodes pre-read rule table documents into a RuleSet. Documents must
// already be schema-valid; Parse still rejects duplicate keys, which
// encoding/json would otherwise silently collapse.
func Parse(stateData, mtcData, reasonData, formData []byte) (*types.RuleSet, error) {
	if err := checkDuplicateKeys(schemas.TableStateRules, stateData, "states"); err != nil {
		return nil, err
	}
	if err := checkDuplicateKeys(schemas.TableMTC, mtcData, "jurisdictions"); err != nil {
		return nil, err
	}
	if err := checkDuplicateKeys(schemas.TableReasonableness, reasonData, "exemption_types"); err != nil {
		return nil, err
	}

	var states stateRulesDoc
	if err := json.Unmarshal(stateData, &states); err != nil {
		return nil, &ConfigError{Table: schemas.TableStateRules, Message: "cannot decode", Cause: err}
	}
	var mtc mtcRestrictionsDoc
	if err := json.Unmarshal(mtcData, &mtc); err != nil {
		return nil, &ConfigError{Table: schemas.TableMTC, Message: "cannot decode", Cause: err}
	}
	var reason reasonablenessDoc
	if err := json.Unmarshal(reasonData, &reason); err != nil {
		return nil, &ConfigError{Table: schemas.TableReasonableness, Message: "cannot decode", Cause: err}
	}
	var forms formTemplatesDoc
	if err := json.Unmarshal(formData, &forms); err != nil {
		return nil, &ConfigError{Table: schemas.TableFormTemplates, Message: "cannot decode", Cause: err}
	}

	seen := make(map[string]bool, len(forms.Forms))
	for _, form := range forms.Forms {
		if seen[form.ID] {
			return nil, &ConfigError{
				Table:   schemas.TableFormTemplates,
				Message: fmt.Sprintf("duplicate form id %q", form.ID),
			}
		}
		seen[form.ID] = true
	}

	for state, rule := range states.States {
		if rule.Expiration.Mode == types.ExpirationPeriodic && rule.Expiration.RenewalYears == 0 {
			return nil, &ConfigError{
				Table:   schemas.TableStateRules,
				Message: fmt.Sprintf("%s: periodic expiration policy requires renewal_years", state),
			}
		}
	}

	for exemptionType, tiers := range reason.ExemptionTypes {
		for _, tier := range tiers {
			if !types.ValidSeverity(tier.Severity) || tier.Severity == types.SeverityBlocking {
				return nil, &ConfigError{
					Table:   schemas.TableReasonableness,
					Message: fmt.Sprintf("%s/%s: unknown or disallowed severity %q", exemptionType, tier.Name, tier.Severity),
				}
			}
		}
	}

	return &types.RuleSet{
		States:         states.States,
		MTC:            mtc.Jurisdictions,
		Reasonableness: reason.ExemptionTypes,
		Forms:          forms.Forms,
	}, nil
}

// checkDuplicateKeys walks the named top-level object with a token decoder.
// encoding/json keeps only the last value for a repeated key, so duplicates
// must be caught before unmarshal.
func checkDuplicateKeys(table string, data []byte, objectKey string) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	// Advance to the value of objectKey at depth 1.
	tok, err := dec.Token()
	if err != nil {
		return &ConfigError{Table: table, Message: "cannot tokenize", Cause: err}
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return &ConfigError{Table: table, Message: "document is not a JSON object"}
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return &ConfigError{Table: table, Message: "cannot tokenize", Cause: err}
		}
		key, _ := keyTok.(string)
		if key != objectKey {
			// Skip the value of an unrelated top-level key.
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return &ConfigError{Table: table, Message: "cannot tokenize", Cause: err}
			}
			continue
		}

		openTok, err := dec.Token()
		if err != nil {
			return &ConfigError{Table: table, Message: "cannot tokenize", Cause: err}
		}
		if delim, ok := openTok.(json.Delim); !ok || delim != '{' {
			return &ConfigError{Table: table, Message: fmt.Sprintf("%q is not a JSON object", objectKey)}
		}

		seen := make(map[string]bool)
		for dec.More() {
			entryTok, err := dec.Token()
			if err != nil {
				return &ConfigError{Table: table, Message: "cannot tokenize", Cause: err}
			}
			entry, _ := entryTok.(string)
			if seen[entry] {
				return &ConfigError{Table: table, Message: fmt.Sprintf("duplicate key %q", entry)}
			}
			seen[entry] = true

			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return &ConfigError{Table: table, Message: "cannot tokenize", Cause: err}
			}
		}
		return nil
	}
	return nil
}

// Export re-serializes a RuleSet into the four wire documents. A rule set
// loaded from a table and exported reproduces an equivalent table.
func Export(rs *types.RuleSet) (stateData, mtcData, reasonData, formData []byte, err error) {
	stateData, err = json.MarshalIndent(stateRulesDoc{States: rs.States}, "", "  ")
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to marshal state rules: %w", err)
	}
	mtcData, err = json.MarshalIndent(mtcRestrictionsDoc{Jurisdictions: rs.MTC}, "", "  ")
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to marshal mtc restrictions: %w", err)
	}
	reasonData, err = json.MarshalIndent(reasonablenessDoc{ExemptionTypes: rs.Reasonableness}, "", "  ")
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to marshal reasonableness rules: %w", err)
	}
	formData, err = json.MarshalIndent(formTemplatesDoc{Forms: rs.Forms}, "", "  ")
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to marshal form templates: %w", err)
	}
	return stateData, mtcData, reasonData, formData, nil
}

// Repository holds the active RuleSet. Reload swaps the whole set atomically
// at a batch boundary; in-flight validations keep the set they started with.
type Repository struct {
	dir     string
	current atomic.Pointer[types.RuleSet]
}

// Open loads the rule tables from dir and returns a repository serving them.
func Open(dir string) (*Repository, error) {
	rs, err := Load(dir)
	if err != nil {
		return nil, err
	}
	repo := &Repository{dir: dir}
	repo.current.Store(rs)
	return repo, nil
}

// RuleSet returns the active rule set. The returned value is immutable and
// safe for unsynchronized concurrent reads.
func (r *Repository) RuleSet() *types.RuleSet {
	return r.current.Load()
}

// Reload re-reads the tables from disk and swaps them in atomically. On
// failure the previous rule set stays active.
func (r *Repository) Reload() error {
	rs, err := Load(r.dir)
	if err != nil {
		return err
	}
	r.current.Store(rs)
	return nil
}

// Lookup returns the state rule for a jurisdiction or a NotFoundError.
func (r *Repository) Lookup(jurisdiction string) (types.StateRule, error) {
	rule, ok := r.RuleSet().State(jurisdiction)
	if !ok {
		return types.StateRule{}, &NotFoundError{Jurisdiction: jurisdiction}
	}
	return rule, nil
}
