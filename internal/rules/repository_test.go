package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/controller-hub/certguard/internal/types"
)

const validStateRules = `{
	"states": {
		"TX": {
			"saas_taxable": true,
			"expiration_policy": {"mode": "perpetual"},
			"seller_protection_policy": {"required_elements": [{"name": "signature", "mandatory": true}]}
		},
		"WA": {
			"saas_taxable": true,
			"sst_member": true,
			"expiration_policy": {"mode": "periodic", "renewal_years": 4},
			"seller_protection_policy": {"required_elements": [{"name": "buyer_name", "mandatory": true}]}
		}
	}
}`

const validMTC = `{
	"jurisdictions": {
		"CA": {"resale_only": true, "alternative_forms": ["CDTFA-230"]}
	}
}`

const validReasonableness = `{
	"exemption_types": {
		"resale": [
			{"name": "strong", "patterns": ["distributor"], "severity": "info"},
			{"name": "default", "severity": "warning"}
		]
	}
}`

const validForms = `{
	"forms": [
		{"id": "mtc_uniform", "mtc": true, "patterns": [{"text": "multistate tax commission", "weight": 2}]},
		{"id": "tx_01_339", "jurisdiction": "TX", "patterns": [{"text": "01-339"}]}
	]
}`

// writeRulesDir lays out the four table files in a temp directory.
func writeRulesDir(t *testing.T, state, mtc, reason, forms string) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"state_rules.json":          state,
		"mtc_restrictions.json":     mtc,
		"reasonableness_rules.json": reason,
		"form_templates.json":       forms,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func TestLoad_ValidTables(t *testing.T) {
	dir := writeRulesDir(t, validStateRules, validMTC, validReasonableness, validForms)

	rs, err := Load(dir)
	require.NoError(t, err)
	assert.Len(t, rs.States, 2)
	assert.Len(t, rs.MTC, 1)
	assert.Len(t, rs.Reasonableness, 1)
	require.Len(t, rs.Forms, 2)

	// Declaration order must survive the load.
	assert.Equal(t, "mtc_uniform", rs.Forms[0].ID)
	assert.Equal(t, "tx_01_339", rs.Forms[1].ID)

	wa, ok := rs.State("WA")
	require.True(t, ok)
	assert.Equal(t, types.ExpirationPeriodic, wa.Expiration.Mode)
	assert.Equal(t, 4, wa.Expiration.RenewalYears)
}

func TestLoad_MissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(dir)
	require.Error(t, err)

	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestLoad_SchemaViolation(t *testing.T) {
	bad := `{"states": {"TX": {"expiration_policy": {"mode": "perpetual"}}}}`
	dir := writeRulesDir(t, bad, validMTC, validReasonableness, validForms)

	_, err := Load(dir)
	require.Error(t, err)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "state_rules", cfgErr.Table)
}

func TestLoad_DuplicateStateKey(t *testing.T) {
	dup := `{
		"states": {
			"TX": {"saas_taxable": true, "expiration_policy": {"mode": "perpetual"}, "seller_protection_policy": {"required_elements": []}},
			"TX": {"saas_taxable": false, "expiration_policy": {"mode": "perpetual"}, "seller_protection_policy": {"required_elements": []}}
		}
	}`
	dir := writeRulesDir(t, dup, validMTC, validReasonableness, validForms)

	_, err := Load(dir)
	require.Error(t, err)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Message, "duplicate key")
}

func TestLoad_DuplicateFormID(t *testing.T) {
	dup := `{
		"forms": [
			{"id": "mtc_uniform", "patterns": [{"text": "a"}]},
			{"id": "mtc_uniform", "patterns": [{"text": "b"}]}
		]
	}`
	dir := writeRulesDir(t, validStateRules, validMTC, validReasonableness, dup)

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate form id")
}

func TestLoad_PeriodicWithoutRenewalYears(t *testing.T) {
	bad := `{
		"states": {
			"WA": {
				"saas_taxable": true,
				"expiration_policy": {"mode": "periodic"},
				"seller_protection_policy": {"required_elements": []}
			}
		}
	}`
	dir := writeRulesDir(t, bad, validMTC, validReasonableness, validForms)

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "renewal_years")
}

func TestExport_RoundTrip(t *testing.T) {
	dir := writeRulesDir(t, validStateRules, validMTC, validReasonableness, validForms)
	rs, err := Load(dir)
	require.NoError(t, err)

	stateData, mtcData, reasonData, formData, err := Export(rs)
	require.NoError(t, err)

	reloaded, err := Parse(stateData, mtcData, reasonData, formData)
	require.NoError(t, err)
	assert.Equal(t, rs, reloaded)
}

func TestRepository_LookupAndNotFound(t *testing.T) {
	dir := writeRulesDir(t, validStateRules, validMTC, validReasonableness, validForms)
	repo, err := Open(dir)
	require.NoError(t, err)

	rule, err := repo.Lookup("TX")
	require.NoError(t, err)
	assert.True(t, rule.SaaSTaxable)

	// Repeated lookups return the identical record.
	again, err := repo.Lookup("TX")
	require.NoError(t, err)
	assert.Equal(t, rule, again)

	_, err = repo.Lookup("ZZ")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "ZZ", notFound.Jurisdiction)
}

func TestRepository_ReloadSwapsAtomically(t *testing.T) {
	dir := writeRulesDir(t, validStateRules, validMTC, validReasonableness, validForms)
	repo, err := Open(dir)
	require.NoError(t, err)

	before := repo.RuleSet()

	updated := `{
		"states": {
			"TX": {
				"saas_taxable": false,
				"expiration_policy": {"mode": "perpetual"},
				"seller_protection_policy": {"required_elements": []}
			}
		}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "state_rules.json"), []byte(updated), 0644))
	require.NoError(t, repo.Reload())

	after := repo.RuleSet()
	assert.NotSame(t, before, after)

	rule, ok := after.State("TX")
	require.True(t, ok)
	assert.False(t, rule.SaaSTaxable)

	// The snapshot taken before the reload is untouched.
	oldRule, ok := before.State("TX")
	require.True(t, ok)
	assert.True(t, oldRule.SaaSTaxable)
}

func TestRepository_ReloadFailureKeepsPrevious(t *testing.T) {
	dir := writeRulesDir(t, validStateRules, validMTC, validReasonableness, validForms)
	repo, err := Open(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "state_rules.json"), []byte(`{"states": 12}`), 0644))
	require.Error(t, repo.Reload())

	_, ok := repo.RuleSet().State("WA")
	assert.True(t, ok)
}

func TestLoad_RejectsUnknownSeverityValue(t *testing.T) {
	bad := `{
		"exemption_types": {
			"resale": [{"name": "default", "severity": "critical"}]
		}
	}`
	dir := writeRulesDir(t, validStateRules, validMTC, bad, validForms)

	_, err := Load(dir)
	require.Error(t, err)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "reasonableness_rules", cfgErr.Table)
}
