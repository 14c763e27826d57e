package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchCommand_FlagsValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{
			name: "Missing --in flag",
			args: []string{"batch", "--rules", "config"},
		},
		{
			name: "Missing --rules flag",
			args: []string{"batch", "--in", "certs"},
		},
	}

	binaryPath := getBinaryPath(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binaryPath, tt.args...)
			output, err := cmd.CombinedOutput()
			assert.Error(t, err)
			assert.Contains(t, string(output), "required")
		})
	}
}

func TestBatchCommand_EvaluatesDirectory(t *testing.T) {
	binaryPath := getBinaryPath(t)
	rulesDir := writeRulesFixture(t)

	inputDir := t.TempDir()
	fieldsPath := writeFieldsFixture(t)
	data, err := os.ReadFile(fieldsPath)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "cert-001.json"), data, 0644))

	outputDir := filepath.Join(t.TempDir(), "out")

	cmd := exec.Command(binaryPath, "batch",
		"--in", inputDir,
		"--rules", rulesDir,
		"--out", outputDir)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "command output: %s", output)
	assert.Contains(t, string(output), "Batch Summary")
	assert.Contains(t, string(output), "Certificates: 1")

	_, err = os.Stat(filepath.Join(outputDir, "cert-001.disposition.json"))
	assert.NoError(t, err)
}

func TestBatchCommand_EmptyInputDir(t *testing.T) {
	binaryPath := getBinaryPath(t)
	rulesDir := writeRulesFixture(t)

	cmd := exec.Command(binaryPath, "batch", "--in", t.TempDir(), "--rules", rulesDir)
	output, err := cmd.CombinedOutput()
	assert.Error(t, err)
	assert.Contains(t, string(output), "no certificate field files")
}

func TestBatchCommand_ConfigFileDefaults(t *testing.T) {
	binaryPath := getBinaryPath(t)
	rulesDir := writeRulesFixture(t)

	inputDir := t.TempDir()
	fieldsPath := writeFieldsFixture(t)
	data, err := os.ReadFile(fieldsPath)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "cert-001.json"), data, 0644))

	configPath := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{"workers": 2}`), 0644))

	cmd := exec.Command(binaryPath, "batch",
		"--in", inputDir,
		"--rules", rulesDir,
		"--config", configPath)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "command output: %s", output)
	assert.Contains(t, string(output), "Certificates: 1")
}
