package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/controller-hub/certguard/internal/observability"
	"github.com/controller-hub/certguard/internal/pipeline"
	"github.com/controller-hub/certguard/internal/rules"
	"github.com/controller-hub/certguard/internal/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Evaluate a single certificate",
	Long:  "Evaluates one extracted certificate field file against the rule tables and writes the resulting disposition as JSON.",
	RunE:  runValidate,
}

var (
	validateFields  string
	validateRules   string
	validateOutput  string
	validateVerbose bool
)

func init() {
	validateCmd.Flags().StringVarP(&validateFields, "fields", "f", "", "Path to extracted certificate fields JSON (required)")
	validateCmd.Flags().StringVarP(&validateRules, "rules", "r", "", "Path to rules directory (required)")
	validateCmd.Flags().StringVarP(&validateOutput, "out", "o", "", "Path to output Disposition JSON file (default: stdout)")
	validateCmd.Flags().BoolVarP(&validateVerbose, "verbose", "v", false, "Print a formatted disposition summary")

	if err := validateCmd.MarkFlagRequired("fields"); err != nil {
		panic(fmt.Sprintf("failed to mark fields flag as required: %v", err))
	}
	if err := validateCmd.MarkFlagRequired("rules"); err != nil {
		panic(fmt.Sprintf("failed to mark rules flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	rs, err := rules.Load(validateRules)
	if err != nil {
		return fmt.Errorf("failed to load rule tables: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	source := pipeline.JSONFieldSource{}
	fields, err := source.Extract(ctx, validateFields)

	var d *types.Disposition
	if err != nil {
		certID := strings.TrimSuffix(filepath.Base(validateFields), filepath.Ext(validateFields))
		d = pipeline.ExtractionFailure(certID, err, pipeline.Options{})
	} else {
		d = pipeline.Evaluate(fields, rs, pipeline.Options{})
	}

	if validateVerbose {
		printer := observability.NewPrinter(os.Stdout)
		printer.PrintDisposition(d)
	}

	jsonBytes, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal disposition to JSON: %w", err)
	}

	if validateOutput == "" {
		fmt.Println(string(jsonBytes))
		return nil
	}

	outputDir := filepath.Dir(validateOutput)
	if outputDir != "" && outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(validateOutput, jsonBytes, 0644); err != nil {
		return fmt.Errorf("failed to write disposition to output file: %w", err)
	}

	fmt.Printf("Disposition %s written to %s\n", d.Code, validateOutput)
	return nil
}
