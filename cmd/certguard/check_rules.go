package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/controller-hub/certguard/internal/observability"
	"github.com/controller-hub/certguard/internal/rules"
)

var checkRulesCmd = &cobra.Command{
	Use:   "check-rules",
	Short: "Load and validate the jurisdiction rule tables",
	Long:  "Loads the four rule tables from a directory, validates them against their schemas, and prints table sizes. Exits non-zero if any table is malformed.",
	RunE:  runCheckRules,
}

var checkRulesDir string

func init() {
	checkRulesCmd.Flags().StringVarP(&checkRulesDir, "rules", "r", "", "Path to rules directory (required)")

	if err := checkRulesCmd.MarkFlagRequired("rules"); err != nil {
		panic(fmt.Sprintf("failed to mark rules flag as required: %v", err))
	}

	rootCmd.AddCommand(checkRulesCmd)
}

func runCheckRules(_ *cobra.Command, _ []string) error {
	rs, err := rules.Load(checkRulesDir)
	if err != nil {
		return fmt.Errorf("rule tables failed validation: %w", err)
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintRuleSetSummary(rs)
	fmt.Printf("Rule tables in %s are valid.\n", checkRulesDir)
	return nil
}
