package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/controller-hub/certguard/internal/config"
	"github.com/controller-hub/certguard/internal/observability"
	"github.com/controller-hub/certguard/internal/pipeline"
	"github.com/controller-hub/certguard/internal/rules"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Evaluate a directory of certificates",
	Long:  "Evaluates every extracted field file in a directory concurrently, writes one disposition per certificate, and prints a batch summary. Dispositions are archived to PostgreSQL when DATABASE_URL is configured.",
	RunE:  runBatch,
}

var (
	batchInput   string
	batchRules   string
	batchOutput  string
	batchWorkers int
	batchVerbose bool
	batchConfig  string
)

func init() {
	batchCmd.Flags().StringVarP(&batchInput, "in", "i", "", "Directory of certificate field JSON files (required)")
	batchCmd.Flags().StringVarP(&batchRules, "rules", "r", "", "Path to rules directory (required)")
	batchCmd.Flags().StringVarP(&batchOutput, "out", "o", "", "Directory for per-certificate disposition files")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "Concurrent workers (default 4)")
	batchCmd.Flags().BoolVarP(&batchVerbose, "verbose", "v", false, "Print per-certificate progress")
	batchCmd.Flags().StringVarP(&batchConfig, "config", "c", "", "Path to JSON config file providing flag defaults")

	if err := batchCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}
	if err := batchCmd.MarkFlagRequired("rules"); err != nil {
		panic(fmt.Sprintf("failed to mark rules flag as required: %v", err))
	}

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, _ []string) error {
	cfg := config.Config{
		RulesDir:    batchRules,
		Input:       batchInput,
		OutputDir:   batchOutput,
		Workers:     batchWorkers,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Verbose:     batchVerbose,
	}
	if batchConfig != "" {
		fileCfg, err := config.LoadConfig(batchConfig)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = cfg.MergeWithDefaults(*fileCfg)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	repo, err := rules.Open(cfg.RulesDir)
	if err != nil {
		return fmt.Errorf("failed to load rule tables: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	fmt.Printf("Evaluating certificates in %s...\n", cfg.Input)
	summary, err := pipeline.RunBatch(ctx, repo, pipeline.BatchOptions{
		InputDir:    cfg.Input,
		OutputDir:   cfg.OutputDir,
		Workers:     cfg.Workers,
		DatabaseURL: cfg.DatabaseURL,
		Verbose:     cfg.Verbose,
	})
	if err != nil {
		return fmt.Errorf("batch run failed: %w", err)
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintBatchSummary(summary)
	return nil
}
