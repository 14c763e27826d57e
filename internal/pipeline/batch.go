package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/controller-hub/certguard/internal/db"
	"github.com/controller-hub/certguard/internal/rules"
	"github.com/controller-hub/certguard/internal/types"
)

// defaultWorkers bounds batch concurrency when the caller does not set one.
const defaultWorkers = 4

// BatchOptions configures a batch run.
type BatchOptions struct {
	InputDir    string
	OutputDir   string // empty disables per-certificate output files
	Workers     int
	DatabaseURL string // empty disables the disposition archive
	Verbose     bool
	EvaluatedAt time.Time
	Source      FieldSource // nil defaults to JSONFieldSource
}

// Result pairs one input with its disposition.
type Result struct {
	Ref         string                   `json:"ref"`
	Fields      *types.CertificateFields `json:"-"`
	Disposition *types.Disposition       `json:"disposition"`
}

// Summary aggregates a completed batch.
type Summary struct {
	Total      int                `json:"total"`
	Counts     map[types.Code]int `json:"counts"`
	Duplicates []DuplicatePair    `json:"duplicates,omitempty"`
	Elapsed    time.Duration      `json:"elapsed"`
	Results    []Result           `json:"-"`
}

// DuplicatePair identifies two certificates with the same fingerprint. The
// canonical certificate is the older one.
type DuplicatePair struct {
	Canonical string `json:"canonical"`
	Duplicate string `json:"duplicate"`
}

// RunBatch evaluates every *.json field file under the input directory
// concurrently. The rule set is snapshotted once at the batch boundary:
// a hot reload on the repository affects the next batch, never this one.
// No single certificate's defect can fail the batch: extraction and
// evaluation problems become dispositions.
func RunBatch(ctx context.Context, repo *rules.Repository, opts BatchOptions) (*Summary, error) {
	rs := repo.RuleSet()

	source := opts.Source
	if source == nil {
		source = JSONFieldSource{}
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	paths, err := filepath.Glob(filepath.Join(opts.InputDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list input directory: %w", err)
	}
	sort.Strings(paths)
	if len(paths) == 0 {
		return nil, fmt.Errorf("no certificate field files found in %s", opts.InputDir)
	}

	if opts.OutputDir != "" {
		if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// The archive is best effort: a down database degrades to a warning.
	var archive *db.DB
	if opts.DatabaseURL != "" {
		archive, err = db.Connect(ctx, opts.DatabaseURL)
		if err != nil {
			fmt.Printf("Warning: failed to connect to disposition archive: %v\n", err)
			fmt.Printf("Continuing without persistence...\n")
			archive = nil
		} else {
			defer archive.Close()
		}
	}

	var runID string
	if archive != nil {
		id, err := archive.CreateBatchRun(ctx, opts.InputDir)
		if err != nil {
			fmt.Printf("Warning: failed to create batch run record: %v\n", err)
		} else {
			runID = id.String()
			if opts.Verbose {
				fmt.Printf("[VERBOSE] created batch run %s\n", runID)
			}
		}
	}

	started := time.Now()
	results := make([]Result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			// Cancellation stops the batch between certificates.
			if err := gctx.Err(); err != nil {
				return err
			}

			evalOpts := Options{EvaluatedAt: opts.EvaluatedAt}
			fields, err := source.Extract(gctx, path)

			var d *types.Disposition
			if err != nil {
				base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
				d = ExtractionFailure(base, err, evalOpts)
			} else {
				d = Evaluate(fields, rs, evalOpts)
			}
			results[i] = Result{Ref: path, Fields: fields, Disposition: d}

			if opts.Verbose {
				fmt.Printf("[VERBOSE] %s → %s (confidence %.2f)\n", filepath.Base(path), d.Code, d.Confidence)
			}

			if opts.OutputDir != "" {
				if err := writeDisposition(opts.OutputDir, d); err != nil {
					return err
				}
			}
			if archive != nil && runID != "" {
				if err := archive.SaveDisposition(gctx, runID, d); err != nil {
					fmt.Printf("Warning: failed to archive disposition %s: %v\n", d.CertificateID, err)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := summarize(results, time.Since(started))

	if archive != nil && runID != "" {
		if err := archive.CompleteBatchRun(ctx, runID, summary.Total, summary.Counts); err != nil {
			fmt.Printf("Warning: failed to complete batch run record: %v\n", err)
		}
	}
	return summary, nil
}

func writeDisposition(dir string, d *types.Disposition) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal disposition %s: %w", d.CertificateID, err)
	}
	path := filepath.Join(dir, d.CertificateID+".disposition.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write disposition %s: %w", path, err)
	}
	return nil
}

func summarize(results []Result, elapsed time.Duration) *Summary {
	summary := &Summary{
		Total:   len(results),
		Counts:  make(map[types.Code]int),
		Elapsed: elapsed,
		Results: results,
	}
	for _, r := range results {
		summary.Counts[r.Disposition.Code]++
	}
	summary.Duplicates = findDuplicates(results)
	return summary
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9\s]`)

// fingerprint identifies a certificate for duplicate detection: normalized
// buyer name, jurisdiction, exemption type, and issue date. Without an issue
// date the form ID stands in.
func fingerprint(r Result) string {
	if r.Fields == nil {
		return ""
	}
	name := nonAlnum.ReplaceAllString(strings.ToLower(r.Fields.BuyerName), "")
	name = strings.Join(strings.Fields(name), " ")

	if r.Fields.IssueDate != nil {
		return fmt.Sprintf("%s|%s|%s|%s", name, r.Disposition.Jurisdiction,
			r.Fields.NormalizedExemptionType(), r.Fields.IssueDate.Format("2006-01-02"))
	}
	return fmt.Sprintf("%s|%s|%s", name, r.Disposition.Jurisdiction, r.Disposition.FormID)
}

// findDuplicates reports pairs of certificates sharing a fingerprint. The
// earlier certificate (input order, which is sorted and stable) is canonical.
func findDuplicates(results []Result) []DuplicatePair {
	buckets := make(map[string][]Result)
	var order []string
	for _, r := range results {
		fp := fingerprint(r)
		if fp == "" {
			continue
		}
		if _, seen := buckets[fp]; !seen {
			order = append(order, fp)
		}
		buckets[fp] = append(buckets[fp], r)
	}

	var pairs []DuplicatePair
	for _, fp := range order {
		bucket := buckets[fp]
		if len(bucket) < 2 {
			continue
		}
		canonical := bucket[0].Disposition.CertificateID
		for _, dup := range bucket[1:] {
			pairs = append(pairs, DuplicatePair{Canonical: canonical, Duplicate: dup.Disposition.CertificateID})
		}
	}
	return pairs
}
