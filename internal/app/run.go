package app

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"insider-data/internal/collect"
	"insider-data/internal/edgar"
	"insider-data/internal/store"
)

// TickersFromFile reads one symbol or CIK per line; blank lines are skipped.
func TickersFromFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ticker file: %w", err)
	}
	defer f.Close()

	var symbols []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if s := strings.TrimSpace(scanner.Text()); s != "" {
			symbols = append(symbols, s)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ticker file: %w", err)
	}
	return symbols, nil
}

// Run executes one collection run end to end: resolve symbols, collect
// per-issuer transactions through the worker pool, write the run report and
// save the dataset. The returned error is nil only when at least one issuer
// was fully processed and the results were saved; per-filing and per-issuer
// failures alone do not fail the run.
func Run(ctx context.Context, cfg *Config, symbols []string) error {
	st := store.New(cfg.OutputPath, cfg.CSVSep)
	if st == nil {
		return fmt.Errorf("unsupported output format %q (use: .csv, .txt, .xlsx, .db, .parquet, .json)", cfg.OutputPath)
	}
	policy, err := store.ParsePolicy(cfg.SavePolicy)
	if err != nil {
		return err
	}

	client := edgar.NewClient(
		edgar.WithUserAgent(cfg.UserAgent),
		edgar.WithMinInterval(cfg.RequestInterval),
		edgar.WithMaxRetries(cfg.MaxRetries),
	)

	resolved, err := client.ResolveTickers(ctx, symbols)
	if err != nil {
		return err
	}
	if len(resolved) == 0 {
		return fmt.Errorf("none of the %d symbols resolved to an issuer", len(symbols))
	}

	// Jobs keep the caller's symbol order; unresolved symbols were already
	// warned about by the resolver.
	var jobs []collect.Job
	seen := make(map[string]bool, len(resolved))
	for _, sym := range symbols {
		cik, ok := resolved[sym]
		if !ok || seen[sym] {
			continue
		}
		seen[sym] = true
		jobs = append(jobs, collect.Job{Symbol: sym, CIK: cik})
	}

	collector := &collect.Collector{
		Client:       client,
		FilingLimit:  cfg.FilingLimit,
		CombineDates: cfg.CombineDates,
	}

	transactions, report, fatal := collect.Run(ctx, collector, jobs, cfg.Workers)
	if err := report.Write(filepath.Dir(cfg.OutputPath)); err != nil {
		slog.Warn("could not write run report", "error", err)
	}
	if fatal != nil {
		// Nothing is saved: the prior dataset stays intact.
		return fmt.Errorf("run aborted: %w", fatal)
	}
	if len(report.Succeeded) == 0 {
		return fmt.Errorf("no issuer fully processed (%d failed)", len(report.Failed))
	}

	if err := st.Save(transactions, policy); err != nil {
		return fmt.Errorf("saving results: %w", err)
	}
	slog.Info("saved results",
		"path", cfg.OutputPath,
		"policy", policy,
		"new_records", len(transactions))
	return nil
}
