package main

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"time"

	"github.com/featureplan/featureplan/internal/usage"
)

// runUsage handles the "featureplan usage" subcommand. It prints token
// and cost totals for the last 30 days, broken down by synthesis stage.
func runUsage(w io.Writer, configPath string) error {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if cfg.DataDir == "" {
		return fmt.Errorf("usage tracking is disabled: set data_dir in the config file")
	}

	store, err := usage.NewStore(filepath.Join(cfg.DataDir, "usage.db"))
	if err != nil {
		return fmt.Errorf("open usage store: %w", err)
	}
	defer store.Close()

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -30)

	sum, err := store.Summary(start, end)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Usage for the last 30 days (%d API calls)\n", sum.TotalRecords)
	fmt.Fprintf(w, "  input tokens:  %d\n", sum.TotalInputTokens)
	fmt.Fprintf(w, "  output tokens: %d\n", sum.TotalOutputTokens)
	fmt.Fprintf(w, "  cost:          $%.4f\n", sum.TotalCostUSD)

	byStage, err := store.SummaryByStage(start, end)
	if err != nil {
		return err
	}
	if len(byStage) == 0 {
		return nil
	}

	stages := make([]string, 0, len(byStage))
	for stage := range byStage {
		stages = append(stages, stage)
	}
	sort.Strings(stages)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "By stage:")
	for _, stage := range stages {
		s := byStage[stage]
		fmt.Fprintf(w, "  %-8s %6d in / %6d out  $%.4f\n", stage, s.TotalInputTokens, s.TotalOutputTokens, s.TotalCostUSD)
	}
	return nil
}
