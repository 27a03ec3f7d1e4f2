package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"weeklyschedule/internal/build"
	"weeklyschedule/internal/logging"
	"weeklyschedule/internal/resolve"
	"weeklyschedule/internal/tvmaze"
	"weeklyschedule/internal/window"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Rebuild the catalog artifact once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, ctx)
		},
	}
}

func runBuild(cmd *cobra.Command, ctx *commandContext) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}

	logger, err := logging.NewFromConfig(cfg, logging.NewRunID())
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}

	builder, err := build.New(cfg, build.WithLogger(logger))
	if err != nil {
		return err
	}

	summary, err := builder.Run(cmd.Context())
	if err != nil {
		return err
	}

	renderSummary(cmd.OutOrStdout(), summary, shouldColorize(cmd.OutOrStdout()))
	return nil
}

func renderSummary(out io.Writer, summary build.Summary, colorize bool) {
	fmt.Fprintf(out, "%s %s\n", statusLabel("ok", colorize), summary.OutputPath)

	rows := [][]string{
		{"Window start", window.Start(summary.Discovery.Days, summary.Today).Format(tvmaze.DateLayout)},
		{"Today", summary.Today.Format(tvmaze.DateLayout)},
		{"Schedule queries", fmt.Sprintf("%d (%d failed)", summary.Discovery.Queries, summary.Discovery.FailedQueries)},
		{"Shows discovered", fmt.Sprintf("%d", summary.Discovery.Shows)},
		{"Shows excluded", formatCounts(summary.Discovery.Excluded)},
		{"Outside window", fmt.Sprintf("%d", summary.OutsideWindow)},
		{"Resolved", formatResolved(summary.Resolved)},
		{"Unresolved", fmt.Sprintf("%d", summary.Unresolved)},
		{"Duplicate ids", fmt.Sprintf("%d", summary.DuplicateIDs)},
		{"Series written", fmt.Sprintf("%d", summary.Metas)},
		{"Videos written", fmt.Sprintf("%d", summary.Videos)},
		{"Duration", summary.Duration.Round(time.Millisecond).String()},
	}
	fmt.Fprintln(out, renderTable([]string{"Metric", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))
}

func formatCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "0"
	}
	keys := make([]string, 0, len(counts))
	total := 0
	for k, n := range counts {
		keys = append(keys, k)
		total += n
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	return fmt.Sprintf("%d (%s)", total, strings.Join(parts, ", "))
}

func formatResolved(resolved map[resolve.Source]int) string {
	counts := make(map[string]int, len(resolved))
	for source, n := range resolved {
		counts[string(source)] = n
	}
	return formatCounts(counts)
}
