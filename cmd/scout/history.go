package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"ingredient-scout/scout/pkg/api/types"
	"ingredient-scout/scout/pkg/cli"
	"ingredient-scout/scout/pkg/config"
	"ingredient-scout/scout/pkg/conflict"
	"ingredient-scout/scout/pkg/history"
	"ingredient-scout/scout/pkg/history/export"
	"ingredient-scout/scout/pkg/history/retention"
	"ingredient-scout/scout/pkg/history/storage"
)

var historyQueryFlags struct {
	status string
	rule   string
	since  string
	until  string
	limit  int
	offset int
	format string
}

var historyExportFlags struct {
	status   string
	rule     string
	since    string
	until    string
	format   string
	output   string
	noHeader bool
}

var historyPruneFlags struct {
	days       int
	maxRecords int64
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded analyses",
	Long: `Inspect and maintain the analysis history.

The history is written by "scout serve" when history.enabled is true. These
commands open the configured storage directly, so they need a persistent
backend such as sqlite.`,
}

var historyQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "List recorded analyses",
	Example: `  # Latest analyses
  scout history query

  # Dangerous routines from the last day
  scout history query --status danger --since 24h

  # Every retinoid conflict as JSON
  scout history query --rule retinoid_acid --format json`,
	RunE: runHistoryQuery,
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded analyses as CSV or JSON",
	Long: `Export every recorded analysis matching the filters, oldest first.

Formats are csv, json (an array) and ndjson (one record per line). Records
are read page by page, so large histories can be exported to a file
without loading them into memory.`,
	Example: `  # Whole history as CSV
  scout history export --format csv --output history.csv

  # Last week's dangerous routines as NDJSON on stdout
  scout history export --status danger --since 168h --format ndjson`,
	RunE: runHistoryExport,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Apply the retention policy now",
	Long: `Delete records older than the retention period and the oldest records
beyond the record cap. The limits default to history.retention.`,
	Example: `  # Prune with the configured policy
  scout history prune

  # Keep one week and at most 10000 records
  scout history prune --days 7 --max-records 10000`,
	RunE: runHistoryPrune,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyQueryCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyPruneCmd)

	f := historyQueryCmd.Flags()
	f.StringVar(&historyQueryFlags.status, "status", "", "filter by status: safe, danger")
	f.StringVar(&historyQueryFlags.rule, "rule", "", "filter by matched rule ID")
	f.StringVar(&historyQueryFlags.since, "since", "", "only records after this time (RFC 3339 or a duration like 24h)")
	f.StringVar(&historyQueryFlags.until, "until", "", "only records before this time (RFC 3339 or a duration like 1h)")
	f.IntVar(&historyQueryFlags.limit, "limit", 20, "maximum number of records")
	f.IntVar(&historyQueryFlags.offset, "offset", 0, "records to skip")
	f.StringVarP(&historyQueryFlags.format, "format", "f", "text", "output format: text, json, yaml")

	ef := historyExportCmd.Flags()
	ef.StringVar(&historyExportFlags.status, "status", "", "filter by status: safe, danger")
	ef.StringVar(&historyExportFlags.rule, "rule", "", "filter by matched rule ID")
	ef.StringVar(&historyExportFlags.since, "since", "", "only records after this time (RFC 3339 or a duration like 24h)")
	ef.StringVar(&historyExportFlags.until, "until", "", "only records before this time (RFC 3339 or a duration like 1h)")
	ef.StringVarP(&historyExportFlags.format, "format", "f", export.FormatCSV, "export format: csv, json, ndjson")
	ef.StringVarP(&historyExportFlags.output, "output", "o", "", "output file (default stdout)")
	ef.BoolVar(&historyExportFlags.noHeader, "no-header", false, "omit the CSV header row")

	historyPruneCmd.Flags().IntVar(&historyPruneFlags.days, "days", 0, "retention period in days (overrides config)")
	historyPruneCmd.Flags().Int64Var(&historyPruneFlags.maxRecords, "max-records", 0, "record cap (overrides config)")
}

func runHistoryQuery(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(historyQueryFlags.format)
	if err != nil {
		return err
	}

	now := time.Now()
	q := &history.Query{
		Status: conflict.Status(historyQueryFlags.status),
		Rule:   conflict.RuleID(historyQueryFlags.rule),
		Limit:  historyQueryFlags.limit,
		Offset: historyQueryFlags.offset,
	}
	if q.Since, err = parseTimeFlag(historyQueryFlags.since, now); err != nil {
		return cli.NewConfigError("since", err.Error())
	}
	if q.Until, err = parseTimeFlag(historyQueryFlags.until, now); err != nil {
		return cli.NewConfigError("until", err.Error())
	}
	q.ApplyDefaults()
	if err := q.Validate(); err != nil {
		return cli.NewConfigError("query", err.Error())
	}

	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	records, err := store.Query(ctx, q)
	if err != nil {
		return cli.NewCommandError("history query", err)
	}
	total, err := store.Count(ctx, q)
	if err != nil {
		return cli.NewCommandError("history query", err)
	}

	out := cmd.OutOrStdout()
	if format == cli.FormatText {
		err = cli.WriteHistoryTable(out, records, total, cli.DefaultStyles())
	} else {
		if records == nil {
			records = []*history.Record{}
		}
		err = cli.NewFormatter(format).FormatTo(out, types.HistoryResponse{
			Records: records,
			Total:   total,
			Limit:   q.Limit,
			Offset:  q.Offset,
		})
	}
	if err != nil {
		return cli.NewCommandError("history query", err)
	}
	return nil
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	var exporter export.Exporter
	switch historyExportFlags.format {
	case export.FormatCSV:
		exporter = export.NewCSVExporter(!historyExportFlags.noHeader)
	case export.FormatJSON:
		exporter = export.NewJSONExporter(true)
	case "ndjson":
		exporter = export.NewNDJSONExporter()
	default:
		return cli.NewConfigError("format", fmt.Sprintf("unknown export format %q (want csv, json or ndjson)", historyExportFlags.format))
	}

	now := time.Now()
	q := history.Query{
		Status: conflict.Status(historyExportFlags.status),
		Rule:   conflict.RuleID(historyExportFlags.rule),
	}
	var err error
	if q.Since, err = parseTimeFlag(historyExportFlags.since, now); err != nil {
		return cli.NewConfigError("since", err.Error())
	}
	if q.Until, err = parseTimeFlag(historyExportFlags.until, now); err != nil {
		return cli.NewConfigError("until", err.Error())
	}
	if err := q.Validate(); err != nil {
		return cli.NewConfigError("query", err.Error())
	}

	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var out io.Writer = cmd.OutOrStdout()
	if historyExportFlags.output != "" {
		f, err := os.Create(historyExportFlags.output)
		if err != nil {
			return cli.NewCommandError("history export", err)
		}
		defer f.Close()
		out = f
	}

	records, errs := export.Stream(ctx, store, q, history.MaxLimit)
	exportErr := exporter.ExportStream(ctx, records, out)
	if exportErr != nil {
		// Drain so the reader goroutine can finish.
		for range records {
		}
	}
	streamErr := <-errs
	if exportErr != nil {
		return cli.NewCommandError("history export", exportErr)
	}
	if streamErr != nil {
		return cli.NewCommandError("history export", streamErr)
	}

	if historyExportFlags.output != "" {
		total, err := store.Count(ctx, &q)
		if err != nil {
			return cli.NewCommandError("history export", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d record(s) to %s\n", total, historyExportFlags.output)
	}
	return nil
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	rc := retention.ConfigFrom(cfg.History.Retention)
	if historyPruneFlags.days > 0 {
		rc.RetentionDays = historyPruneFlags.days
	}
	if historyPruneFlags.maxRecords > 0 {
		rc.MaxRecords = historyPruneFlags.maxRecords
	}

	store, err := openHistoryWith(cfg.History)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	deleted, err := retention.NewPruner(store, rc).Prune(ctx)
	if err != nil {
		return cli.NewCommandError("history prune", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d record(s)\n", deleted)
	return nil
}

func openHistory() (history.Storage, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return openHistoryWith(cfg.History)
}

// openHistoryWith opens the configured history storage. The memory backend
// only lives inside a running server, so it is rejected here.
func openHistoryWith(cfg config.HistoryConfig) (history.Storage, error) {
	if cfg.Backend == storage.BackendMemory {
		return nil, cli.NewConfigError("history.backend", "the memory backend cannot be read outside the server")
	}
	store, err := storage.New(cfg)
	if err != nil {
		return nil, cli.NewCommandError("history", err)
	}
	return store, nil
}

// parseTimeFlag accepts an RFC 3339 timestamp or a duration before now.
func parseTimeFlag(v string, now time.Time) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	if d, err := time.ParseDuration(v); err == nil {
		t := now.Add(-d)
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, fmt.Errorf("invalid time %q: want RFC 3339 or a duration", v)
	}
	return &t, nil
}
