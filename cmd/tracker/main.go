package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"macroledger/internal/config"
	"macroledger/internal/logger"
	"macroledger/internal/model"
	"macroledger/internal/normalize"
	"macroledger/internal/publish"
	"macroledger/internal/reconcile"
	"macroledger/internal/report"
	"macroledger/internal/store"
	"macroledger/internal/store/sqlite"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "run":
		run(os.Args[2:])
	case "status":
		status(os.Args[2:])
	case "list":
		list(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: tracker <run|status|list> [options]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  run      reconcile a candidate batch into the report document")
	fmt.Fprintln(os.Stderr, "  status   show the latest entry per tracked key and the last run")
	fmt.Fprintln(os.Stderr, "  list     show every entry in every series")
}

func run(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to yaml config")
	reportPath := fs.String("report", "", "report document path (overrides config)")
	dbPath := fs.String("db", "", "sqlite run archive path (overrides config)")
	batchPath := fs.String("batch", "-", "candidate batch file (- = stdin)")
	verbose := fs.Bool("verbose", false, "log each record outcome")
	fs.Parse(args)

	cfg := loadConfig(*configPath, *reportPath, *dbPath)
	logger.Init(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	if err := runReconcile(cfg, *batchPath, *verbose); err != nil {
		fmt.Fprintln(os.Stderr, "reconcile run failed:", err)
		os.Exit(1)
	}
}

func runReconcile(cfg *config.Config, batchPath string, verbose bool) error {
	startedAt := time.Now().UTC()

	batch, err := readBatch(batchPath)
	if err != nil {
		return err
	}

	doc, fresh, err := report.Load(cfg.Report.Path)
	if err != nil {
		return err
	}
	if fresh {
		slog.Info("no usable prior document, starting fresh history", "path", cfg.Report.Path)
	}

	normalized := normalize.Batch(batch)
	for _, rejection := range normalized.Rejections {
		slog.Warn("candidate rejected",
			"key", rejection.Candidate.Key,
			"date", rejection.Candidate.Date,
			"reason", string(rejection.Reason),
		)
	}

	result := reconcile.Apply(doc, normalized.Records, startedAt)
	if verbose {
		for _, outcome := range result.Outcomes {
			slog.Info("record reconciled",
				"kind", string(outcome.Record.Kind),
				"key", outcome.Record.Key,
				"period", outcome.Record.PeriodKey,
				"outcome", string(outcome.Outcome),
			)
		}
	}

	if err := reconcile.Finalize(doc); err != nil {
		return fmt.Errorf("document not persisted: %w", err)
	}

	if err := report.Save(cfg.Report.Path, doc); err != nil {
		return err
	}

	if err := archiveRun(cfg.Archive.Path, startedAt, result, normalized.Rejections); err != nil {
		// The document write already succeeded; a broken archive must not
		// fail the run.
		slog.Error("run archive failed", "error", err)
	}

	fmt.Printf("reconcile run complete (inserted=%d updated=%d skipped=%d rejected=%d)\n",
		result.Inserted, result.Updated, result.Skipped, len(normalized.Rejections),
	)
	if missing := reconcile.Missing(result); len(missing) > 0 {
		fmt.Printf("no update this run: %s\n", strings.Join(missing, ", "))
	}
	return nil
}

func archiveRun(dbPath string, startedAt time.Time, result *reconcile.Result, rejections []model.Rejection) error {
	st, err := openStore(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	runID := uuid.NewString()
	outcomes := make([]store.OutcomeRow, 0, len(result.Outcomes))
	for _, outcome := range result.Outcomes {
		outcomes = append(outcomes, store.OutcomeRow{
			RunID:     runID,
			Kind:      string(outcome.Record.Kind),
			Key:       outcome.Record.Key,
			PeriodKey: outcome.Record.PeriodKey,
			EntryDate: outcome.Record.Date.Format("2006-01-02"),
			Outcome:   string(outcome.Outcome),
		})
	}

	rejectionRows := make([]store.RejectionRow, 0, len(rejections))
	for i, rejection := range rejections {
		rejectionRows = append(rejectionRows, store.RejectionRow{
			RunID:  runID,
			Seq:    i,
			Key:    rejection.Candidate.Key,
			Value:  rejection.Candidate.Value,
			Date:   rejection.Candidate.Date,
			Reason: string(rejection.Reason),
		})
	}

	return st.ArchiveRun(context.Background(), store.RunRecord{
		ID:         runID,
		StartedAt:  startedAt,
		FinishedAt: time.Now().UTC(),
		Inserted:   result.Inserted,
		Updated:    result.Updated,
		Skipped:    result.Skipped,
		Rejected:   len(rejections),
	}, outcomes, rejectionRows)
}

// readBatch decodes a candidate batch. Structured JSON is tried first; if the
// payload is not JSON it is parsed as bullet-formatted text.
func readBatch(path string) ([]model.Candidate, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read batch: %w", err)
	}

	var candidates []model.Candidate
	if err := json.Unmarshal(data, &candidates); err == nil {
		return candidates, nil
	}
	return normalize.ParseBulletText(string(data)), nil
}

func status(args []string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to yaml config")
	reportPath := fs.String("report", "", "report document path (overrides config)")
	dbPath := fs.String("db", "", "sqlite run archive path (overrides config)")
	fs.Parse(args)

	cfg := loadConfig(*configPath, *reportPath, *dbPath)
	logger.Init(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	doc, fresh, err := report.Load(cfg.Report.Path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "status failed:", err)
		os.Exit(1)
	}
	if fresh {
		fmt.Printf("no report document at %s yet\n", cfg.Report.Path)
		return
	}

	latest := publish.BuildLatest(doc, time.Now().UTC().Format(time.RFC3339))
	fmt.Printf("report %s (created %s, updated %s)\n", cfg.Report.Path, doc.Metadata.CreatedAt, doc.Metadata.UpdatedAt)
	for _, key := range model.TrackedIndicators() {
		printLatest(key, latest.Indicators)
	}
	for _, key := range model.TrackedReports() {
		printLatest(key, latest.Reports)
	}

	if cfg.Archive.Path != "" {
		printLastRun(cfg.Archive.Path)
	}
}

func printLatest(key string, entries map[string]publish.LatestEntry) {
	entry, ok := entries[key]
	if !ok {
		fmt.Printf("  %-28s no data\n", key)
		return
	}
	value := entry.Value
	if len(value) > 60 {
		value = value[:57] + "..."
	}
	fmt.Printf("  %-28s %s  %-8s %s\n", key, entry.Date, entry.PeriodKey, value)
}

func printLastRun(dbPath string) {
	st, err := sqlite.New(dbPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "warning: cannot open run archive:", err)
		return
	}
	defer st.Close()

	runs, err := st.ListRuns(context.Background(), 1)
	if err != nil {
		fmt.Fprintln(os.Stderr, "warning: cannot list runs:", err)
		return
	}
	if len(runs) == 0 {
		fmt.Println("no archived runs")
		return
	}
	run := runs[0]
	fmt.Printf("last run %s at %s (inserted=%d updated=%d skipped=%d rejected=%d)\n",
		run.ID, run.StartedAt.Format(time.RFC3339), run.Inserted, run.Updated, run.Skipped, run.Rejected,
	)
}

func list(args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to yaml config")
	reportPath := fs.String("report", "", "report document path (overrides config)")
	fs.Parse(args)

	cfg := loadConfig(*configPath, *reportPath, "")
	logger.Init(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	doc, fresh, err := report.Load(cfg.Report.Path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "list failed:", err)
		os.Exit(1)
	}
	if fresh {
		fmt.Printf("no report document at %s yet\n", cfg.Report.Path)
		return
	}

	for _, key := range model.TrackedIndicators() {
		fmt.Printf("%s:\n", key)
		for _, entry := range doc.IndicatorSeries[key] {
			fmt.Printf("  %-8s %s  %s\n", entry.PeriodKey, entry.DatePublished, entry.Value)
		}
	}
	for _, key := range model.TrackedReports() {
		fmt.Printf("%s:\n", key)
		for _, entry := range doc.ReportSeries[key] {
			summary := entry.Summary
			if len(summary) > 72 {
				summary = summary[:69] + "..."
			}
			fmt.Printf("  %-8s %s  %s\n", entry.PeriodKey, entry.ReportDate, summary)
		}
	}
}

func loadConfig(path, reportOverride, dbOverride string) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}
	if reportOverride != "" {
		cfg.Report.Path = reportOverride
	}
	if dbOverride != "" {
		cfg.Archive.Path = dbOverride
	}
	return cfg
}

func openStore(path string) (store.Store, error) {
	if strings.TrimSpace(path) == "" {
		return &store.NopStore{}, nil
	}
	return sqlite.New(path)
}
