package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"macroledger/internal/config"
	"macroledger/internal/logger"
	"macroledger/internal/publish"
	"macroledger/internal/report"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "build":
		build(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: publisher build [options]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "options:")
	fmt.Fprintln(os.Stderr, "  -config  path to yaml config (default: config.yaml)")
	fmt.Fprintln(os.Stderr, "  -report  report document path (overrides config)")
	fmt.Fprintln(os.Stderr, "  -out     output directory (overrides config)")
}

func build(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to yaml config")
	reportPath := fs.String("report", "", "report document path (overrides config)")
	outDir := fs.String("out", "", "output directory (overrides config)")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}
	if *reportPath != "" {
		cfg.Report.Path = *reportPath
	}
	if *outDir != "" {
		cfg.Publish.OutDir = *outDir
	}
	logger.Init(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	if err := runBuild(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "publisher build failed:", err)
		os.Exit(1)
	}
}

func runBuild(cfg *config.Config) error {
	if err := os.MkdirAll(cfg.Publish.OutDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	doc, _, err := report.Load(cfg.Report.Path)
	if err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if err := writeJSON(filepath.Join(cfg.Publish.OutDir, "meta.json"), publish.Meta{GeneratedAt: now}); err != nil {
		return fmt.Errorf("write meta.json: %w", err)
	}

	latest := publish.BuildLatest(doc, now)
	if err := writeJSON(filepath.Join(cfg.Publish.OutDir, "latest.json"), latest); err != nil {
		return fmt.Errorf("write latest.json: %w", err)
	}

	if err := writeCSV(filepath.Join(cfg.Publish.OutDir, "indicators.csv"), publish.PivotCSV(doc)); err != nil {
		return fmt.Errorf("write indicators.csv: %w", err)
	}

	fmt.Printf("publisher build complete (out=%s)\n", cfg.Publish.OutDir)
	return nil
}

func writeJSON(path string, value any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func writeCSV(path string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}
