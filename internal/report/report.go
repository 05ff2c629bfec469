// Package report is the thin persistence adapter for the reconciled document.
// The engine packages never touch the filesystem; a run loads the document
// once through Load and, only after validation succeeds, writes it once
// through Save.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"macroledger/internal/model"
)

// Load reads the document at path. A missing file yields the empty skeleton,
// as does a file that is not valid JSON: a corrupt history is recovered from
// by starting fresh, never by failing the run. The second return reports
// whether the skeleton was substituted.
func Load(path string) (*model.Document, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.EmptyDocument(), true, nil
		}
		return nil, false, fmt.Errorf("read document: %w", err)
	}

	var doc model.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return model.EmptyDocument(), true, nil
	}
	if doc.IndicatorSeries == nil {
		doc.IndicatorSeries = make(map[string][]model.IndicatorEntry)
	}
	if doc.ReportSeries == nil {
		doc.ReportSeries = make(map[string][]model.ReportEntry)
	}
	return &doc, false, nil
}

// Save writes the document atomically: the JSON is written to a temp file in
// the destination directory and renamed over the target, so an aborted run
// never leaves a torn file behind.
func Save(path string, doc *model.Document) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create document dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp document: %w", err)
	}
	defer os.Remove(tmp.Name())

	encoder := json.NewEncoder(tmp)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		tmp.Close()
		return fmt.Errorf("encode document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp document: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace document: %w", err)
	}
	return nil
}
