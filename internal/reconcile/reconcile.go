// Package reconcile merges normalized records into the document's series,
// then orders and validates the result. It is the only component that mutates
// the document.
package reconcile

import (
	"time"

	"macroledger/internal/model"
	"macroledger/internal/period"
)

// Result accounts for what one run did with its batch.
type Result struct {
	Outcomes []model.RecordOutcome
	Inserted int
	Updated  int
	Skipped  int
}

// Apply merges records into doc in input order, one upsert per record keyed by
// period. An incoming record replaces the existing entry for its period only
// when its date is the same or more recent; a same-date record is treated as a
// correction and wins. Nothing is ever deleted, and periods absent from the
// batch are left untouched.
//
// Metadata is stamped with the run date: created_at once, on first ever run;
// updated_at on every run, changed batch or not.
func Apply(doc *model.Document, records []model.NormalizedRecord, now time.Time) *Result {
	result := &Result{Outcomes: make([]model.RecordOutcome, 0, len(records))}

	for _, record := range records {
		var outcome model.Outcome
		switch record.Kind {
		case model.KindIndicator:
			outcome = upsertIndicator(doc, record)
		case model.KindReport:
			outcome = upsertReport(doc, record)
		default:
			continue
		}

		switch outcome {
		case model.OutcomeInserted:
			result.Inserted++
		case model.OutcomeUpdated:
			result.Updated++
		case model.OutcomeSkippedUnchanged:
			result.Skipped++
		}
		result.Outcomes = append(result.Outcomes, model.RecordOutcome{Record: record, Outcome: outcome})
	}

	runDate := period.FormatDate(now)
	if doc.Metadata.CreatedAt == "" {
		doc.Metadata.CreatedAt = runDate
	}
	doc.Metadata.UpdatedAt = runDate

	return result
}

func upsertIndicator(doc *model.Document, record model.NormalizedRecord) model.Outcome {
	if doc.IndicatorSeries == nil {
		doc.IndicatorSeries = make(map[string][]model.IndicatorEntry)
	}
	series := doc.IndicatorSeries[record.Key]

	for i, entry := range series {
		if entry.PeriodKey != record.PeriodKey {
			continue
		}
		if !supersedes(record.Date, entry.DatePublished) {
			return model.OutcomeSkippedUnchanged
		}
		series[i] = model.IndicatorEntry{
			Value:         record.Value,
			DatePublished: period.FormatDate(record.Date),
			PeriodKey:     record.PeriodKey,
		}
		doc.IndicatorSeries[record.Key] = series
		return model.OutcomeUpdated
	}

	doc.IndicatorSeries[record.Key] = append(series, model.IndicatorEntry{
		Value:         record.Value,
		DatePublished: period.FormatDate(record.Date),
		PeriodKey:     record.PeriodKey,
	})
	return model.OutcomeInserted
}

func upsertReport(doc *model.Document, record model.NormalizedRecord) model.Outcome {
	if doc.ReportSeries == nil {
		doc.ReportSeries = make(map[string][]model.ReportEntry)
	}
	series := doc.ReportSeries[record.Key]

	for i, entry := range series {
		if entry.PeriodKey != record.PeriodKey {
			continue
		}
		if !supersedes(record.Date, entry.ReportDate) {
			return model.OutcomeSkippedUnchanged
		}
		series[i] = model.ReportEntry{
			Summary:    record.Value,
			ReportDate: period.FormatDate(record.Date),
			PeriodKey:  record.PeriodKey,
		}
		doc.ReportSeries[record.Key] = series
		return model.OutcomeUpdated
	}

	doc.ReportSeries[record.Key] = append(series, model.ReportEntry{
		Summary:    record.Value,
		ReportDate: period.FormatDate(record.Date),
		PeriodKey:  record.PeriodKey,
	})
	return model.OutcomeInserted
}

// supersedes reports whether an incoming date may replace a stored one for the
// same period: same or newer wins, older never regresses the stored content.
// A stored date that does not parse is treated as infinitely old.
func supersedes(incoming time.Time, stored string) bool {
	storedDate, ok := period.ParseDate(stored)
	if !ok {
		return true
	}
	return !incoming.Before(storedDate)
}

// Missing returns the tracked keys that received no inserted or updated entry
// this run, in vocabulary order. Informational only; it never blocks a write.
func Missing(result *Result) []string {
	applied := make(map[string]struct{}, len(result.Outcomes))
	for _, outcome := range result.Outcomes {
		if outcome.Outcome == model.OutcomeInserted || outcome.Outcome == model.OutcomeUpdated {
			applied[outcome.Record.Key] = struct{}{}
		}
	}

	missing := make([]string, 0)
	for _, key := range model.TrackedIndicators() {
		if _, ok := applied[key]; !ok {
			missing = append(missing, key)
		}
	}
	for _, key := range model.TrackedReports() {
		if _, ok := applied[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}
