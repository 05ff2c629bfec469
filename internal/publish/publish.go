// Package publish builds the dashboard-facing artifacts from a reconciled
// document: the latest value per tracked key and a period-pivoted CSV of the
// indicator history.
package publish

import (
	"sort"

	"macroledger/internal/model"
	"macroledger/internal/period"
)

type Meta struct {
	GeneratedAt string `json:"generated_at"`
}

type LatestEntry struct {
	Value     string `json:"value"`
	Date      string `json:"date"`
	PeriodKey string `json:"period_key"`
}

type LatestFile struct {
	GeneratedAt string                 `json:"generated_at"`
	Indicators  map[string]LatestEntry `json:"indicators"`
	Reports     map[string]LatestEntry `json:"reports"`
}

// displayNames maps series keys to the labels used in the CSV export.
var displayNames = map[string]string{
	model.IndicatorInterestRate: "Interest Rate",
	model.IndicatorCPIHMoM:      "CPIH +/- MoM",
	model.IndicatorGDPMoM:       "GDP +/- MoM",
}

// BuildLatest selects the newest entry per tracked key. Keys with no entries
// are omitted. The document is not assumed sorted; entries are compared by
// date so a pre-reconciliation file publishes correctly too.
func BuildLatest(doc *model.Document, generatedAt string) LatestFile {
	out := LatestFile{
		GeneratedAt: generatedAt,
		Indicators:  make(map[string]LatestEntry),
		Reports:     make(map[string]LatestEntry),
	}

	for _, key := range model.TrackedIndicators() {
		best, found := "", false
		var bestEntry LatestEntry
		for _, entry := range doc.IndicatorSeries[key] {
			if !found || laterDate(entry.DatePublished, best) {
				best, found = entry.DatePublished, true
				bestEntry = LatestEntry{Value: entry.Value, Date: entry.DatePublished, PeriodKey: entry.PeriodKey}
			}
		}
		if found {
			out.Indicators[key] = bestEntry
		}
	}

	for _, key := range model.TrackedReports() {
		best, found := "", false
		var bestEntry LatestEntry
		for _, entry := range doc.ReportSeries[key] {
			if !found || laterDate(entry.ReportDate, best) {
				best, found = entry.ReportDate, true
				bestEntry = LatestEntry{Value: entry.Summary, Date: entry.ReportDate, PeriodKey: entry.PeriodKey}
			}
		}
		if found {
			out.Reports[key] = bestEntry
		}
	}

	return out
}

func laterDate(a, b string) bool {
	dateA, okA := period.ParseDate(a)
	dateB, okB := period.ParseDate(b)
	if !okA || !okB {
		return okA && !okB
	}
	return dateA.After(dateB)
}

// PivotCSV renders the indicator history as rows of indicator x period, with
// period columns in ascending chronological order. The first header cell is
// "Indicator"; each tracked indicator contributes one row even when empty.
func PivotCSV(doc *model.Document) [][]string {
	periodSet := make(map[string]struct{})
	for _, key := range model.TrackedIndicators() {
		for _, entry := range doc.IndicatorSeries[key] {
			periodSet[entry.PeriodKey] = struct{}{}
		}
	}

	periods := make([]string, 0, len(periodSet))
	for key := range periodSet {
		periods = append(periods, key)
	}
	sort.Slice(periods, func(i, j int) bool {
		dateI, okI := period.ParseKey(periods[i])
		dateJ, okJ := period.ParseKey(periods[j])
		if !okI || !okJ {
			return okJ && !okI
		}
		return dateI.Before(dateJ)
	})

	header := append([]string{"Indicator"}, periods...)
	rows := [][]string{header}

	columns := make(map[string]int, len(periods))
	for i, key := range periods {
		columns[key] = i + 1
	}

	for _, key := range model.TrackedIndicators() {
		row := make([]string, len(header))
		row[0] = displayNames[key]
		for _, entry := range doc.IndicatorSeries[key] {
			if col, ok := columns[entry.PeriodKey]; ok {
				row[col] = entry.Value
			}
		}
		rows = append(rows, row)
	}

	return rows
}
