package reconcile

import (
	"fmt"
	"sort"
	"strings"

	"macroledger/internal/model"
	"macroledger/internal/period"
)

// Violation identifies one broken document invariant: the series it occurred
// in and what went wrong.
type Violation struct {
	Kind      model.SeriesKind
	Key       string
	PeriodKey string
	Detail    string
}

func (v Violation) String() string {
	if v.Key == "" {
		return v.Detail
	}
	return fmt.Sprintf("%s %s [%s]: %s", v.Kind, v.Key, v.PeriodKey, v.Detail)
}

// InvariantError signals that reconciliation produced a document that must
// not be persisted. It indicates a bug in the reconciler, not bad input.
type InvariantError struct {
	Violations []Violation
}

func (e *InvariantError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return "document invariants violated: " + strings.Join(parts, "; ")
}

// Finalize sorts every series newest-first and validates the document:
// no duplicate period per series, every period key recomputable from its
// entry date, and metadata dates present and ordered. A non-nil return is
// always an *InvariantError and means the document must not be written.
func Finalize(doc *model.Document) error {
	violations := make([]Violation, 0)

	for _, key := range sortedKeys(doc.IndicatorSeries) {
		series := doc.IndicatorSeries[key]
		sortIndicators(series)
		doc.IndicatorSeries[key] = series
		violations = append(violations, checkSeries(model.KindIndicator, key, len(series), func(i int) (string, string) {
			return series[i].PeriodKey, series[i].DatePublished
		})...)
	}

	for _, key := range sortedKeys(doc.ReportSeries) {
		series := doc.ReportSeries[key]
		sortReports(series)
		doc.ReportSeries[key] = series
		violations = append(violations, checkSeries(model.KindReport, key, len(series), func(i int) (string, string) {
			return series[i].PeriodKey, series[i].ReportDate
		})...)
	}

	violations = append(violations, checkMetadata(doc.Metadata)...)

	if len(violations) > 0 {
		return &InvariantError{Violations: violations}
	}
	return nil
}

// sortIndicators orders a series by publication date descending. The sort is
// stable so same-date entries keep their insertion order.
func sortIndicators(series []model.IndicatorEntry) {
	sort.SliceStable(series, func(i, j int) bool {
		return laterDate(series[i].DatePublished, series[j].DatePublished)
	})
}

func sortReports(series []model.ReportEntry) {
	sort.SliceStable(series, func(i, j int) bool {
		return laterDate(series[i].ReportDate, series[j].ReportDate)
	})
}

// laterDate reports whether a sorts strictly after b in time. Unparseable
// dates sort to the end; validation flags them separately.
func laterDate(a, b string) bool {
	dateA, okA := period.ParseDate(a)
	dateB, okB := period.ParseDate(b)
	if !okA || !okB {
		return okA && !okB
	}
	return dateA.After(dateB)
}

// checkSeries validates one series via an index accessor, so indicator and
// report series share the same checks.
func checkSeries(kind model.SeriesKind, key string, length int, at func(int) (periodKey, date string)) []Violation {
	violations := make([]Violation, 0)
	seen := make(map[string]struct{}, length)

	for i := 0; i < length; i++ {
		periodKey, date := at(i)

		if _, dup := seen[periodKey]; dup {
			violations = append(violations, Violation{
				Kind: kind, Key: key, PeriodKey: periodKey,
				Detail: "duplicate period",
			})
		}
		seen[periodKey] = struct{}{}

		parsed, ok := period.ParseDate(date)
		if !ok {
			violations = append(violations, Violation{
				Kind: kind, Key: key, PeriodKey: periodKey,
				Detail: fmt.Sprintf("unparseable entry date %q", date),
			})
			continue
		}
		if derived := period.Key(parsed); derived != periodKey {
			violations = append(violations, Violation{
				Kind: kind, Key: key, PeriodKey: periodKey,
				Detail: fmt.Sprintf("period key does not match date %s (derived %s)", date, derived),
			})
		}
	}
	return violations
}

func checkMetadata(meta model.Metadata) []Violation {
	violations := make([]Violation, 0)

	updated, okUpdated := period.ParseDate(meta.UpdatedAt)
	if !okUpdated {
		violations = append(violations, Violation{Detail: fmt.Sprintf("metadata updated_at %q missing or unparseable", meta.UpdatedAt)})
	}
	created, okCreated := period.ParseDate(meta.CreatedAt)
	if !okCreated {
		violations = append(violations, Violation{Detail: fmt.Sprintf("metadata created_at %q missing or unparseable", meta.CreatedAt)})
	}
	if okUpdated && okCreated && updated.Before(created) {
		violations = append(violations, Violation{Detail: fmt.Sprintf("metadata updated_at %s earlier than created_at %s", meta.UpdatedAt, meta.CreatedAt)})
	}
	return violations
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
