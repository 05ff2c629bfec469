// Package normalize turns loosely structured candidate observations into
// canonical records for the reconciler. It is total: malformed candidates are
// collected as rejections, never returned as errors.
package normalize

import (
	"strings"

	"macroledger/internal/model"
	"macroledger/internal/period"
)

// Result carries the records that survived normalization alongside the
// candidates that did not.
type Result struct {
	Records    []model.NormalizedRecord
	Rejections []model.Rejection
}

// Batch normalizes candidates in input order. A candidate is rejected when its
// key is outside the tracked vocabulary, its value is empty (or a known
// "data not found" placeholder), or its date cannot be parsed.
func Batch(candidates []model.Candidate) Result {
	result := Result{
		Records:    make([]model.NormalizedRecord, 0, len(candidates)),
		Rejections: make([]model.Rejection, 0),
	}

	for _, candidate := range candidates {
		kind, ok := resolveKind(candidate.Key)
		if !ok {
			result.Rejections = append(result.Rejections, model.Rejection{
				Candidate: candidate,
				Reason:    model.RejectUnknownKey,
			})
			continue
		}

		value := strings.TrimSpace(candidate.Value)
		if value == "" || isPlaceholder(value) {
			result.Rejections = append(result.Rejections, model.Rejection{
				Candidate: candidate,
				Reason:    model.RejectMissingValue,
			})
			continue
		}

		date, ok := period.ParseDate(candidate.Date)
		if !ok {
			result.Rejections = append(result.Rejections, model.Rejection{
				Candidate: candidate,
				Reason:    model.RejectUnparseableDate,
			})
			continue
		}

		result.Records = append(result.Records, model.NormalizedRecord{
			Kind:      kind,
			Key:       strings.TrimSpace(candidate.Key),
			Value:     value,
			Date:      date,
			PeriodKey: period.Key(date),
		})
	}

	return result
}

func resolveKind(key string) (model.SeriesKind, bool) {
	key = strings.TrimSpace(key)
	switch {
	case model.IsTrackedIndicator(key):
		return model.KindIndicator, true
	case model.IsTrackedReport(key):
		return model.KindReport, true
	}
	return "", false
}

// isPlaceholder reports whether a value is one of the placeholder strings
// upstream emits when a search came back empty.
func isPlaceholder(value string) bool {
	switch strings.ToLower(strings.TrimSuffix(strings.TrimSpace(value), ".")) {
	case "data not found", "not available", "n/a":
		return true
	}
	return false
}
