package model

import "time"

// Candidate is one loosely structured observation as supplied by the caller:
// a target key, a value or summary string, and a date in whatever form the
// upstream source produced it.
type Candidate struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Date  string `json:"date"`
}

// NormalizedRecord is the canonical form of a candidate that survived
// normalization. Kind selects between the indicator and report variants;
// Value holds the indicator value or the report summary accordingly.
type NormalizedRecord struct {
	Kind      SeriesKind
	Key       string
	Value     string
	Date      time.Time
	PeriodKey string
}

type Outcome string

const (
	OutcomeInserted         Outcome = "inserted"
	OutcomeUpdated          Outcome = "updated"
	OutcomeSkippedUnchanged Outcome = "skipped_unchanged"
)

// RecordOutcome reports what the reconciler did with one normalized record.
type RecordOutcome struct {
	Record  NormalizedRecord
	Outcome Outcome
}

type RejectionReason string

const (
	RejectMissingValue    RejectionReason = "missing_value"
	RejectUnparseableDate RejectionReason = "unparseable_date"
	RejectUnknownKey      RejectionReason = "unknown_key"
)

// Rejection pairs a dropped candidate with the reason it never reached the
// reconciler.
type Rejection struct {
	Candidate Candidate
	Reason    RejectionReason
}
