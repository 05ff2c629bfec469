// Package store archives reconciliation runs for audit. The archive is an
// observer: reconciliation correctness never depends on it, and callers that
// do not want persistence use NopStore.
package store

import (
	"context"
	"time"
)

// RunRecord summarizes one reconciliation run.
type RunRecord struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Inserted   int
	Updated    int
	Skipped    int
	Rejected   int
}

// OutcomeRow is one record-level outcome within a run.
type OutcomeRow struct {
	RunID     string
	Kind      string
	Key       string
	PeriodKey string
	EntryDate string
	Outcome   string
}

// RejectionRow is one rejected candidate within a run.
type RejectionRow struct {
	RunID  string
	Seq    int
	Key    string
	Value  string
	Date   string
	Reason string
}

type Store interface {
	ArchiveRun(ctx context.Context, run RunRecord, outcomes []OutcomeRow, rejections []RejectionRow) error
	ListRuns(ctx context.Context, limit int) ([]RunRecord, error)
	Close() error
}

type NopStore struct{}

func (s *NopStore) ArchiveRun(ctx context.Context, run RunRecord, outcomes []OutcomeRow, rejections []RejectionRow) error {
	_ = ctx
	_ = run
	_ = outcomes
	_ = rejections
	return nil
}

func (s *NopStore) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	_ = ctx
	_ = limit
	return nil, nil
}

func (s *NopStore) Close() error {
	return nil
}
