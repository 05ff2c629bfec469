package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"macroledger/internal/store"
)

type Store struct {
	db *sql.DB
}

func New(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite: path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	st := &Store{db: db}
	if err := st.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return st, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// ArchiveRun writes the run summary plus its per-record outcome and rejection
// rows in one transaction. Re-archiving the same run id overwrites the
// summary and outcome rows.
func (s *Store) ArchiveRun(ctx context.Context, run store.RunRecord, outcomes []store.OutcomeRow, rejections []store.RejectionRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, finished_at, inserted, updated, skipped, rejected)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			started_at = excluded.started_at,
			finished_at = excluded.finished_at,
			inserted = excluded.inserted,
			updated = excluded.updated,
			skipped = excluded.skipped,
			rejected = excluded.rejected
	`, run.ID, run.StartedAt.UTC().Format(time.RFC3339), run.FinishedAt.UTC().Format(time.RFC3339),
		run.Inserted, run.Updated, run.Skipped, run.Rejected)
	if err != nil {
		return err
	}

	outcomeStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_outcomes (run_id, kind, key, period_key, entry_date, outcome)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, kind, key, period_key) DO UPDATE SET
			entry_date = excluded.entry_date,
			outcome = excluded.outcome
	`)
	if err != nil {
		return err
	}
	defer outcomeStmt.Close()

	for _, row := range outcomes {
		if _, err = outcomeStmt.ExecContext(ctx, row.RunID, row.Kind, row.Key, row.PeriodKey, row.EntryDate, row.Outcome); err != nil {
			return err
		}
	}

	rejectionStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_rejections (run_id, seq, key, value, date, reason)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, seq) DO UPDATE SET
			key = excluded.key,
			value = excluded.value,
			date = excluded.date,
			reason = excluded.reason
	`)
	if err != nil {
		return err
	}
	defer rejectionStmt.Close()

	for _, row := range rejections {
		if _, err = rejectionStmt.ExecContext(ctx, row.RunID, row.Seq, row.Key, row.Value, row.Date, row.Reason); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return err
	}
	return nil
}

func (s *Store) ListRuns(ctx context.Context, limit int) ([]store.RunRecord, error) {
	query := `
		SELECT id, started_at, finished_at, inserted, updated, skipped, rejected
		FROM runs
		ORDER BY started_at DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]store.RunRecord, 0)
	for rows.Next() {
		var run store.RunRecord
		var started, finished string
		if err := rows.Scan(&run.ID, &started, &finished, &run.Inserted, &run.Updated, &run.Skipped, &run.Rejected); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, started); err == nil {
			run.StartedAt = t
		}
		if t, err := time.Parse(time.RFC3339, finished); err == nil {
			run.FinishedAt = t
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

func (s *Store) migrate() error {
	statements := []string{
		`PRAGMA foreign_keys = ON;`,
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			inserted INTEGER NOT NULL,
			updated INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			rejected INTEGER NOT NULL,
			PRIMARY KEY (id)
		);`,
		`CREATE TABLE IF NOT EXISTS run_outcomes (
			run_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			key TEXT NOT NULL,
			period_key TEXT NOT NULL,
			entry_date TEXT NOT NULL,
			outcome TEXT NOT NULL,
			PRIMARY KEY (run_id, kind, key, period_key)
		);`,
		`CREATE TABLE IF NOT EXISTS run_rejections (
			run_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			date TEXT NOT NULL,
			reason TEXT NOT NULL,
			PRIMARY KEY (run_id, seq)
		);`,
	}

	for _, statement := range statements {
		if _, err := s.db.Exec(statement); err != nil {
			return err
		}
	}

	return nil
}
