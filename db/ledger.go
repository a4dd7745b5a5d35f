package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/teranos/queryscope/errors"
	"github.com/teranos/queryscope/logger"
)

// Run kinds recorded in the ledger.
const (
	RunKindFDH     = "fdh"
	RunKindOsquery = "osquery"
)

// Run is one recorded analysis run.
type Run struct {
	ID          string
	Kind        string
	InputPath   string
	RecordCount int
	ErrorCount  int
	Duration    time.Duration
	StartedAt   time.Time
}

// LedgerStats summarizes run history for `queryscope db stats`.
type LedgerStats struct {
	TotalRuns    int
	RunsByKind   map[string]int
	TotalRecords int
	TotalErrors  int
	LastRunAt    time.Time
}

// RunStore persists analysis runs.
type RunStore struct {
	db *sql.DB
}

// NewRunStore creates a store over an open ledger database.
func NewRunStore(db *sql.DB) *RunStore {
	return &RunStore{db: db}
}

// RecordRun inserts a run. A missing ID is assigned; a zero StartedAt is set
// to now. Returns the run ID.
func (s *RunStore) RecordRun(ctx context.Context, run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO analysis_runs (id, kind, input_path, record_count, error_count, duration_ms, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Kind, run.InputPath, run.RecordCount, run.ErrorCount,
		run.Duration.Milliseconds(), run.StartedAt,
	)
	if err != nil {
		return "", errors.Wrapf(err, "record %s run", run.Kind)
	}

	logger.DBInfow("Recorded run",
		logger.FieldRunID, run.ID,
		logger.FieldKind, run.Kind,
		logger.FieldRecords, run.RecordCount,
		logger.FieldErrors, run.ErrorCount,
		logger.FieldDurationMS, run.Duration.Milliseconds(),
	)
	return run.ID, nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *RunStore) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, input_path, record_count, error_count, duration_ms, started_at
		 FROM analysis_runs
		 ORDER BY started_at DESC, id
		 LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query recent runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var durationMS int64
		if err := rows.Scan(&run.ID, &run.Kind, &run.InputPath,
			&run.RecordCount, &run.ErrorCount, &durationMS, &run.StartedAt); err != nil {
			return nil, errors.Wrap(err, "scan run row")
		}
		run.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, run)
	}
	return runs, errors.Wrap(rows.Err(), "iterate run rows")
}

// Stats aggregates the full run history.
func (s *RunStore) Stats(ctx context.Context) (*LedgerStats, error) {
	stats := &LedgerStats{RunsByKind: make(map[string]int)}

	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, COUNT(*), COALESCE(SUM(record_count), 0), COALESCE(SUM(error_count), 0)
		 FROM analysis_runs
		 GROUP BY kind`)
	if err != nil {
		return nil, errors.Wrap(err, "query run stats")
	}
	defer rows.Close()

	for rows.Next() {
		var kind string
		var count, records, errs int
		if err := rows.Scan(&kind, &count, &records, &errs); err != nil {
			return nil, errors.Wrap(err, "scan stats row")
		}
		stats.RunsByKind[kind] = count
		stats.TotalRuns += count
		stats.TotalRecords += records
		stats.TotalErrors += errs
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate stats rows")
	}

	// MAX(started_at) loses the column's declared type, so the driver would
	// hand back a string; read the newest row instead.
	err = s.db.QueryRowContext(ctx,
		`SELECT started_at FROM analysis_runs ORDER BY started_at DESC LIMIT 1`,
	).Scan(&stats.LastRunAt)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.Wrap(err, "query last run time")
	}
	return stats, nil
}
