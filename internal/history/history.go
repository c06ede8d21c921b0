// Package history mirrors workflow runs into PostgreSQL. Persistence is best
// effort: the pipeline works identically without a database, and a nil Store
// turns every call into a no-op.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Run statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusAborted   = "aborted"
	StatusSkipped   = "skipped"
)

// Run is one row of workflow_runs.
type Run struct {
	RunID      string
	Config     string
	Status     string
	StartedAt  time.Time
	FinishedAt *time.Time
}

// StageRecord is one row of workflow_run_stages.
type StageRecord struct {
	RunID      string
	Stage      string
	Status     string
	Detail     string
	RecordedAt time.Time
}

// Store wraps a PostgreSQL connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool and creates the tables if they are
// missing.
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS workflow_runs (
			run_id      TEXT PRIMARY KEY,
			config      TEXT NOT NULL,
			status      TEXT NOT NULL,
			started_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			finished_at TIMESTAMPTZ
		);
		CREATE TABLE IF NOT EXISTS workflow_run_stages (
			run_id      TEXT NOT NULL,
			stage       TEXT NOT NULL,
			status      TEXT NOT NULL,
			detail      TEXT NOT NULL DEFAULT '',
			recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (run_id, stage)
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create history tables: %w", err)
	}
	return nil
}

// Close closes the connection pool. Safe on a nil store.
func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

// StartRun records a run as running. Starting the same run again (a resume)
// flips it back to running without losing the original start time.
func (s *Store) StartRun(ctx context.Context, runID, config string) error {
	if s == nil || s.pool == nil {
		return nil
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO workflow_runs (run_id, config, status)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (run_id) DO UPDATE SET status = $3, finished_at = NULL`,
		runID, config, StatusRunning,
	)
	if err != nil {
		return fmt.Errorf("failed to record run start: %w", err)
	}
	return nil
}

// FinishRun records the run's terminal status.
func (s *Store) FinishRun(ctx context.Context, runID, status string) error {
	if s == nil || s.pool == nil {
		return nil
	}

	_, err := s.pool.Exec(ctx,
		`UPDATE workflow_runs SET status = $1, finished_at = NOW() WHERE run_id = $2`,
		status, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to record run finish: %w", err)
	}
	return nil
}

// RecordStage upserts the outcome of one stage of a run.
func (s *Store) RecordStage(ctx context.Context, runID, stage, status, detail string) error {
	if s == nil || s.pool == nil {
		return nil
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO workflow_run_stages (run_id, stage, status, detail)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (run_id, stage) DO UPDATE SET status = $3, detail = $4, recorded_at = NOW()`,
		runID, stage, status, detail,
	)
	if err != nil {
		return fmt.Errorf("failed to record stage %s: %w", stage, err)
	}
	return nil
}

// GetRun retrieves one run, or nil if it was never recorded.
func (s *Store) GetRun(ctx context.Context, runID string) (*Run, error) {
	if s == nil || s.pool == nil {
		return nil, nil
	}

	var run Run
	err := s.pool.QueryRow(ctx,
		`SELECT run_id, config, status, started_at, finished_at
		 FROM workflow_runs WHERE run_id = $1`,
		runID,
	).Scan(&run.RunID, &run.Config, &run.Status, &run.StartedAt, &run.FinishedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// ListRuns retrieves the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if s == nil || s.pool == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.pool.Query(ctx,
		`SELECT run_id, config, status, started_at, finished_at
		 FROM workflow_runs ORDER BY started_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.RunID, &run.Config, &run.Status, &run.StartedAt, &run.FinishedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// ListStages retrieves the stage records of one run in the order they were
// recorded.
func (s *Store) ListStages(ctx context.Context, runID string) ([]StageRecord, error) {
	if s == nil || s.pool == nil {
		return nil, nil
	}

	rows, err := s.pool.Query(ctx,
		`SELECT run_id, stage, status, detail, recorded_at
		 FROM workflow_run_stages WHERE run_id = $1 ORDER BY recorded_at`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list stages: %w", err)
	}
	defer rows.Close()

	var records []StageRecord
	for rows.Next() {
		var rec StageRecord
		if err := rows.Scan(&rec.RunID, &rec.Stage, &rec.Status, &rec.Detail, &rec.RecordedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
