package runlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/eligsim/internal/orchestrator"
	"github.com/roach88/eligsim/internal/scenario"
	"github.com/roach88/eligsim/internal/validator"
)

// Run is a recorded batch.
type Run struct {
	ID         string                    `json:"id"`
	Suite      string                    `json:"suite"`
	RecordedAt time.Time                 `json:"recordedAt"`
	Summary    orchestrator.BatchSummary `json:"summary"`
}

// Result is the stored outcome of one case.
type Result struct {
	Seq            int                 `json:"seq"`
	TestID         string              `json:"testId"`
	Scenario       scenario.Scenario   `json:"scenario"`
	Status         orchestrator.Status `json:"status"`
	ResponseTimeMs int64               `json:"responseTimeMs"`
	ErrorMessage   string              `json:"errorMessage,omitempty"`
	Failures       []validator.Finding `json:"failures"`
}

const runColumns = `id, suite, recorded_at, total, passed, failed, avg_response_ms, total_execution_ms`

// ListRuns returns the most recent runs first. A limit of zero or less
// returns every run.
func (l *Ledger) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY recorded_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// GetRun returns one run, or ErrRunNotFound.
func (l *Ledger) GetRun(ctx context.Context, id string) (Run, error) {
	row := l.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("get run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run %s: %w", id, err)
	}
	return run, nil
}

// Results returns a run's case outcomes in batch order.
func (l *Ledger) Results(ctx context.Context, runID string) ([]Result, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT seq, test_id, scenario, status, response_time_ms, error_message, failures
		FROM run_results
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var (
			r        Result
			sc       string
			status   string
			failures string
		)
		if err := rows.Scan(&r.Seq, &r.TestID, &sc, &status, &r.ResponseTimeMs, &r.ErrorMessage, &failures); err != nil {
			return nil, fmt.Errorf("read results: %w", err)
		}
		if err := r.Scenario.UnmarshalText([]byte(sc)); err != nil {
			return nil, fmt.Errorf("read results: seq %d: %w", r.Seq, err)
		}
		r.Status = orchestrator.Status(status)
		if err := json.Unmarshal([]byte(failures), &r.Failures); err != nil {
			return nil, fmt.Errorf("read results: seq %d failures: %w", r.Seq, err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}
	return results, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (Run, error) {
	var (
		run        Run
		recordedAt string
	)
	err := s.Scan(
		&run.ID,
		&run.Suite,
		&recordedAt,
		&run.Summary.Total,
		&run.Summary.Passed,
		&run.Summary.Failed,
		&run.Summary.AverageResponseTimeMs,
		&run.Summary.TotalExecutionTimeMs,
	)
	if err != nil {
		return Run{}, err
	}
	run.RecordedAt, err = time.Parse(timeLayout, recordedAt)
	if err != nil {
		return Run{}, fmt.Errorf("parse recorded_at %q: %w", recordedAt, err)
	}
	return run, nil
}
