package runlog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/eligsim/internal/orchestrator"
	"github.com/roach88/eligsim/internal/validator"
)

// timeLayout is fixed width so recorded_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Record inserts a batch and all of its results in one transaction and
// returns the new run id.
func (l *Ledger) Record(ctx context.Context, suite string, recordedAt time.Time, batch orchestrator.BatchResult) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("record run: generate id: %w", err)
	}
	runID := id.String()

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("record run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	s := batch.Summary
	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, suite, recorded_at, total, passed, failed, avg_response_ms, total_execution_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		runID,
		suite,
		recordedAt.UTC().Format(timeLayout),
		s.Total,
		s.Passed,
		s.Failed,
		s.AverageResponseTimeMs,
		s.TotalExecutionTimeMs,
	)
	if err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_results
		(run_id, seq, test_id, scenario, status, response_time_ms, error_message, failures)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("record run: prepare results: %w", err)
	}
	defer stmt.Close()

	for i, r := range batch.Results {
		failures, err := marshalFailures(r.Findings)
		if err != nil {
			return "", fmt.Errorf("record run: result %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx,
			runID,
			i,
			r.TestID,
			r.Scenario.String(),
			string(r.Status),
			r.ResponseTimeMs,
			r.ErrorMessage,
			failures,
		); err != nil {
			return "", fmt.Errorf("record run: result %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("record run: commit: %w", err)
	}
	return runID, nil
}

func marshalFailures(findings []validator.Finding) (string, error) {
	failures := validator.Failures(findings)
	if failures == nil {
		failures = []validator.Finding{}
	}
	b, err := json.Marshal(failures)
	if err != nil {
		return "", fmt.Errorf("marshal failures: %w", err)
	}
	return string(b), nil
}
