package orchestrator

import (
	"math"
	"time"

	"github.com/roach88/eligsim/internal/scenario"
	"github.com/roach88/eligsim/internal/validator"
)

// Status is the outcome of a test run.
type Status string

const (
	StatusPassed Status = "passed"
	StatusFailed Status = "failed"
)

// State is a step of the per-run state machine.
type State string

const (
	StateReceived  State = "received"
	StateGenerated State = "generated"
	StateValidated State = "validated"
	StatePassed    State = "passed"
	StateFailed    State = "failed"
)

// Error messages attached to failed results.
const (
	MessageValidationFailed = "Validation failed - see validation results"
	MessageSystemError      = "System error during processing"
)

// TestResult is the record of one orchestrated run. It is built once and
// not modified afterwards.
type TestResult struct {
	TestID         string              `json:"testId"`
	Scenario       scenario.Scenario   `json:"scenario"`
	Status         Status              `json:"status"`
	ResponseTimeMs int64               `json:"responseTimeMs"`
	Request270     string              `json:"request270"`
	Response271    string              `json:"response271,omitempty"`
	Findings       []validator.Finding `json:"findings"`
	ErrorMessage   string              `json:"errorMessage,omitempty"`
	ExecutedAt     time.Time           `json:"executedAt"`
}

// Passed reports whether the run passed.
func (r TestResult) Passed() bool {
	return r.Status == StatusPassed
}

// BatchSummary aggregates a batch.
type BatchSummary struct {
	Total                 int   `json:"total"`
	Passed                int   `json:"passed"`
	Failed                int   `json:"failed"`
	AverageResponseTimeMs int64 `json:"averageResponseTimeMs"`
	TotalExecutionTimeMs  int64 `json:"totalExecutionTimeMs"`
}

// BatchResult holds one result per requested case, in request order.
type BatchResult struct {
	Results []TestResult `json:"results"`
	Summary BatchSummary `json:"summary"`
}

// Summarize aggregates results. The average response time is rounded to
// the nearest millisecond.
func Summarize(results []TestResult, total time.Duration) BatchSummary {
	s := BatchSummary{
		Total:                len(results),
		TotalExecutionTimeMs: total.Milliseconds(),
	}
	var sum int64
	for _, r := range results {
		if r.Passed() {
			s.Passed++
		} else {
			s.Failed++
		}
		sum += r.ResponseTimeMs
	}
	if s.Total > 0 {
		s.AverageResponseTimeMs = int64(math.Round(float64(sum) / float64(s.Total)))
	}
	return s
}
