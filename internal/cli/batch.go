package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/eligsim/internal/orchestrator"
	"github.com/roach88/eligsim/internal/runlog"
	"github.com/roach88/eligsim/internal/suite"
)

// BatchOptions holds flags for the batch command.
type BatchOptions struct {
	*RootOptions
	Concurrency int
	Record      string // ledger database path
}

// BatchOutput is the batch command's JSON payload.
type BatchOutput struct {
	Suite string `json:"suite"`
	orchestrator.BatchResult
}

// NewBatchCommand creates the batch command.
func NewBatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "batch <suite.yaml>",
		Short: "Run a suite of test cases concurrently",
		Long: `Run every case in a suite file against the mock payer on a bounded
worker pool. Results are reported in suite order with a summary.

With --record the outcomes (not the payloads) are appended to a SQLite run
ledger, readable with "eligsim history".

Exit codes:
  0 - All cases passed
  1 - One or more cases failed
  2 - Command error (invalid suite, unreadable files, ledger error)

Examples:
  eligsim batch ./suites/smoke.yaml
  eligsim batch ./suites/smoke.yaml --concurrency 8 --record ./runs.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", 0, "maximum cases in flight (default: from config)")
	cmd.Flags().StringVar(&opts.Record, "record", "", "append outcomes to this run ledger database")

	return cmd
}

func runBatch(opts *BatchOptions, path string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	if opts.Concurrency < 0 {
		return f.Fail(ExitCommandError, ErrCodeInvalidInput, fmt.Sprintf("invalid concurrency %d", opts.Concurrency), nil)
	}

	s, err := suite.Load(path)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeSuite, "failed to load suite", err)
	}
	reqs, err := s.Requests()
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeSuite, "failed to prepare suite", err)
	}
	f.VerboseLog("loaded suite %s with %d case(s)", s.Name, len(reqs))

	orch, err := opts.orchestrator(cmd, f, func(c *orchestrator.Config) {
		if opts.Concurrency > 0 {
			c.Concurrency = opts.Concurrency
		}
		if s.Payer != nil {
			c.Payer = *s.Payer
		}
	})
	if err != nil {
		return err
	}

	batch, err := orch.RunBatch(cmd.Context(), reqs)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeInvalidInput, "invalid batch", err)
	}

	var runID string
	if opts.Record != "" {
		runID, err = recordBatch(cmd, opts.Record, s.Name, batch)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeStorage, "failed to record run", err)
		}
		f.VerboseLog("recorded run %s in %s", runID, opts.Record)
	}

	out := BatchOutput{Suite: s.Name, BatchResult: batch}
	var failure *CLIError
	if batch.Summary.Failed > 0 {
		failure = &CLIError{Code: ErrCodeTestFailed, Message: fmt.Sprintf("%d case(s) failed", batch.Summary.Failed)}
	}
	if err := f.Render(out, failure, runID, func(w io.Writer) {
		fmt.Fprintf(w, "Suite %s\n", s.Name)
		for _, r := range batch.Results {
			writeResult(w, r, opts.Verbose)
		}
		writeSummary(w, batch.Summary)
		if runID != "" {
			fmt.Fprintf(w, "Recorded run %s\n", runID)
		}
	}); err != nil {
		return err
	}

	if batch.Summary.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d case(s) failed", batch.Summary.Failed))
	}
	return nil
}

func recordBatch(cmd *cobra.Command, dbPath, suiteName string, batch orchestrator.BatchResult) (string, error) {
	ledger, err := runlog.Open(dbPath)
	if err != nil {
		return "", err
	}
	defer ledger.Close()
	return ledger.Record(cmd.Context(), suiteName, time.Now(), batch)
}
