package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/eligsim/internal/orchestrator"
	"github.com/roach88/eligsim/internal/runlog"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Limit int
	RunID string
}

// RunDetail is one recorded run with its case outcomes.
type RunDetail struct {
	runlog.Run
	Results []runlog.Result `json:"results"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history <db>",
		Short: "Show recorded batch runs",
		Long: `List batch runs recorded with "eligsim batch --record", newest first.
With --run, show the per-case outcomes of one run.

Examples:
  eligsim history ./runs.db
  eligsim history ./runs.db --limit 5
  eligsim history ./runs.db --run 01927f7e-8b1c-7cc3-a4b2-5f6d9e0c1a2b`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum runs to list (0 for all)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "show the results of this run")

	return cmd
}

func runHistory(opts *HistoryOptions, dbPath string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	// Opening would create an empty ledger; a missing file is a typo.
	if _, err := os.Stat(dbPath); err != nil {
		return f.Fail(ExitCommandError, ErrCodeStorage, "run ledger not found", err)
	}
	ledger, err := runlog.Open(dbPath)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStorage, "failed to open run ledger", err)
	}
	defer ledger.Close()

	ctx := cmd.Context()
	if opts.RunID != "" {
		run, err := ledger.GetRun(ctx, opts.RunID)
		if errors.Is(err, runlog.ErrRunNotFound) {
			return f.Fail(ExitCommandError, ErrCodeStorage, "unknown run", err)
		}
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeStorage, "failed to read run", err)
		}
		results, err := ledger.Results(ctx, run.ID)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeStorage, "failed to read results", err)
		}
		detail := RunDetail{Run: run, Results: results}
		return f.Render(detail, nil, run.ID, func(w io.Writer) {
			writeRun(w, run)
			for _, r := range results {
				if r.Status == orchestrator.StatusPassed {
					fmt.Fprintf(w, "  ✓ %s (%s) %dms\n", r.TestID, r.Scenario, r.ResponseTimeMs)
					continue
				}
				fmt.Fprintf(w, "  ✗ %s (%s) %dms: %s\n", r.TestID, r.Scenario, r.ResponseTimeMs, r.ErrorMessage)
				writeFindings(w, r.Failures, false, "      ")
			}
		})
	}

	runs, err := ledger.ListRuns(ctx, opts.Limit)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStorage, "failed to list runs", err)
	}
	if runs == nil {
		runs = []runlog.Run{}
	}
	return f.Render(runs, nil, "", func(w io.Writer) {
		if len(runs) == 0 {
			fmt.Fprintln(w, "No recorded runs")
			return
		}
		for _, run := range runs {
			writeRun(w, run)
		}
	})
}

func writeRun(w io.Writer, run runlog.Run) {
	s := run.Summary
	fmt.Fprintf(w, "%s  %s  %-20s %d/%d passed (avg %dms)\n",
		run.ID, run.RecordedAt.Local().Format(time.DateTime), run.Suite, s.Passed, s.Total, s.AverageResponseTimeMs)
}
