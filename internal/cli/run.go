package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/eligsim/internal/orchestrator"
	"github.com/roach88/eligsim/internal/x12"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Member      memberFlags
	Label       string
	RequestFile string
	ShowPayload bool
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <test-id>",
		Short: "Run one test case against the mock payer",
		Long: `Run one test case end to end: simulated payer latency, 270/271
generation and validation of both payloads.

With --request the submitted 270 is validated instead and no response is
generated.

Exit codes:
  0 - Test case passed
  1 - Test case failed
  2 - Command error

Examples:
  eligsim run TC_001_ACTIVE
  eligsim run TC_003_NOT_FOUND --member-id W999999999
  eligsim run TC_001_ACTIVE --request ./my_270.x12`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTest(opts, args[0], cmd)
		},
	}

	opts.Member.bind(cmd)
	cmd.Flags().StringVar(&opts.Label, "label", "", "free-text label to classify instead of the test id")
	cmd.Flags().StringVar(&opts.RequestFile, "request", "", "validate this submitted 270 instead of generating one")
	cmd.Flags().BoolVar(&opts.ShowPayload, "show-payload", false, "print the 270 and 271 payloads")

	return cmd
}

func runTest(opts *RunOptions, testID string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	req := orchestrator.Request{
		TestID: testID,
		Label:  opts.Label,
		Member: opts.Member.identity(),
	}
	if opts.RequestFile != "" {
		raw, err := os.ReadFile(opts.RequestFile)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeReadFailed, "failed to read request", err)
		}
		req.Request270 = strings.TrimSpace(string(raw))
	}

	orch, err := opts.orchestrator(cmd, f, nil)
	if err != nil {
		return err
	}

	result, err := orch.Run(cmd.Context(), req)
	if errors.Is(err, orchestrator.ErrMissingTestID) {
		return f.Fail(ExitCommandError, ErrCodeInvalidInput, "invalid test case", err)
	}
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, "run failed", err)
	}

	var failure *CLIError
	if !result.Passed() {
		failure = &CLIError{Code: ErrCodeTestFailed, Message: result.ErrorMessage}
	}
	if err := f.Render(result, failure, "", func(w io.Writer) {
		writeResult(w, result, opts.Verbose)
		if opts.ShowPayload {
			writeRawPayload(w, "270 Request", result.Request270)
			writeRawPayload(w, "271 Response", result.Response271)
		}
	}); err != nil {
		return err
	}

	if !result.Passed() {
		return NewExitError(ExitFailure, fmt.Sprintf("test case %s failed", result.TestID))
	}
	return nil
}

func writeRawPayload(w io.Writer, title, raw string) {
	if raw == "" {
		return
	}
	segs, err := x12.Decode(raw)
	if err != nil {
		fmt.Fprintf(w, "\n%s:\n%s\n", title, raw)
		return
	}
	fmt.Fprintf(w, "\n%s:\n%s", title, x12.Format(segs))
}
