package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/roach88/eligsim/internal/generator"
	"github.com/roach88/eligsim/internal/scenario"
	"github.com/roach88/eligsim/internal/x12"
)

// DiffOptions holds flags for the diff command.
type DiffOptions struct {
	*RootOptions
	Member  memberFlags
	Label   string
	Context int
}

// DiffResult is the comparison of a submitted 271 with the expected one.
type DiffResult struct {
	TestID    string            `json:"testId"`
	Scenario  scenario.Scenario `json:"scenario"`
	Identical bool              `json:"identical"`
	Diff      string            `json:"diff,omitempty"`
}

// NewDiffCommand creates the diff command.
func NewDiffCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DiffOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "diff <test-id> <271-file>",
		Short: "Diff a submitted 271 against the expected response",
		Long: `Compare a 271 response file with the response the mock payer would
return for the test case, one segment per line.

The expected response reuses the submitted interchange's control numbers
and ISA date/time, so only content differences are reported.

Exit codes:
  0 - Payloads match
  1 - Payloads differ
  2 - Command error (unreadable or undecodable file)

Examples:
  eligsim diff TC_002_INACTIVE ./their_271.x12
  eligsim diff TC_003_NOT_FOUND ./their_271.x12 --member-id W999999999`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(opts, args[0], args[1], cmd)
		},
	}

	opts.Member.bind(cmd)
	cmd.Flags().StringVar(&opts.Label, "label", "", "free-text label to classify instead of the test id")
	cmd.Flags().IntVar(&opts.Context, "context", 3, "lines of context around each change")

	return cmd
}

func runDiff(opts *DiffOptions, testID, path string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	raw, err := os.ReadFile(path)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeReadFailed, "failed to read payload", err)
	}
	submitted, err := x12.Parse(string(raw), x12.Kind271)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeInvalidInput, "failed to decode payload", err)
	}

	cfg, err := opts.loadConfig(f)
	if err != nil {
		return err
	}
	oc := cfg.Orchestrator()

	controls, at := interchangeOf(submitted)
	gen := generator.New(
		generator.WithClock(func() time.Time { return at }),
		generator.WithPartners(oc.Partners),
		generator.WithPayer(oc.Payer),
		generator.WithUsage(oc.UsageIndicator),
	)
	label := opts.Label
	if label == "" {
		label = testID
	}
	sc := scenario.Classify(label)
	expected := gen.Generate271(sc, opts.Member.identity(), controls)

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(x12.Format(expected.Segments)),
		B:        difflib.SplitLines(x12.Format(submitted.Segments)),
		FromFile: "expected/" + testID + "_271.x12",
		ToFile:   path,
		Context:  opts.Context,
	})
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeDiff, "failed to compute diff", err)
	}

	result := DiffResult{TestID: testID, Scenario: sc, Identical: diff == "", Diff: diff}
	var failure *CLIError
	if !result.Identical {
		failure = &CLIError{Code: ErrCodeDiff, Message: "submitted 271 differs from expected"}
	}
	if err := f.Render(result, failure, "", func(w io.Writer) {
		if result.Identical {
			fmt.Fprintf(w, "✓ %s matches the expected %s response\n", path, sc)
			return
		}
		fmt.Fprint(w, diff)
	}); err != nil {
		return err
	}

	if !result.Identical {
		return NewExitError(ExitFailure, "submitted 271 differs from expected")
	}
	return nil
}

// interchangeOf reads the control numbers and ISA09/ISA10 timestamp of p.
// Missing parts fall back to sequence 1 and the current time.
func interchangeOf(p *x12.Payload) (x12.ControlNumbers, time.Time) {
	controls := x12.ControlNumbersFor(1)
	at := time.Now().UTC()

	if isa, ok := p.First("ISA"); ok {
		if v := isa.Element(13); v != "" {
			controls.ISA = v
		}
		if t, err := time.Parse("060102 1504", isa.Element(9)+" "+isa.Element(10)); err == nil {
			at = t
		}
	}
	if gs, ok := p.First("GS"); ok && gs.Element(6) != "" {
		controls.GS = gs.Element(6)
	}
	if st, ok := p.First("ST"); ok && st.Element(2) != "" {
		controls.ST = st.Element(2)
	}
	return controls, at
}
