package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/eligsim/internal/scenario"
	"github.com/roach88/eligsim/internal/validator"
	"github.com/roach88/eligsim/internal/x12"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Scenario    string
	Label       string
	Kind        string
	ServiceType string
}

// ValidateResult is the outcome of validating one payload file.
type ValidateResult struct {
	File     string              `json:"file"`
	Scenario scenario.Scenario   `json:"scenario"`
	Kind     x12.Kind            `json:"kind"`
	Passed   bool                `json:"passed"`
	Summary  *x12.Summary        `json:"summary,omitempty"`
	Findings []validator.Finding `json:"findings"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <payload-file>",
		Short: "Validate a 270 or 271 payload",
		Long: `Validate an X12 270 or 271 payload file. Every payload gets the
structural pass (envelope order, control numbers, segment count). A 270
also gets request checks; a 271 gets the scenario's business rules.

The scenario comes from --scenario, or is classified from --label.
The transaction type is read from ST01 unless --kind is given.

Exit codes:
  0 - Payload is valid
  1 - One or more error findings
  2 - Command error (unreadable file, bad flags)

Examples:
  eligsim validate response.x12 --scenario inactive
  eligsim validate request.x12 --label TC_004_PHARMACY --kind 270`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Scenario, "scenario", "", "scenario to validate against")
	cmd.Flags().StringVar(&opts.Label, "label", "", "classify this test id or label into the scenario")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "transaction type (270|271); default from ST01")
	cmd.Flags().StringVar(&opts.ServiceType, "service-type", "", "service type expected in EB/EQ (default: scenario's)")

	return cmd
}

func runValidate(opts *ValidateOptions, path string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	sc, err := resolveScenario(opts.Scenario, opts.Label)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeInvalidInput, "cannot determine scenario", err)
	}

	var kind x12.Kind
	if opts.Kind != "" {
		if kind, err = x12.ParseKind(opts.Kind); err != nil {
			return f.Fail(ExitCommandError, ErrCodeInvalidInput, "invalid kind", err)
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeReadFailed, "failed to read payload", err)
	}

	cfg, err := opts.loadConfig(f)
	if err != nil {
		return err
	}
	vopts := []validator.Option{validator.WithPayerID(cfg.Payer.ID)}
	if opts.ServiceType != "" {
		vopts = append(vopts, validator.WithServiceType(opts.ServiceType))
	}

	payload, findings := validator.ValidateRaw(string(raw), kind, sc, vopts...)
	result := ValidateResult{
		File:     path,
		Scenario: sc,
		Kind:     kind,
		Passed:   validator.Passed(findings),
		Findings: findings,
	}
	if payload != nil {
		summary := x12.Summarize(payload)
		result.Summary = &summary
		result.Kind = payload.Kind
	}

	var failure *CLIError
	if !result.Passed {
		failure = &CLIError{Code: ErrCodeValidation, Message: "payload failed validation"}
	}
	if err := f.Render(result, failure, "", func(w io.Writer) {
		if result.Summary != nil {
			fmt.Fprintf(w, "%s: %s transaction, %d segments, control %s\n",
				path, result.Summary.TransactionType, result.Summary.SegmentCount, result.Summary.ControlNumber)
			if opts.Verbose {
				for _, k := range result.Summary.KeySegments {
					fmt.Fprintf(w, "  %-40s %s\n", k.Value, k.Description)
				}
			}
		}
		writeFindings(w, findings, opts.Verbose, "")
		if result.Passed {
			fmt.Fprintf(w, "✓ Valid %s for scenario %s\n", result.Kind, sc)
		} else {
			fmt.Fprintf(w, "✗ %d error finding(s) for scenario %s\n", len(validator.Failures(findings)), sc)
		}
	}); err != nil {
		return err
	}

	if !result.Passed {
		return NewExitError(ExitFailure, "payload failed validation")
	}
	return nil
}

// resolveScenario prefers an explicit scenario name over a label.
func resolveScenario(name, label string) (scenario.Scenario, error) {
	switch {
	case name != "":
		return scenario.Parse(name)
	case label != "":
		return scenario.Classify(label), nil
	default:
		return 0, fmt.Errorf("one of --scenario or --label is required")
	}
}
