package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/eligsim/internal/generator"
	"github.com/roach88/eligsim/internal/scenario"
	"github.com/roach88/eligsim/internal/x12"
)

// memberFlags are the identity overrides shared by generate and run.
type memberFlags struct {
	MemberID    string
	FirstName   string
	LastName    string
	DateOfBirth string
	Gender      string
	ServiceType string
}

func (m *memberFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&m.MemberID, "member-id", "", "member id (default: scenario template)")
	cmd.Flags().StringVar(&m.FirstName, "first-name", "", "member first name")
	cmd.Flags().StringVar(&m.LastName, "last-name", "", "member last name")
	cmd.Flags().StringVar(&m.DateOfBirth, "dob", "", "member date of birth (CCYYMMDD)")
	cmd.Flags().StringVar(&m.Gender, "gender", "", "member gender (M|F|U)")
	cmd.Flags().StringVar(&m.ServiceType, "service-type", "", "service type code (30 health plan, 88 pharmacy)")
}

func (m *memberFlags) identity() scenario.MemberIdentity {
	return scenario.MemberIdentity{
		MemberID:    m.MemberID,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		DateOfBirth: m.DateOfBirth,
		Gender:      m.Gender,
		ServiceType: m.ServiceType,
	}
}

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	Member   memberFlags
	Label    string
	Kind     string // "270" | "271" | "both"
	Annotate bool
	Control  int64
	OutDir   string
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate <test-id>",
		Short: "Generate a 270 inquiry and its expected 271 response",
		Long: `Generate a test case: a 270 eligibility inquiry and the 271 response
the mock payer returns for it. The scenario is classified from the test id
(or --label). Member fields not given keep the scenario's template values.

Examples:
  eligsim generate TC_001_ACTIVE
  eligsim generate TC_004_PHARMACY --kind 271 --annotate
  eligsim generate my-check --label "terminated coverage" --member-id W123456789
  eligsim generate TC_002_INACTIVE --out ./payloads`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, args[0], cmd)
		},
	}

	opts.Member.bind(cmd)
	cmd.Flags().StringVar(&opts.Label, "label", "", "free-text label to classify instead of the test id")
	cmd.Flags().StringVar(&opts.Kind, "kind", "both", "payloads to print (270|271|both)")
	cmd.Flags().BoolVar(&opts.Annotate, "annotate", false, "annotate each segment with its meaning")
	cmd.Flags().Int64Var(&opts.Control, "control", 0, "interchange control number (default: next in sequence)")
	cmd.Flags().StringVar(&opts.OutDir, "out", "", "also write <test-id>_270.x12 and <test-id>_271.x12 to this directory")

	return cmd
}

func runGenerate(opts *GenerateOptions, testID string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	if opts.Kind != "270" && opts.Kind != "271" && opts.Kind != "both" {
		return f.Fail(ExitCommandError, ErrCodeInvalidInput, fmt.Sprintf("invalid kind %q: must be 270, 271 or both", opts.Kind), nil)
	}

	orch, err := opts.orchestrator(cmd, f, nil)
	if err != nil {
		return err
	}
	cfg := orch.Config()

	controls := cfg.Controls.Next()
	if opts.Control > 0 {
		controls = x12.ControlNumbersFor(opts.Control)
	}

	tc, err := cfg.Strategy.Build(cmd.Context(), generator.Request{
		TestID:   testID,
		Label:    opts.Label,
		Member:   opts.Member.identity(),
		Controls: controls,
	})
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, "failed to generate test case", err)
	}

	if opts.OutDir != "" {
		if err := writePayloads(opts.OutDir, testID, tc); err != nil {
			return f.Fail(ExitCommandError, ErrCodeGeneric, "failed to write payloads", err)
		}
		f.VerboseLog("wrote payloads to %s", opts.OutDir)
	}

	return f.Render(tc, nil, "", func(w io.Writer) {
		fmt.Fprintf(w, "%s: %s [%s]\n", testID, tc.Title, tc.Scenario)
		fmt.Fprintf(w, "Member %s %s (%s), service type %s\n",
			tc.Member.FirstName, tc.Member.LastName, tc.Member.MemberID, tc.Member.ServiceType)
		if opts.Kind != "271" {
			writePayload(w, "270 Request", tc.Request270, opts.Annotate)
		}
		if opts.Kind != "270" {
			writePayload(w, "271 Expected Response", tc.ExpectedResponse271, opts.Annotate)
		}
	})
}

func writePayload(w io.Writer, title string, p *x12.Payload, annotate bool) {
	fmt.Fprintf(w, "\n%s:\n", title)
	if annotate {
		fmt.Fprint(w, x12.Annotate(p.Segments))
		return
	}
	fmt.Fprint(w, x12.Format(p.Segments))
}

func writePayloads(dir, testID string, tc *generator.TestCase) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	files := map[string]*x12.Payload{
		testID + "_270.x12": tc.Request270,
		testID + "_271.x12": tc.ExpectedResponse271,
	}
	for name, p := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(p.Raw+"\n"), 0o644); err != nil {
			return err
		}
	}
	return nil
}
