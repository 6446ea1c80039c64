package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/eligsim/internal/scenario"
)

// ClassifyResult is the outcome of classifying one label.
type ClassifyResult struct {
	Label    string            `json:"label"`
	Scenario scenario.Scenario `json:"scenario"`
	Matched  string            `json:"matched,omitempty"` // keyword or catalog id; empty when defaulted
}

// NewClassifyCommand creates the classify command.
func NewClassifyCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify <label>...",
		Short: "Show which scenario a test id or label maps to",
		Long: `Classify a test case id or free-text label into one of the six
eligibility scenarios. Rules are evaluated in order and the first keyword
match wins; catalog ids such as TC_004 are used when no keyword matches.
Anything else defaults to active.

Examples:
  eligsim classify TC_002_INACTIVE
  eligsim classify "pharmacy benefits check"`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(rootOpts, strings.Join(args, " "), cmd)
		},
	}
	return cmd
}

func runClassify(opts *RootOptions, label string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	sc, matched := scenario.Match(label)
	result := ClassifyResult{Label: label, Scenario: sc, Matched: matched}

	return f.Render(result, nil, "", func(w io.Writer) {
		if matched == "" {
			fmt.Fprintf(w, "%s → %s (default)\n", label, sc)
			return
		}
		fmt.Fprintf(w, "%s → %s (matched %q)\n", label, sc, matched)
	})
}
