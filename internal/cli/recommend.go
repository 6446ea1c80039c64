package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/eligsim/internal/scenario"
)

// RecommendOptions holds flags for the recommend command.
type RecommendOptions struct {
	*RootOptions
	Priority string
}

// NewRecommendCommand creates the recommend command.
func NewRecommendCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RecommendOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "List the payer's recommended certification tests",
		Long: `List the recommended test plan for certifying a 270/271 integration
with the mock payer, with priority, category and estimated duration.

Examples:
  eligsim recommend
  eligsim recommend --priority critical --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecommend(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Priority, "priority", "", "only list this priority (critical|medium)")

	return cmd
}

func runRecommend(opts *RecommendOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	var recs []scenario.Recommendation
	for _, r := range scenario.Catalog() {
		if opts.Priority == "" || strings.EqualFold(r.Priority, opts.Priority) {
			recs = append(recs, r)
		}
	}
	if len(recs) == 0 {
		return f.Fail(ExitCommandError, ErrCodeInvalidInput, fmt.Sprintf("no recommendations with priority %q", opts.Priority), nil)
	}

	return f.Render(recs, nil, "", func(w io.Writer) {
		for _, r := range recs {
			fmt.Fprintf(w, "%-7s %-9s %-40s %s, %s\n", r.ID, r.Priority, r.Title, r.Category, r.EstimatedDuration)
			if opts.Verbose {
				fmt.Fprintf(w, "        %s\n", r.Description)
			}
		}
	})
}
