package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "status",
		Short:         "Show the simulated payer's identity and settings",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(rootOpts, cmd)
		},
	}
	return cmd
}

func runStatus(opts *RootOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	orch, err := opts.orchestrator(cmd, f, nil)
	if err != nil {
		return err
	}
	st := orch.Status()
	cfg := orch.Config()

	return f.Render(st, nil, "", func(w io.Writer) {
		fmt.Fprintf(w, "Payer:        %s (%s)\n", st.PayerName, st.PayerID)
		fmt.Fprintf(w, "Transactions: %s\n", strings.Join(st.SupportedTransactions, ", "))
		fmt.Fprintf(w, "Environment:  %s (usage %s)\n", st.Environment, st.Usage)
		fmt.Fprintf(w, "Latency:      %s - %s\n", cfg.LatencyMin, cfg.LatencyMax)
		fmt.Fprintf(w, "Concurrency:  %d\n", cfg.Concurrency)
		fmt.Fprintf(w, "Enrichment:   %t\n", cfg.Enrichment)
	})
}
