package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/eligsim/internal/config"
	"github.com/roach88/eligsim/internal/orchestrator"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the eligsim CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "eligsim",
		Short: "eligsim - X12 270/271 eligibility payer simulator",
		Long: `Simulate a health-plan payer answering X12 005010X279A1 eligibility
inquiries. Generate 270/271 test pairs, validate submitted payloads and run
certification suites against the mock payer.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to eligsim YAML config")

	cmd.AddCommand(NewClassifyCommand(opts))
	cmd.AddCommand(NewGenerateCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewBatchCommand(opts))
	cmd.AddCommand(NewDiffCommand(opts))
	cmd.AddCommand(NewRecommendCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewStatusCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// formatter builds the output formatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// logger writes structured logs to w, at debug level when verbose.
func (o *RootOptions) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadConfig reads --config and ELIGSIM_* overrides. Unknown keys are
// reported as verbose diagnostics.
func (o *RootOptions) loadConfig(f *OutputFormatter) (config.Config, error) {
	loaded, err := config.Load(o.ConfigPath, nil)
	if err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	for _, w := range loaded.Warnings {
		f.VerboseLog("config: %s", w)
	}
	return loaded.Config, nil
}

// orchestrator builds an orchestrator from the loaded configuration.
// mutate may adjust the configuration first.
func (o *RootOptions) orchestrator(cmd *cobra.Command, f *OutputFormatter, mutate func(*orchestrator.Config)) (*orchestrator.Orchestrator, error) {
	cfg, err := o.loadConfig(f)
	if err != nil {
		return nil, err
	}
	oc := cfg.Orchestrator()
	oc.Logger = o.logger(cmd.ErrOrStderr())
	if mutate != nil {
		mutate(&oc)
	}
	orch, err := orchestrator.New(oc)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	return orch, nil
}
