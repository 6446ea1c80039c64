package cli

import (
	"fmt"
	"io"

	"github.com/roach88/eligsim/internal/orchestrator"
	"github.com/roach88/eligsim/internal/validator"
)

// writeFindings prints failed findings, and passed ones too when verbose.
func writeFindings(w io.Writer, findings []validator.Finding, verbose bool, indent string) {
	for _, f := range findings {
		switch {
		case f.Passed:
			if verbose {
				fmt.Fprintf(w, "%s✓ %s: %s\n", indent, f.RuleID, f.Description)
			}
		case f.Severity == validator.Error:
			fmt.Fprintf(w, "%s✗ %s: %s\n", indent, f.RuleID, f.Description)
		default:
			fmt.Fprintf(w, "%s! %s [%s]: %s\n", indent, f.RuleID, f.Severity, f.Description)
		}
	}
}

func writeResult(w io.Writer, r orchestrator.TestResult, verbose bool) {
	if r.Passed() {
		fmt.Fprintf(w, "✓ %s (%s) %dms\n", r.TestID, r.Scenario, r.ResponseTimeMs)
	} else {
		fmt.Fprintf(w, "✗ %s (%s) %dms: %s\n", r.TestID, r.Scenario, r.ResponseTimeMs, r.ErrorMessage)
	}
	writeFindings(w, r.Findings, verbose, "  ")
}

func writeSummary(w io.Writer, s orchestrator.BatchSummary) {
	fmt.Fprintf(w, "\nBatch Summary: %d passed, %d failed, %d total (avg %dms, wall %dms)\n",
		s.Passed, s.Failed, s.Total, s.AverageResponseTimeMs, s.TotalExecutionTimeMs)
}
