package validator

import (
	"fmt"

	"github.com/roach88/eligsim/internal/x12"
)

// Severity grades a finding. Only failed Error findings fail a transaction.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

var severityNames = [...]string{Info: "info", Warning: "warning", Error: "error"}

func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return fmt.Sprintf("severity(%d)", int(s))
	}
	return severityNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(b []byte) error {
	for i, n := range severityNames {
		if n == string(b) {
			*s = Severity(i)
			return nil
		}
	}
	return fmt.Errorf("unknown severity %q", string(b))
}

// Finding is the outcome of one check.
type Finding struct {
	RuleID      string   `json:"ruleId"`
	Transaction x12.Kind `json:"transaction,omitempty"`
	Passed      bool     `json:"passed"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
}

// Failed reports whether the finding fails its transaction.
func (f Finding) Failed() bool {
	return !f.Passed && f.Severity == Error
}

// Passed reports whether no finding in the set fails.
func Passed(findings []Finding) bool {
	for _, f := range findings {
		if f.Failed() {
			return false
		}
	}
	return true
}

// Failures returns the failing findings in order.
func Failures(findings []Finding) []Finding {
	var out []Finding
	for _, f := range findings {
		if f.Failed() {
			out = append(out, f)
		}
	}
	return out
}

// Rule ids produced outside the payload checks.
const (
	RuleEnvelope    = "X12_ENVELOPE"
	RuleSystemError = "SYSTEM_ERROR"
	RuleInputError  = "INPUT_ERROR"
)

// SystemError is the single finding reported when processing faults.
func SystemError(description string) Finding {
	return Finding{RuleID: RuleSystemError, Severity: Error, Description: description}
}

func check(rule string, kind x12.Kind, sev Severity, ok bool, pass, fail string) Finding {
	f := Finding{RuleID: rule, Transaction: kind, Passed: ok, Severity: sev, Description: pass}
	if !ok {
		f.Description = fail
	}
	return f
}
