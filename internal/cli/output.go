package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Failed validation, failed test cases or a payload diff
	ExitCommandError = 2 // Command error (bad arguments, unreadable files, invalid config)
)

// Error codes reported in CLIError.Code.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeInvalidInput = "E002" // Bad argument or flag value
	ErrCodeReadFailed   = "E003" // Input file could not be read
	ErrCodeConfig       = "E004" // Configuration could not be loaded
	ErrCodeSuite        = "E005" // Suite failed to load or validate
	ErrCodeStorage      = "E006" // Run ledger error
	ErrCodeValidation   = "E101" // Payload failed validation
	ErrCodeTestFailed   = "E102" // One or more test cases failed
	ErrCodeDiff         = "E103" // Submitted payload differs from expected
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string      `json:"status"`           // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`   // success payload
	Error  *CLIError   `json:"error,omitempty"`  // error details
	RunID  string      `json:"run_id,omitempty"` // ledger id when a batch was recorded
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string      `json:"code"`              // "E001", "E002", etc.
	Message string      `json:"message"`           // human-readable message
	Details interface{} `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Render outputs data as a JSON envelope, or through text in text mode.
// In JSON mode a non-empty failure code marks the response as an error
// carrying data in its details.
func (f *OutputFormatter) Render(data interface{}, failure *CLIError, runID string, text func(w io.Writer)) error {
	if f.Format == "json" {
		resp := CLIResponse{Status: "ok", Data: data, RunID: runID}
		if failure != nil {
			resp = CLIResponse{Status: "error", Error: failure, RunID: runID}
			if failure.Details == nil {
				failure.Details = data
			}
		}
		return json.NewEncoder(f.Writer).Encode(resp)
	}
	text(f.Writer)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Fail reports a command error and returns it as an ExitError with the
// given exit code.
func (f *OutputFormatter) Fail(exitCode int, code, message string, err error) error {
	var details interface{}
	text := message
	if err != nil {
		details = err.Error()
		text = fmt.Sprintf("%s: %v", message, err)
	}
	_ = f.Error(code, text, details)
	return &ExitError{Code: exitCode, Message: fmt.Sprintf("%s [%s]", message, code), Err: err}
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
