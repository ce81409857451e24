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
	ExitFailure      = 1 // Invalid document, failed scenario, replay mismatch, etc.
	ExitCommandError = 2 // Command error (unreadable file, journal not found, etc.)
)

// Error codes reported in CLIError.Code.
const (
	ErrCodeIO              = "E_IO"
	ErrCodeInvalidDocument = "E_INVALID_DOCUMENT"
	ErrCodeScript          = "E_SCRIPT"
	ErrCodeNoProject       = "E_NO_PROJECT"
	ErrCodeReplay          = "E_REPLAY"
	ErrCodeTestFailed      = "E_TEST_FAILED"
)

// ExitError carries the process exit code out of a command's RunE.
type ExitError struct {
	Code    int    // ExitFailure or ExitCommandError
	Message string
	Err     error // optional cause
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
// Errors that are not an ExitError map to ExitFailure.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// CLIResponse is the envelope of every --format json result.
type CLIResponse struct {
	Status    string    `json:"status"` // "ok" or "error"
	Data      any       `json:"data,omitempty"`
	Error     *CLIError `json:"error,omitempty"`
	SessionID string    `json:"session_id,omitempty"` // journal session, when one was written
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"` // ErrCode* constant
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func encodeResponse(w io.Writer, resp CLIResponse) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(resp)
}

// OutputFormatter writes errors and diagnostics in the selected format.
// Command results have their own text renderings and go through
// encodeResponse in JSON mode.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // diagnostics; defaults to Writer
	Verbose   bool
}

// Error reports a failure. In text mode details are shown only with -v.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return encodeResponse(f.Writer, CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// VerboseLog writes a diagnostic line when -v is set. It never writes to
// Writer when ErrWriter is set, so JSON output stays parseable.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}
