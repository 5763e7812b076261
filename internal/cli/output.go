package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Exit codes follow the BSD sysexits convention so shell callers can
// distinguish bad invocations from bad input.
const (
	ExitSuccess  = 0  // successful execution
	ExitUsage    = 64 // command line usage error
	ExitDataErr  = 65 // input data was malformed (syntax errors, bad records)
	ExitSoftware = 70 // internal software error
	ExitIOErr    = 74 // input/output error
)

// ExitError carries a specific exit code out of a command.
type ExitError struct {
	Code    int
	Message string
	Err     error
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

// NewExitError creates an ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error. Non-ExitError
// failures map to ExitSoftware.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitSoftware
}

// Formatter routes command output to the configured format and writers.
type Formatter struct {
	Format    string // "text" | "json" | "dot"
	Writer    io.Writer
	ErrWriter io.Writer
}

// Emit writes a preformatted document followed by a newline when the
// document does not already end in one.
func (f *Formatter) Emit(doc string) {
	fmt.Fprint(f.Writer, doc)
	if len(doc) > 0 && doc[len(doc)-1] != '\n' {
		fmt.Fprintln(f.Writer)
	}
}

// EmitJSON marshals a value with indentation.
func (f *Formatter) EmitJSON(v any) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Diagnostics writes a diagnostic report to the error writer so JSON
// output on stdout stays parseable.
func (f *Formatter) Diagnostics(report string) {
	if report == "" {
		return
	}
	fmt.Fprint(f.ErrWriter, report)
	if report[len(report)-1] != '\n' {
		fmt.Fprintln(f.ErrWriter)
	}
}
