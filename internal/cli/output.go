package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Operation failure (sync denied, nothing to recommend, etc.)
	ExitCommandError = 2 // Command error (bad flags, unreadable config, missing files)
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
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format  string
	Writer  io.Writer
	printer *message.Printer
}

// NewFormatter creates a formatter writing to w.
func NewFormatter(format string, w io.Writer) *OutputFormatter {
	return &OutputFormatter{
		Format:  format,
		Writer:  w,
		printer: message.NewPrinter(language.English),
	}
}

// Print emits v as JSON, or calls text to render the human view.
func (f *OutputFormatter) Print(v any, text func(w io.Writer) error) error {
	if f.Format == "json" {
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return text(f.Writer)
}

// Money renders an amount with locale-aware grouping ("$1,234.56").
func (f *OutputFormatter) Money(amount float64) string {
	return f.printer.Sprintf("$%.2f", amount)
}

// Rate renders an effective rate ("3.25%").
func (f *OutputFormatter) Rate(rate float64) string {
	return f.printer.Sprintf("%.2f%%", rate)
}
