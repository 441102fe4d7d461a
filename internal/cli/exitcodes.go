package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/yaklabco/cfmtlint/pkg/config"
	"github.com/yaklabco/cfmtlint/pkg/fsutil"
	"github.com/yaklabco/cfmtlint/pkg/lint"
	"github.com/yaklabco/cfmtlint/pkg/runner"
)

// Exit codes for cfmtlint.
const (
	// ExitSuccess indicates successful execution with no issues.
	ExitSuccess = 0

	// ExitLintErrors indicates lint completed but found errors, or fmt --check
	// found files that need formatting.
	ExitLintErrors = 1

	// ExitLintWarnings indicates lint completed but found warnings (when strict mode).
	ExitLintWarnings = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

const exitCodeTable = `  0   no issues
  1   errors found, or files need formatting
  2   warnings found with --strict
  64  invalid usage
  65  configuration error
  70  internal error
  74  I/O error`

var (
	// ErrLintIssuesFound is returned when lint issues are found.
	ErrLintIssuesFound = errors.New("lint issues found")

	// ErrFormatNeeded is returned by fmt --check when a file would change.
	ErrFormatNeeded = errors.New("files need formatting")
)

// ExitError carries the process exit code for an error.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: code, Err: err}
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	switch {
	case errors.Is(err, ErrLintIssuesFound), errors.Is(err, ErrFormatNeeded):
		return ExitLintErrors
	case errors.Is(err, lint.ErrFileNotFound),
		errors.Is(err, lint.ErrPermissionDenied),
		errors.Is(err, lint.ErrWriteFailure),
		errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory),
		errors.Is(err, fs.ErrNotExist),
		errors.Is(err, fs.ErrPermission):
		return ExitIOError
	default:
		return ExitInternalError
	}
}

// IsSilent reports whether err only signals an exit code and needs no log line.
func IsSilent(err error) bool {
	return errors.Is(err, ErrLintIssuesFound) || errors.Is(err, ErrFormatNeeded)
}

// ExitCodeFromResult determines the exit code based on result and strict mode.
func ExitCodeFromResult(result *runner.Result, strict bool) int {
	if result == nil {
		return ExitSuccess
	}

	errs := result.Stats.DiagnosticsBySeverity[config.SeverityError]
	warnings := result.Stats.DiagnosticsBySeverity[config.SeverityWarning]

	if errs > 0 {
		return ExitLintErrors
	}

	if strict && warnings > 0 {
		return ExitLintWarnings
	}

	if len(result.Errors) > 0 || result.Stats.FilesErrored > 0 {
		return ExitIOError
	}

	return ExitSuccess
}
