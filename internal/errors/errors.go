package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/tally/internal/catalog"
	"github.com/julianstephens/tally/internal/coordinator"
	"github.com/julianstephens/tally/internal/ledger"
	"github.com/julianstephens/tally/internal/logger"
)

var hints = []struct {
	target error
	hint   string
}{
	{ledger.ErrFutureDate, "trackers can only be completed for today or earlier"},
	{ledger.ErrAlreadyCompleted, "use 'tally unmark' to undo a completion"},
	{catalog.ErrUnknownCategory, "create it first with 'tally category add'"},
	{catalog.ErrAmbiguous, "refer to the tracker by id (see 'tally tracker list')"},
}

// Hint returns a short suggestion for known domain errors, or "".
func Hint(err error) string {
	for _, h := range hints {
		if stderrors.Is(err, h.target) {
			return h.hint
		}
	}
	return ""
}

// Format formats an error message with a consistent "Error: " prefix. Form
// validation errors are listed one field per line.
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		msg = "Error: invalid tracker"
		for _, e := range joined.Unwrap() {
			var verr *coordinator.ValidationError
			if stderrors.As(e, &verr) {
				msg += fmt.Sprintf("\n  - %s: %v", verr.Field, verr.Err)
			} else {
				msg += fmt.Sprintf("\n  - %v", e)
			}
		}
	}
	if hint := Hint(err); hint != "" {
		msg += "\n  (" + hint + ")"
	}
	return msg
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
