package cli

import (
	"fmt"
	"os"

	"github.com/grovetools/crashkit/errors"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
	}
}

// Handle provides user-friendly error messages based on error type
func (h *ErrorHandler) Handle(err error) error {
	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(os.Stderr, "❌ Configuration not found. Create a crashkit.yml or pass --config.\n")
		return err

	case errors.ErrCodeMonitorNotRunning:
		fmt.Fprintf(os.Stderr, "❌ The crash monitor is not running.\n")
		fmt.Fprintf(os.Stderr, "Start it with 'crashkit monitor'.\n")
		return err

	case errors.ErrCodeStoreUnreadable:
		if crashErr, ok := err.(*errors.CrashError); ok {
			fmt.Fprintf(os.Stderr, "❌ Could not read the upload store at %v\n", crashErr.Details["path"])
		}
		return err
	}

	if h.Verbose {
		if crashErr, ok := err.(*errors.CrashError); ok {
			fmt.Fprintf(os.Stderr, "%s\n", crashErr.ToJSON())
			return err
		}
	}
	fmt.Fprintf(os.Stderr, "❌ %v\n", err)
	return err
}
