package errors

import (
	"fmt"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *CrashError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *CrashError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// BackendInitFailed creates a backend initialization failure error.
// The reporter swallows this on its public surface; it reaches the
// diagnostic hook and the logs only.
func BackendInitFailed(kind string, err error) *CrashError {
	return Wrap(err, ErrCodeBackendInit, fmt.Sprintf("failed to initialize %s crash backend", kind)).
		WithDetail("backend", kind)
}

// StoreUnreadable creates an upload-store read failure error
func StoreUnreadable(path string, err error) *CrashError {
	return Wrap(err, ErrCodeStoreUnreadable, fmt.Sprintf("failed to read upload store: %s", path)).
		WithDetail("path", path)
}

// StoreWriteFailed creates a consent/settings write failure error
func StoreWriteFailed(path string, err error) *CrashError {
	return Wrap(err, ErrCodeStoreWrite, fmt.Sprintf("failed to write settings store: %s", path)).
		WithDetail("path", path)
}

// MonitorNotRunning creates a monitor connection error
func MonitorNotRunning(socketPath string) *CrashError {
	return New(ErrCodeMonitorNotRunning,
		"crash monitor is not running; start it with 'crashkit monitor'").
		WithDetail("socket", socketPath)
}
