package reporter

import (
	"github.com/grovetools/crashkit/uploadlist"
)

// std is the process-wide reporter behind the package-level call
// surface. Embedders that need isolation (or tests) construct their
// own Reporter with New.
var std = New()

// Default returns the shared process-wide reporter.
func Default() *Reporter {
	return std
}

// Start drives the shared reporter's one-time bring-up.
func Start(opts StartOptions) {
	std.Start(opts)
}

// IsCrashReporterEnabled reports whether the shared reporter started.
func IsCrashReporterEnabled() bool {
	return std.IsCrashReporterEnabled()
}

// AddExtraParameter upserts a crash key on the shared reporter.
func AddExtraParameter(name, value string) {
	std.AddExtraParameter(name, value)
}

// RemoveExtraParameter removes a crash key from the shared reporter.
func RemoveExtraParameter(name string) {
	std.RemoveExtraParameter(name)
}

// GetGlobalCrashKeys returns the shared reporter's global key table.
func GetGlobalCrashKeys() map[string]string {
	return std.GetGlobalCrashKeys()
}

// SetUploadToServer records upload consent on the shared reporter.
func SetUploadToServer(upload bool) {
	std.SetUploadToServer(upload)
}

// GetUploadToServer returns the shared reporter's upload consent.
func GetUploadToServer() bool {
	return std.GetUploadToServer()
}

// GetUploadedReports queries the shared reporter's upload store.
func GetUploadedReports(cb func([]uploadlist.Record)) {
	std.GetUploadedReports(cb)
}
