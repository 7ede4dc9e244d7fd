// Package backend abstracts the native crash-capture mechanism. Two
// variants exist: the structured crashpad-style backend (preferred
// where available) and the legacy breakpad-style text-log backend.
// The reporter picks one at Start and keeps it for the process
// lifetime.
package backend

import (
	"os"
	"os/exec"
	"strings"

	"github.com/grovetools/crashkit/crashkeys"
)

// Kind tags the backend variant.
type Kind string

const (
	KindStructured Kind = "crashpad"
	KindLegacy     Kind = "breakpad"
)

// Backend is the capability the reporter drives. Implementations own
// process-wide registration (signal handlers, upload endpoint config);
// none of it is reversible within the process.
type Backend interface {
	// Kind identifies the variant.
	Kind() Kind
	// Initialize brings the backend up for the given process role. The
	// empty role denotes the main (embedder) process.
	Initialize(processRole string) error
	// SetSubmitURL configures the report submission endpoint.
	SetSubmitURL(url string)
	// ApplyKey attaches an annotation to future crash reports.
	ApplyKey(name, value string)
	// RemoveKey detaches an annotation. Absent keys are a no-op.
	RemoveKey(name string)
	// Annotations returns the annotations currently attached.
	Annotations() map[string]string
}

// Options carries the Start parameters a backend cares about.
type Options struct {
	CrashesDirectory         string
	SubmitURL                string
	RateLimit                bool
	Compress                 bool
	IgnoreSystemCrashHandler bool
}

// StructuredEnabled reports whether the structured backend can be used
// on the given platform. Darwin and windows ship it unconditionally;
// elsewhere it needs the crashpad handler binary on PATH, or the
// CRASHKIT_FORCE_BACKEND=crashpad override.
func StructuredEnabled(goos string) bool {
	switch goos {
	case "darwin", "windows":
		return true
	}
	switch os.Getenv("CRASHKIT_FORCE_BACKEND") {
	case "crashpad":
		return true
	case "breakpad":
		return false
	}
	_, err := exec.LookPath("crashpad_handler")
	return err == nil
}

// New constructs the backend for the given platform per
// StructuredEnabled.
func New(goos string, opts Options) Backend {
	if StructuredEnabled(goos) {
		return NewStructured(opts)
	}
	return NewLegacy(opts)
}

// Role resolves the current process's role from the command line
// (--type=<role>) or the CRASHKIT_PROCESS_TYPE environment variable.
// The empty string denotes the main process.
func Role() string {
	if role := roleFromArgs(os.Args[1:]); role != "" {
		return role
	}
	return os.Getenv("CRASHKIT_PROCESS_TYPE")
}

func roleFromArgs(args []string) string {
	for _, arg := range args {
		if strings.HasPrefix(arg, "--type=") {
			return strings.TrimPrefix(arg, "--type=")
		}
	}
	return ""
}

func newAnnotationStore() *crashkeys.Store {
	return crashkeys.NewStore()
}
