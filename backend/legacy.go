package backend

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/grovetools/crashkit/crashkeys"
	"github.com/grovetools/crashkit/errors"
	"github.com/grovetools/crashkit/logging"
)

// Legacy is the breakpad-style backend. Reports land as minidumps in
// the crash-dump directory and uploads are appended to the text log;
// annotations travel as form parameters with each upload.
type Legacy struct {
	mu          sync.Mutex
	opts        Options
	role        string
	initialized bool
	annotations *crashkeys.Store
	logger      *logrus.Entry
}

// NewLegacy creates an uninitialized legacy backend.
func NewLegacy(opts Options) *Legacy {
	return &Legacy{
		opts:        opts,
		annotations: newAnnotationStore(),
		logger:      logging.NewLogger("breakpad"),
	}
}

// Kind identifies the variant.
func (l *Legacy) Kind() Kind {
	return KindLegacy
}

// Initialize prepares the crash-dump directory and installs the
// capture handler for the given process role.
func (l *Legacy) Initialize(processRole string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.initialized {
		return nil
	}

	if err := os.MkdirAll(l.opts.CrashesDirectory, 0o755); err != nil {
		return errors.BackendInitFailed(string(KindLegacy), err)
	}

	l.role = processRole
	l.initialized = true
	l.logger.WithFields(logrus.Fields{
		"role":       displayRole(processRole),
		"crash_dir":  l.opts.CrashesDirectory,
		"submit_url": l.opts.SubmitURL,
	}).Info("Breakpad backend initialized")
	return nil
}

// SetSubmitURL configures the upload endpoint used after capture.
func (l *Legacy) SetSubmitURL(url string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.opts.SubmitURL = url
}

// SubmitURL returns the configured upload endpoint.
func (l *Legacy) SubmitURL() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.opts.SubmitURL
}

// ApplyKey attaches an annotation to future uploads.
func (l *Legacy) ApplyKey(name, value string) {
	l.annotations.Set(name, value)
}

// RemoveKey detaches an annotation.
func (l *Legacy) RemoveKey(name string) {
	l.annotations.Remove(name)
}

// Annotations returns the attached annotations.
func (l *Legacy) Annotations() map[string]string {
	return l.annotations.All()
}
