package backend

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/grovetools/crashkit/crashkeys"
	"github.com/grovetools/crashkit/errors"
	"github.com/grovetools/crashkit/logging"
)

// HandlerBinary is the capture handler executable looked up on PATH.
const HandlerBinary = "crashpad_handler"

// Structured is the crashpad-style backend. It keeps a report database
// directory with pending and completed subdirectories; annotations are
// handed to the capture handler rather than a global table.
type Structured struct {
	mu          sync.Mutex
	opts        Options
	role        string
	initialized bool
	annotations *crashkeys.Store
	launcher    *HandlerLauncher
	handlerPID  int
	logger      *logrus.Entry
}

// NewStructured creates an uninitialized structured backend.
func NewStructured(opts Options) *Structured {
	return &Structured{
		opts:        opts,
		annotations: newAnnotationStore(),
		logger:      logging.NewLogger("crashpad"),
	}
}

// Kind identifies the variant.
func (s *Structured) Kind() Kind {
	return KindStructured
}

// UseLauncher overrides the capture handler launcher. Must be called
// before Initialize.
func (s *Structured) UseLauncher(l *HandlerLauncher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.launcher = l
}

// HandlerPID returns the pid of the launched capture handler, or zero
// when no handler was started.
func (s *Structured) HandlerPID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handlerPID
}

// Initialize lays out the report database and registers the capture
// handler for the given process role.
func (s *Structured) Initialize(processRole string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return nil
	}

	for _, sub := range []string{"pending", "completed", "attachments"} {
		dir := filepath.Join(s.opts.CrashesDirectory, sub)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.BackendInitFailed(string(KindStructured), err)
		}
	}

	// Only the main process owns the capture handler; children attach
	// to the one it started.
	if processRole == "" {
		if s.launcher == nil {
			if bin, err := exec.LookPath(HandlerBinary); err == nil {
				s.launcher = NewHandlerLauncher(bin)
			}
		}
		if s.launcher != nil {
			cmd, err := s.launcher.Start(context.Background(), s.opts, s.annotations.All())
			if err != nil {
				return errors.BackendInitFailed(string(KindStructured), err)
			}
			s.handlerPID = cmd.Process.Pid
		}
	}

	s.role = processRole
	s.initialized = true
	s.logger.WithFields(logrus.Fields{
		"role":       displayRole(processRole),
		"database":   s.opts.CrashesDirectory,
		"rate_limit": s.opts.RateLimit,
		"compress":   s.opts.Compress,
	}).Info("Crashpad backend initialized")
	return nil
}

// SetSubmitURL configures the handler's upload endpoint.
func (s *Structured) SetSubmitURL(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts.SubmitURL = url
}

// SubmitURL returns the configured upload endpoint.
func (s *Structured) SubmitURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts.SubmitURL
}

// ApplyKey attaches an annotation for future reports.
func (s *Structured) ApplyKey(name, value string) {
	s.annotations.Set(name, value)
}

// RemoveKey detaches an annotation.
func (s *Structured) RemoveKey(name string) {
	s.annotations.Remove(name)
}

// Annotations returns the attached annotations.
func (s *Structured) Annotations() map[string]string {
	return s.annotations.All()
}

func displayRole(role string) string {
	if role == "" {
		return "browser"
	}
	return role
}
