package monitor

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/grovetools/crashkit/internal/monitor/pidfile"
	"github.com/grovetools/crashkit/logging"
	"github.com/grovetools/crashkit/pkg/paths"
)

// DefaultDebounce coalesces rapid filesystem changes to one event.
const DefaultDebounce = 250 * time.Millisecond

// Monitor ties the watcher and the socket server together.
type Monitor struct {
	crashDir string
	store    *Store
	logger   *logrus.Entry
}

// New creates a Monitor over crashDir. An empty dir selects the
// standard crash-dump location.
func New(crashDir string) *Monitor {
	if crashDir == "" {
		crashDir = paths.CrashDumpDir()
	}
	return &Monitor{
		crashDir: crashDir,
		store:    NewStore(),
		logger:   logging.NewLogger("crash-monitor"),
	}
}

// Store returns the monitor's event store.
func (m *Monitor) Store() *Store {
	return m.store
}

// Run acquires the PID file, starts the watcher and the socket server,
// and blocks until ctx is canceled or the server fails.
func (m *Monitor) Run(ctx context.Context) error {
	if err := paths.EnsureDirs(); err != nil {
		return err
	}
	if err := os.MkdirAll(m.crashDir, 0o755); err != nil {
		return err
	}

	pidPath := paths.PidFilePath()
	if err := pidfile.Acquire(pidPath); err != nil {
		return err
	}
	defer func() { _ = pidfile.Release(pidPath) }()

	watcher, err := NewWatcher(m.crashDir, m.store, DefaultDebounce)
	if err != nil {
		return err
	}

	server := NewServer(m.store, m.logger)

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- watcher.Run(watchCtx)
	}()
	go func() {
		errCh <- server.ListenAndServe(paths.SocketPath())
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = server.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		return err
	}
}
