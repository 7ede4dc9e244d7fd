package monitor

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/grovetools/crashkit/logging"
	"github.com/grovetools/crashkit/pkg/paths"
	"github.com/grovetools/crashkit/uploadlist"
)

// Watcher watches the crash-dump directory and publishes events for
// new dumps and upload-log growth.
type Watcher struct {
	watcher    *fsnotify.Watcher
	store      *Store
	crashDir   string
	debounce   time.Duration
	mu         sync.Mutex
	lastChange map[string]time.Time
	logger     *logrus.Entry
}

// NewWatcher creates a Watcher over crashDir, publishing into store.
// Rapid rewrites of the same path within debounce are coalesced.
func NewWatcher(crashDir string, store *Store, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := fsw.Add(crashDir); err != nil {
		fsw.Close()
		return nil, err
	}

	return &Watcher{
		watcher:    fsw,
		store:      store,
		crashDir:   crashDir,
		debounce:   debounce,
		lastChange: make(map[string]time.Time),
		logger:     logging.NewLogger("crash-watcher"),
	}, nil
}

// Run processes filesystem events until ctx is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	w.logger.WithField("dir", w.crashDir).Info("Watching crash directory")

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.WithError(err).Warn("Watcher error")
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if w.debounced(event.Name) {
		return
	}

	name := filepath.Base(event.Name)
	switch {
	case strings.HasSuffix(name, ".dmp") && event.Op.Has(fsnotify.Create):
		w.logger.WithField("dump", name).Info("New crash dump detected")
		w.store.Publish(Event{
			Type: EventPendingCrash,
			Path: event.Name,
			Time: time.Now(),
		})
	case name == paths.ReporterLogFilename && (event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create)):
		w.store.Publish(Event{
			Type:     EventReportUploaded,
			Path:     event.Name,
			ReportID: lastUploadedID(event.Name),
			Time:     time.Now(),
		})
	}
}

func (w *Watcher) debounced(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	now := time.Now()
	if last, ok := w.lastChange[path]; ok && now.Sub(last) < w.debounce {
		return true
	}
	w.lastChange[path] = now
	return false
}

// lastUploadedID re-reads the upload log and returns the newest report
// ID, empty when the log is unreadable.
func lastUploadedID(path string) string {
	list := uploadlist.NewTextLogList(path)
	if err := list.Load(); err != nil {
		return ""
	}
	records := list.Records(1)
	if len(records) == 0 {
		return ""
	}
	return records[0].ReportID
}
