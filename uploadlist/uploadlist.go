// Package uploadlist reads the backend-specific record of crash
// reports that have been captured and uploaded. Loads are dispatched
// off the caller's goroutine and delivered through a single callback;
// a store that is missing or unreadable presents as an empty list,
// never as an error.
package uploadlist

import (
	"sort"
	"time"

	"github.com/grovetools/crashkit/logging"
	"github.com/grovetools/crashkit/pkg/paths"
)

// MaxRecords is the cap on records returned per query.
const MaxRecords = 100

// Record summarizes one uploaded crash report.
type Record struct {
	UploadTime time.Time `json:"date"`
	ReportID   string    `json:"id"`
}

// List is the upload-list capability. Load reads the backing store;
// Records returns up to max already-loaded entries, newest first.
type List interface {
	Load() error
	Records(max int) []Record
}

// Read triggers an asynchronous load of l and invokes cb exactly once
// with at most MaxRecords records. The callback never fires inline and
// fires even when the load fails (with whatever was readable, usually
// nothing). Concurrent Read calls get independent loads and callbacks.
func Read(l List, cb func([]Record)) {
	logger := logging.NewLogger("upload-list")
	go func() {
		if err := l.Load(); err != nil {
			// Callers cannot distinguish "no crashes" from "load
			// failed"; the log line is the only failure visibility.
			logger.WithError(err).Debug("Upload list failed to load")
		}
		cb(l.Records(MaxRecords))
	}()
}

// NewForPlatform constructs the upload list for a platform and backend
// combination. Darwin and windows always use the crashpad database;
// elsewhere the crashpad database is used only when the structured
// backend is enabled, falling back to the breakpad text log inside the
// crash-dump directory.
func NewForPlatform(goos string, structuredEnabled bool, crashDir string) List {
	if goos == "darwin" || goos == "windows" {
		return NewCrashpadList(crashDir)
	}
	if structuredEnabled {
		return NewCrashpadList(crashDir)
	}
	return NewTextLogList(paths.UploadLogPath(crashDir))
}

func parseUploadTime(s string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func sortNewestFirst(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].UploadTime.After(records[j].UploadTime)
	})
}

func capRecords(records []Record, max int) []Record {
	if max < 0 || max > len(records) {
		max = len(records)
	}
	out := make([]Record, max)
	copy(out, records[:max])
	return out
}
