package uploadlist

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hpcloud/tail"

	"github.com/grovetools/crashkit/errors"
)

// TextLogList reads the breakpad-style upload log: one record per
// line, "<unix-seconds>,<report-id>[,<local-id>]". Written by the
// legacy uploader after each successful submission.
type TextLogList struct {
	path string

	mu      sync.RWMutex
	records []Record
}

// NewTextLogList creates a list backed by the upload log at path.
func NewTextLogList(path string) *TextLogList {
	return &TextLogList{path: path}
}

// Path returns the upload log path.
func (l *TextLogList) Path() string {
	return l.path
}

// Load reads and parses the whole log. Malformed lines are skipped.
func (l *TextLogList) Load() error {
	t, err := tail.TailFile(l.path, tail.Config{
		Follow:    false,
		MustExist: true,
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return errors.StoreUnreadable(l.path, err)
	}
	defer t.Cleanup()

	var records []Record
	for line := range t.Lines {
		if line.Err != nil {
			continue
		}
		if rec, ok := ParseLogLine(line.Text); ok {
			records = append(records, rec)
		}
	}
	sortNewestFirst(records)

	l.mu.Lock()
	l.records = records
	l.mu.Unlock()
	return nil
}

// Records returns up to max loaded records, newest first.
func (l *TextLogList) Records(max int) []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return capRecords(l.records, max)
}

// ParseLogLine parses a single upload-log line. The second return is
// false for blank or malformed lines.
func ParseLogLine(line string) (Record, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Record{}, false
	}
	parts := strings.Split(line, ",")
	if len(parts) < 2 {
		return Record{}, false
	}
	seconds, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return Record{}, false
	}
	id := strings.TrimSpace(parts[1])
	if id == "" {
		return Record{}, false
	}
	return Record{
		UploadTime: time.Unix(seconds, 0),
		ReportID:   id,
	}, true
}
