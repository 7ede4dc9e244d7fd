package uploadlist

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/grovetools/crashkit/errors"
)

// MetadataFilename is the upload metadata file the structured backend
// maintains inside its report database directory. One JSON object per
// line, appended after each completed upload.
const MetadataFilename = "uploads.json"

// CrashpadList reads upload metadata from a crashpad-style report
// database directory.
type CrashpadList struct {
	dir string

	mu      sync.RWMutex
	records []Record
}

// NewCrashpadList creates a list backed by the database at dir.
func NewCrashpadList(dir string) *CrashpadList {
	return &CrashpadList{dir: dir}
}

// Path returns the metadata file path inside the database.
func (l *CrashpadList) Path() string {
	return filepath.Join(l.dir, MetadataFilename)
}

// Load reads and parses the database's upload metadata. Lines that do
// not decode are skipped.
func (l *CrashpadList) Load() error {
	path := l.Path()
	file, err := os.Open(path)
	if err != nil {
		return errors.StoreUnreadable(path, err)
	}
	defer file.Close()

	var records []Record
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var rec struct {
			UploadTime string `json:"upload_time"`
			ReportID   string `json:"report_id"`
		}
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue
		}
		parsed, ok := parseUploadTime(rec.UploadTime)
		if !ok || rec.ReportID == "" {
			continue
		}
		records = append(records, Record{
			UploadTime: parsed,
			ReportID:   rec.ReportID,
		})
	}
	sortNewestFirst(records)

	l.mu.Lock()
	l.records = records
	l.mu.Unlock()

	if err := scanner.Err(); err != nil {
		return errors.StoreUnreadable(path, err)
	}
	return nil
}

// Records returns up to max loaded records, newest first.
func (l *CrashpadList) Records(max int) []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return capRecords(l.records, max)
}
