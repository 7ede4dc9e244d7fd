package uploadlist

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/crashkit/testutil"
)

func TestParseLogLine(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		wantID string
		ok     bool
	}{
		{
			name:   "plain record",
			line:   "1709294400,abc123",
			wantID: "abc123",
			ok:     true,
		},
		{
			name:   "record with local id suffix",
			line:   "1709294400,abc123,local-9",
			wantID: "abc123",
			ok:     true,
		},
		{
			name:   "surrounding whitespace",
			line:   "  1709294400 , abc123 ",
			wantID: "abc123",
			ok:     true,
		},
		{
			name: "blank line",
			line: "",
			ok:   false,
		},
		{
			name: "missing id",
			line: "1709294400,",
			ok:   false,
		},
		{
			name: "non-numeric timestamp",
			line: "yesterday,abc123",
			ok:   false,
		},
		{
			name: "no separator",
			line: "1709294400",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, ok := ParseLogLine(tt.line)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.wantID, rec.ReportID)
				assert.Equal(t, time.Unix(1709294400, 0), rec.UploadTime)
			}
		})
	}
}

func TestTextLogListLoad(t *testing.T) {
	dir := t.TempDir()
	reports := testutil.SeedReports(t, 5)
	path := testutil.WriteUploadLog(t, dir, reports)

	list := NewTextLogList(path)
	require.NoError(t, list.Load())

	records := list.Records(MaxRecords)
	require.Len(t, records, 5)

	// Newest first, regardless of append order in the log.
	assert.Equal(t, "report-0004", records[0].ReportID)
	assert.Equal(t, "report-0000", records[4].ReportID)
	for _, r := range records {
		assert.NotEmpty(t, r.ReportID)
		assert.False(t, r.UploadTime.IsZero())
	}
}

func TestTextLogListSkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "uploads.log")
	content := "1709294400,good-1\ngarbage line\n,missing-time\n1709294460,good-2\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	list := NewTextLogList(path)
	require.NoError(t, list.Load())

	records := list.Records(MaxRecords)
	require.Len(t, records, 2)
	assert.Equal(t, "good-2", records[0].ReportID)
	assert.Equal(t, "good-1", records[1].ReportID)
}

func TestTextLogListMissingFile(t *testing.T) {
	list := NewTextLogList(filepath.Join(t.TempDir(), "uploads.log"))

	err := list.Load()
	assert.Error(t, err)
	assert.Empty(t, list.Records(MaxRecords))
}

func TestTextLogListRecordsCap(t *testing.T) {
	dir := t.TempDir()
	reports := testutil.SeedReports(t, 120)
	path := testutil.WriteUploadLog(t, dir, reports)

	list := NewTextLogList(path)
	require.NoError(t, list.Load())

	records := list.Records(MaxRecords)
	assert.Len(t, records, MaxRecords)
	assert.Equal(t, "report-0119", records[0].ReportID, "cap keeps the newest records")
}
