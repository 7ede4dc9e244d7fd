package uploadlist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/crashkit/testutil"
)

func TestCrashpadListLoad(t *testing.T) {
	dir := t.TempDir()
	reports := testutil.SeedReports(t, 3)
	testutil.WriteCrashpadDB(t, dir, reports)

	list := NewCrashpadList(dir)
	require.NoError(t, list.Load())

	records := list.Records(MaxRecords)
	require.Len(t, records, 3)
	assert.Equal(t, "report-0002", records[0].ReportID)
	assert.Equal(t, "report-0000", records[2].ReportID)
}

func TestCrashpadListSkipsBadLines(t *testing.T) {
	dir := t.TempDir()
	content := `{"upload_time":"2024-03-01T12:00:00Z","report_id":"keep-1"}
not json at all
{"upload_time":"when?","report_id":"bad-time"}
{"upload_time":"2024-03-01T12:05:00Z","report_id":""}
{"upload_time":"2024-03-01T12:10:00Z","report_id":"keep-2"}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, MetadataFilename), []byte(content), 0o644))

	list := NewCrashpadList(dir)
	require.NoError(t, list.Load())

	records := list.Records(MaxRecords)
	require.Len(t, records, 2)
	assert.Equal(t, "keep-2", records[0].ReportID)
	assert.Equal(t, "keep-1", records[1].ReportID)
}

func TestCrashpadListMissingDatabase(t *testing.T) {
	list := NewCrashpadList(filepath.Join(t.TempDir(), "absent"))

	err := list.Load()
	assert.Error(t, err)
	assert.Empty(t, list.Records(MaxRecords))
}
