// Package testutil provides shared fixtures for crashkit tests:
// seeded upload logs, crashpad database directories, and report IDs.
package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// RandomReportID returns a hex report identifier of the shape the
// collection server hands back after an upload.
func RandomReportID(t *testing.T) string {
	t.Helper()

	buf := make([]byte, 8)
	_, err := rand.Read(buf)
	require.NoError(t, err)
	return hex.EncodeToString(buf)
}

// SeededReport describes one upload to seed into a store fixture.
type SeededReport struct {
	UploadTime time.Time
	ReportID   string
}

// SeedReports builds n reports spaced one minute apart, newest last,
// mirroring append order in the real stores.
func SeedReports(t *testing.T, n int) []SeededReport {
	t.Helper()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	reports := make([]SeededReport, 0, n)
	for i := 0; i < n; i++ {
		reports = append(reports, SeededReport{
			UploadTime: base.Add(time.Duration(i) * time.Minute),
			ReportID:   fmt.Sprintf("report-%04d", i),
		})
	}
	return reports
}

// WriteUploadLog writes a breakpad-style uploads.log into dir and
// returns its path.
func WriteUploadLog(t *testing.T, dir string, reports []SeededReport) string {
	t.Helper()

	path := filepath.Join(dir, "uploads.log")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	for _, r := range reports {
		_, err := fmt.Fprintf(f, "%d,%s\n", r.UploadTime.Unix(), r.ReportID)
		require.NoError(t, err)
	}
	return path
}

// WriteCrashpadDB writes a crashpad-style uploads.json into dir and
// returns its path.
func WriteCrashpadDB(t *testing.T, dir string, reports []SeededReport) string {
	t.Helper()

	path := filepath.Join(dir, "uploads.json")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, r := range reports {
		require.NoError(t, enc.Encode(map[string]string{
			"upload_time": r.UploadTime.Format(time.RFC3339),
			"report_id":   r.ReportID,
		}))
	}
	return path
}
