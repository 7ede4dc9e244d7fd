package reporter

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/crashkit/backend"
	"github.com/grovetools/crashkit/consent"
	"github.com/grovetools/crashkit/crashkeys"
	"github.com/grovetools/crashkit/testutil"
	"github.com/grovetools/crashkit/uploadlist"
)

func newLegacyReporter(t *testing.T, opts ...Option) *Reporter {
	t.Helper()

	base := []Option{
		WithPlatform("linux"),
		WithConsentStore(consent.NewMemoryStore()),
		WithBackendFactory(func(o backend.Options) backend.Backend {
			return backend.NewLegacy(o)
		}),
	}
	return New(append(base, opts...)...)
}

func legacyStartOptions(t *testing.T) StartOptions {
	t.Helper()
	return StartOptions{
		SubmitURL:        "https://example.test/submit",
		CrashesDirectory: t.TempDir(),
		UploadToServer:   true,
		RateLimit:        true,
		ExtraGlobal:      map[string]string{"env": "prod"},
		Extra:            map[string]string{"build": "123"},
	}
}

func TestStartIsIdempotent(t *testing.T) {
	r := newLegacyReporter(t)
	first := legacyStartOptions(t)

	r.Start(first)
	require.True(t, r.IsCrashReporterEnabled())
	b := r.Backend()

	// A second Start with different arguments changes nothing.
	r.Start(StartOptions{
		SubmitURL:        "https://other.test/submit",
		CrashesDirectory: t.TempDir(),
		UploadToServer:   false,
		ExtraGlobal:      map[string]string{"env": "staging"},
	})

	assert.True(t, r.IsCrashReporterEnabled())
	assert.Same(t, b, r.Backend())
	assert.True(t, r.GetUploadToServer(), "second Start must not flip consent")
	assert.Equal(t, map[string]string{"env": "prod"}, r.GetGlobalCrashKeys())
}

func TestStartConcurrentCallersFirstWins(t *testing.T) {
	var created int
	r := New(
		WithPlatform("linux"),
		WithConsentStore(consent.NewMemoryStore()),
		WithBackendFactory(func(o backend.Options) backend.Backend {
			created++
			return backend.NewLegacy(o)
		}),
	)

	dir := t.TempDir()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			r.Start(StartOptions{
				SubmitURL:        fmt.Sprintf("https://example.test/%d", n),
				CrashesDirectory: dir,
			})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, created, "backend constructed exactly once")
	assert.True(t, r.IsCrashReporterEnabled())
}

func TestStartLegacyPathAppliesKeys(t *testing.T) {
	r := newLegacyReporter(t)
	r.Start(legacyStartOptions(t))

	// extraGlobal lands in the global table and on the backend; extra
	// lands on the backend only.
	assert.Equal(t, map[string]string{"env": "prod"}, r.GetGlobalCrashKeys())
	assert.Equal(t, map[string]string{"env": "prod", "build": "123"}, r.Backend().Annotations())

	lb := r.Backend().(*backend.Legacy)
	assert.Equal(t, "https://example.test/submit", lb.SubmitURL())
}

func TestStartStructuredPathSkipsKeyPlumbing(t *testing.T) {
	r := New(
		WithPlatform("darwin"),
		WithConsentStore(consent.NewMemoryStore()),
		WithBackendFactory(func(o backend.Options) backend.Backend {
			return backend.NewStructured(o)
		}),
	)

	r.Start(legacyStartOptions(t))

	assert.Empty(t, r.GetGlobalCrashKeys(), "structured path leaves the global table alone")
	assert.Empty(t, r.Backend().Annotations())
}

func TestStartRecordsConsent(t *testing.T) {
	store := consent.NewMemoryStore()
	r := newLegacyReporter(t, WithConsentStore(store))

	opts := legacyStartOptions(t)
	opts.UploadToServer = true
	r.Start(opts)

	assert.True(t, store.GetConsent())
}

func TestAddExtraParameterUpserts(t *testing.T) {
	r := newLegacyReporter(t)
	r.Start(legacyStartOptions(t))

	r.AddExtraParameter("version", "1.0.0")
	r.AddExtraParameter("version", "1.0.1")

	assert.Equal(t, "1.0.1", r.Backend().Annotations()["version"])
}

func TestRemoveExtraParameterAbsentKey(t *testing.T) {
	r := newLegacyReporter(t)
	r.Start(legacyStartOptions(t))

	before := r.Backend().Annotations()
	r.RemoveExtraParameter("never-set")
	assert.Equal(t, before, r.Backend().Annotations())
}

func TestKeysAddedBeforeStartReachBackend(t *testing.T) {
	r := newLegacyReporter(t)

	r.AddExtraParameter("early", "bird")
	assert.Nil(t, r.Backend())

	r.Start(legacyStartOptions(t))

	assert.Equal(t, "bird", r.Backend().Annotations()["early"])
}

func TestScrubberBlocksKeys(t *testing.T) {
	sc, err := crashkeys.NewScrubber([]string{"*secret*"})
	require.NoError(t, err)

	r := newLegacyReporter(t, WithScrubber(sc))
	r.Start(legacyStartOptions(t))

	r.AddExtraParameter("api_secret", "hunter2")
	r.AddExtraParameter("release", "stable")

	annotations := r.Backend().Annotations()
	assert.NotContains(t, annotations, "api_secret")
	assert.Equal(t, "stable", annotations["release"])
}

func TestConsentLastWriteWins(t *testing.T) {
	r := newLegacyReporter(t)

	r.SetUploadToServer(true)
	assert.True(t, r.GetUploadToServer())

	r.SetUploadToServer(false)
	assert.False(t, r.GetUploadToServer())
}

func TestDiagnosticsHookSeesInitFailure(t *testing.T) {
	var seen []error
	r := New(
		WithPlatform("linux"),
		WithConsentStore(consent.NewMemoryStore()),
		WithDiagnostics(func(err error) { seen = append(seen, err) }),
		WithBackendFactory(func(o backend.Options) backend.Backend {
			return &failingBackend{}
		}),
	)

	// Start swallows the failure; only the hook observes it.
	r.Start(legacyStartOptions(t))

	require.Len(t, seen, 1)
	assert.ErrorContains(t, seen[0], "init exploded")
	assert.True(t, r.IsCrashReporterEnabled())
}

func TestGetUploadedReportsLegacyStore(t *testing.T) {
	r := newLegacyReporter(t)
	opts := legacyStartOptions(t)
	testutil.WriteUploadLog(t, opts.CrashesDirectory, testutil.SeedReports(t, 4))
	r.Start(opts)

	done := make(chan []uploadlist.Record, 1)
	r.GetUploadedReports(func(records []uploadlist.Record) {
		done <- records
	})

	select {
	case records := <-done:
		require.Len(t, records, 4)
		assert.Equal(t, "report-0003", records[0].ReportID)
		for _, rec := range records {
			assert.NotEmpty(t, rec.ReportID)
			assert.False(t, rec.UploadTime.IsZero())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("callback never fired")
	}
}

func TestGetUploadedReportsEmptyStore(t *testing.T) {
	r := newLegacyReporter(t)
	r.Start(legacyStartOptions(t))

	done := make(chan []uploadlist.Record, 1)
	r.GetUploadedReports(func(records []uploadlist.Record) {
		done <- records
	})

	select {
	case records := <-done:
		assert.Empty(t, records)
	case <-time.After(5 * time.Second):
		t.Fatal("callback never fired")
	}
}

func TestGetUploadedReportsDuringStartUsesActiveBackend(t *testing.T) {
	t.Setenv("CRASHKIT_FORCE_BACKEND", "crashpad")
	t.Setenv("CRASHKIT_PROCESS_TYPE", "renderer")

	dir := t.TempDir()
	seeded := testutil.SeedReports(t, 3)
	testutil.WriteCrashpadDB(t, dir, seeded)

	entered := make(chan struct{})
	release := make(chan struct{})
	r := New(
		WithPlatform("linux"),
		WithConsentStore(consent.NewMemoryStore()),
		WithBackendFactory(func(o backend.Options) backend.Backend {
			close(entered)
			<-release
			return backend.NewStructured(o)
		}),
	)

	startDone := make(chan struct{})
	go func() {
		defer close(startDone)
		r.Start(StartOptions{CrashesDirectory: dir})
	}()
	<-entered

	// A concurrent read while Start is mid-initialization must still
	// end up on the reader matching the backend being brought up.
	got := make(chan []uploadlist.Record, 1)
	go r.GetUploadedReports(func(records []uploadlist.Record) {
		got <- records
	})

	close(release)
	<-startDone

	select {
	case records := <-got:
		require.Len(t, records, 3)
		assert.Equal(t, seeded[len(seeded)-1].ReportID, records[0].ReportID)
	case <-time.After(5 * time.Second):
		t.Fatal("callback never fired")
	}
}

func TestDefaultInstanceSurface(t *testing.T) {
	// The shared instance wires the same machinery; don't Start it here
	// since its state is process-wide.
	require.NotNil(t, Default())
	assert.False(t, Default().IsCrashReporterEnabled())
}

// failingBackend simulates a backend whose bring-up fails.
type failingBackend struct{}

func (f *failingBackend) Kind() backend.Kind              { return backend.KindLegacy }
func (f *failingBackend) Initialize(string) error         { return fmt.Errorf("init exploded") }
func (f *failingBackend) SetSubmitURL(string)             {}
func (f *failingBackend) ApplyKey(string, string)         {}
func (f *failingBackend) RemoveKey(string)                {}
func (f *failingBackend) Annotations() map[string]string  { return nil }
