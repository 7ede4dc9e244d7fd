// Package reporter coordinates the crash-reporting lifecycle: one-time
// backend initialization, crash-key annotations, upload consent, and
// queries over previously uploaded reports.
package reporter

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/grovetools/crashkit/backend"
	"github.com/grovetools/crashkit/consent"
	"github.com/grovetools/crashkit/crashkeys"
	"github.com/grovetools/crashkit/logging"
	"github.com/grovetools/crashkit/pkg/paths"
	"github.com/grovetools/crashkit/uploadlist"
)

// StartOptions are the parameters of the one-time Start call.
type StartOptions struct {
	// SubmitURL is the report submission endpoint.
	SubmitURL string
	// CrashesDirectory holds dumps and the report database. Empty
	// selects the standard crashkit location.
	CrashesDirectory string
	// UploadToServer seeds the persisted upload consent.
	UploadToServer bool
	// IgnoreSystemCrashHandler keeps the OS-level handler out of the way.
	IgnoreSystemCrashHandler bool
	// RateLimit throttles uploads in the backend.
	RateLimit bool
	// Compress gzip-compresses uploads where the backend supports it.
	Compress bool
	// ExtraGlobal are annotations mirrored into the process-wide global
	// key table in addition to the backend.
	ExtraGlobal map[string]string
	// Extra are annotations applied to the backend only.
	Extra map[string]string
}

// Reporter owns the process-wide crash reporting state. Construct one
// with New; the package-level functions drive a shared default
// instance for embedders.
type Reporter struct {
	// starting is the exactly-once claim on Start; started latches only
	// after initialization finishes so concurrent readers never observe
	// a half-built reporter.
	starting atomic.Bool
	started  atomic.Bool

	mu       sync.Mutex
	backend  backend.Backend
	consent  consent.Store
	crashDir string

	global *crashkeys.Store
	params *crashkeys.Store

	goos       string
	newBackend func(opts backend.Options) backend.Backend
	diag       func(error)
	logger     *logrus.Entry
}

// New creates a Reporter. The zero configuration targets the current
// platform, detects the backend at Start, and persists consent next to
// the crash dumps.
func New(opts ...Option) *Reporter {
	r := &Reporter{
		global: crashkeys.NewStore(),
		params: crashkeys.NewStore(),
		goos:   runtime.GOOS,
		logger: logging.NewLogger("crash-reporter"),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.newBackend == nil {
		goos := r.goos
		r.newBackend = func(o backend.Options) backend.Backend {
			return backend.New(goos, o)
		}
	}
	if r.diag == nil {
		r.diag = func(err error) {
			r.logger.WithError(err).Error("Crash backend initialization failed")
		}
	}
	return r
}

// Start performs the one-time bring-up: records consent, resolves the
// process role, selects and initializes the backend, and applies the
// initial crash keys. Only the first call has any effect; later calls
// are silent no-ops. Start never returns an error: backend failures go
// to the diagnostic hook and the process carries on without capture.
func (r *Reporter) Start(opts StartOptions) {
	if !r.starting.CompareAndSwap(false, true) {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	defer r.started.Store(true)

	r.crashDir = opts.CrashesDirectory
	if r.crashDir == "" {
		r.crashDir = paths.CrashDumpDir()
	}
	if r.consent == nil {
		r.consent = consent.NewFileStore(r.crashDir)
	}
	r.consent.SetConsent(opts.UploadToServer)

	role := backend.Role()
	b := r.newBackend(backend.Options{
		CrashesDirectory:         r.crashDir,
		SubmitURL:                opts.SubmitURL,
		RateLimit:                opts.RateLimit,
		Compress:                 opts.Compress,
		IgnoreSystemCrashHandler: opts.IgnoreSystemCrashHandler,
	})
	r.backend = b

	if b.Kind() == backend.KindStructured {
		// The structured backend owns its annotation plumbing; only
		// consent and bring-up happen here.
		if err := b.Initialize(role); err != nil {
			r.diag(err)
		}
	} else {
		b.SetSubmitURL(opts.SubmitURL)
		r.global.Merge(opts.ExtraGlobal)
		applyKeys(b, opts.Extra)
		// ExtraGlobal was mirrored into the global table above, but the
		// backend still needs the entries applied directly.
		applyKeys(b, opts.ExtraGlobal)
		if err := b.Initialize(role); err != nil {
			r.diag(err)
		}
	}

	// Keys registered before Start take effect now.
	applyKeys(b, r.params.All())
}

// IsCrashReporterEnabled reports whether Start has run.
func (r *Reporter) IsCrashReporterEnabled() bool {
	return r.started.Load()
}

// AddExtraParameter upserts a crash-key annotation. Safe before Start;
// the key reaches the backend once one is initialized.
func (r *Reporter) AddExtraParameter(name, value string) {
	if !r.params.Set(name, value) {
		return
	}
	r.mu.Lock()
	b := r.backend
	r.mu.Unlock()
	if b != nil {
		b.ApplyKey(name, value)
	}
}

// RemoveExtraParameter removes a crash-key annotation. Removing an
// absent key is a no-op.
func (r *Reporter) RemoveExtraParameter(name string) {
	r.params.Remove(name)
	r.mu.Lock()
	b := r.backend
	r.mu.Unlock()
	if b != nil {
		b.RemoveKey(name)
	}
}

// GetGlobalCrashKeys returns a copy of the process-wide global key
// table. Populated on the legacy backend path; empty otherwise.
func (r *Reporter) GetGlobalCrashKeys() map[string]string {
	return r.global.All()
}

// SetUploadToServer records upload consent. Usable before Start; the
// value persists through the consent store.
func (r *Reporter) SetUploadToServer(upload bool) {
	r.consentStore().SetConsent(upload)
}

// GetUploadToServer returns the last recorded upload consent.
func (r *Reporter) GetUploadToServer() bool {
	return r.consentStore().GetConsent()
}

// GetUploadedReports asynchronously loads the upload store and invokes
// cb exactly once with at most uploadlist.MaxRecords records, newest
// first. A missing or unreadable store yields an empty slice; cb never
// receives an error and never fires inline.
func (r *Reporter) GetUploadedReports(cb func([]uploadlist.Record)) {
	r.mu.Lock()
	crashDir := r.crashDir
	structured := r.backend != nil && r.backend.Kind() == backend.KindStructured
	if !r.started.Load() {
		structured = backend.StructuredEnabled(r.goos)
	}
	r.mu.Unlock()

	if crashDir == "" {
		crashDir = paths.CrashDumpDir()
	}

	uploadlist.Read(uploadlist.NewForPlatform(r.goos, structured, crashDir), cb)
}

// Backend returns the active backend, nil before Start.
func (r *Reporter) Backend() backend.Backend {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.backend
}

func (r *Reporter) consentStore() consent.Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.consent == nil {
		dir := r.crashDir
		if dir == "" {
			dir = paths.CrashDumpDir()
		}
		r.consent = consent.NewFileStore(dir)
	}
	return r.consent
}

func applyKeys(b backend.Backend, keys map[string]string) {
	for name, value := range keys {
		b.ApplyKey(name, value)
	}
}
