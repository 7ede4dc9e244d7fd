package reporter

import (
	"github.com/grovetools/crashkit/backend"
	"github.com/grovetools/crashkit/consent"
	"github.com/grovetools/crashkit/crashkeys"
)

// Option configures a Reporter at construction time.
type Option func(*Reporter)

// WithConsentStore replaces the default file-backed consent store.
func WithConsentStore(store consent.Store) Option {
	return func(r *Reporter) {
		r.consent = store
	}
}

// WithBackendFactory replaces backend detection with a fixed factory.
// The factory runs once, inside the first Start call.
func WithBackendFactory(factory func(backend.Options) backend.Backend) Option {
	return func(r *Reporter) {
		r.newBackend = factory
	}
}

// WithDiagnostics installs a hook that receives backend initialization
// failures. The default hook logs them; Start itself stays silent
// either way.
func WithDiagnostics(hook func(error)) Option {
	return func(r *Reporter) {
		r.diag = hook
	}
}

// WithPlatform overrides the platform used for backend detection and
// upload-list construction. Intended for tests.
func WithPlatform(goos string) Option {
	return func(r *Reporter) {
		r.goos = goos
	}
}

// WithScrubber filters crash-key names through a denylist before they
// reach the global table or the backend.
func WithScrubber(sc *crashkeys.Scrubber) Option {
	return func(r *Reporter) {
		r.global.SetScrubber(sc)
		r.params.SetScrubber(sc)
	}
}
