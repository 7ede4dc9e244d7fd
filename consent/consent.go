// Package consent tracks whether the user has agreed to upload crash
// reports. The reporter only forwards reads and writes; persistence
// across process restarts is this package's job.
package consent

import (
	"sync"
)

// Store is the consent capability consumed by the reporter. Both
// operations are best effort: failures are logged by the
// implementation, never surfaced to the reporter's callers.
type Store interface {
	// SetConsent records the user's upload consent. Last write wins.
	SetConsent(upload bool)
	// GetConsent returns the last recorded consent value, false when
	// nothing was ever recorded.
	GetConsent() bool
}

// MemoryStore is a process-local Store. Used in tests and as a
// fallback when no settings directory is available.
type MemoryStore struct {
	mu     sync.RWMutex
	upload bool
}

// NewMemoryStore creates a MemoryStore with consent unset (false).
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// SetConsent records consent in memory.
func (m *MemoryStore) SetConsent(upload bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upload = upload
}

// GetConsent returns the last recorded consent value.
func (m *MemoryStore) GetConsent() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.upload
}
