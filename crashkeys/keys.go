// Package crashkeys maintains the named string annotations attached to
// crash reports. Keys may be set from any goroutine, including during a
// crash, so the table is lock-protected.
package crashkeys

import (
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/grovetools/crashkit/logging"
)

// Store is a thread-safe crash-key table.
type Store struct {
	mu     sync.RWMutex
	keys   map[string]string
	scrub  *Scrubber
	logger *logrus.Entry
}

// NewStore creates an empty crash-key store.
func NewStore() *Store {
	return &Store{
		keys:   make(map[string]string),
		logger: logging.NewLogger("crash-keys"),
	}
}

// SetScrubber installs a scrub-pattern filter. Keys whose names match
// a scrub pattern are dropped at Set time. A nil scrubber disables
// filtering.
func (s *Store) SetScrubber(sc *Scrubber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scrub = sc
}

// Set upserts a key. Later writes win. Returns false when the key was
// rejected by the scrub filter.
func (s *Store) Set(name, value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scrub != nil && s.scrub.Matches(name) {
		s.logger.WithField("key", name).Debug("Dropped crash key matching scrub pattern")
		return false
	}
	s.keys[name] = value
	return true
}

// Remove deletes a key. Removing an absent key is a no-op.
func (s *Store) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, name)
}

// Get returns the value for a key and whether it is present.
func (s *Store) Get(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.keys[name]
	return v, ok
}

// All returns a copy of the current key table.
func (s *Store) All() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.keys))
	for k, v := range s.keys {
		out[k] = v
	}
	return out
}

// Names returns the current key names in sorted order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.keys))
	for k := range s.keys {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.keys)
}

// Merge copies every entry of m into the store, subject to scrubbing.
func (s *Store) Merge(m map[string]string) {
	for k, v := range m {
		s.Set(k, v)
	}
}
