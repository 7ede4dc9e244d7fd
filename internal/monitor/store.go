// Package monitor watches the crash-dump directory for new dumps and
// upload-log activity and broadcasts events to connected tooling.
package monitor

import (
	"sync"
	"time"
)

// EventType defines what kind of crash activity was observed.
type EventType string

const (
	// EventPendingCrash fires when a new dump lands in the crash directory.
	EventPendingCrash EventType = "pending_crash"
	// EventReportUploaded fires when the upload log grows.
	EventReportUploaded EventType = "report_uploaded"
)

// Event represents one observed change in the crash store.
type Event struct {
	Type     EventType `json:"type"`
	Path     string    `json:"path,omitempty"`
	ReportID string    `json:"report_id,omitempty"`
	Time     time.Time `json:"time"`
}

// recentCap bounds the replay buffer handed to new subscribers.
const recentCap = 100

// Store is the in-memory event store for the monitor.
// It is thread-safe and supports pub/sub for real-time updates.
type Store struct {
	mu          sync.RWMutex
	recent      []Event
	subscribers map[chan Event]struct{}
}

// NewStore creates a new Store instance.
func NewStore() *Store {
	return &Store{
		subscribers: make(map[chan Event]struct{}),
	}
}

// Publish records an event and notifies subscribers.
func (s *Store) Publish(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recent = append(s.recent, e)
	if len(s.recent) > recentCap {
		s.recent = s.recent[len(s.recent)-recentCap:]
	}

	for ch := range s.subscribers {
		select {
		case ch <- e:
		default:
			// Non-blocking send to prevent slow clients from stalling the monitor
		}
	}
}

// Recent returns a copy of the buffered events, oldest first.
func (s *Store) Recent() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Event, len(s.recent))
	copy(out, s.recent)
	return out
}

// Subscribe creates a new subscription channel for events.
func (s *Store) Subscribe() chan Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan Event, 100) // Buffered
	s.subscribers[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
func (s *Store) Unsubscribe(ch chan Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subscribers, ch)
	close(ch)
}
