package events

import "sync"

// Recorder receives events from committed operations. Implementations must
// not fail: recording happens after all state mutations have succeeded.
type Recorder interface {
	Record(e Event)
}

// Log is an in-memory, append-only Recorder. It doubles as the drain point
// for indexers, which read from an offset they track themselves.
type Log struct {
	mu     sync.RWMutex
	events []Event
}

// NewLog returns an empty event log.
func NewLog() *Log { return &Log{} }

// Record appends an event.
func (l *Log) Record(e Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

// Len returns the number of recorded events.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events)
}

// All returns a copy of every recorded event in order.
func (l *Log) All() []Event {
	return l.Since(0)
}

// Since returns a copy of the events at index offset and later.
func (l *Log) Since(offset int) []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if offset < 0 || offset >= len(l.events) {
		return nil
	}
	out := make([]Event, len(l.events)-offset)
	copy(out, l.events[offset:])
	return out
}

// ByType returns every recorded event of the given type, in order.
func (l *Log) ByType(t Type) []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []Event
	for _, e := range l.events {
		if e.EventType() == t {
			out = append(out, e)
		}
	}
	return out
}

// Discard is a Recorder that drops every event.
type Discard struct{}

func (Discard) Record(Event) {}
