package messaging

import (
	"context"
	"sync"
)

// MockMessageSender records every event it is given, for tests.
type MockMessageSender struct {
	mu     sync.Mutex
	events []Event
}

// NewMockMessageSender creates a new MockMessageSender.
func NewMockMessageSender() *MockMessageSender {
	return &MockMessageSender{}
}

// SendEvents appends the events to the recorded stream.
func (m *MockMessageSender) SendEvents(_ context.Context, events []Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

// Events returns a copy of everything sent so far.
func (m *MockMessageSender) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

// EventsOfKind returns the recorded events with the given kind.
func (m *MockMessageSender) EventsOfKind(kind EventKind) []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Event
	for _, e := range m.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Reset discards the recorded stream.
func (m *MockMessageSender) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}

// Close does nothing.
func (m *MockMessageSender) Close() error {
	return nil
}

// NoopSender discards every event.
type NoopSender struct{}

// SendEvents does nothing.
func (NoopSender) SendEvents(context.Context, []Event) error { return nil }

// Close does nothing.
func (NoopSender) Close() error { return nil }

// Ensure implementations satisfy MessageSender
var (
	_ MessageSender = (*MockMessageSender)(nil)
	_ MessageSender = NoopSender{}
)
