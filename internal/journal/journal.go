// Package journal records what an Execution did: every task run, eviction,
// failure and saved output.
package journal

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind classifies an Event.
type Kind string

const (
	KindCompleted Kind = "completed"
	KindFailed    Kind = "failed"
	KindEvicted   Kind = "evicted"
	KindSaved     Kind = "saved"
)

// Event is one journal entry. Duration is set for completed and failed runs;
// Detail carries the error or the output destination.
type Event struct {
	ExecutionID uuid.UUID
	TaskID      uuid.UUID
	TaskName    string
	Category    string
	Algorithm   string
	Kind        Kind
	Detail      string
	Duration    time.Duration
	At          time.Time
}

// Journal persists Events.
type Journal interface {
	Record(ctx context.Context, e Event) error
	Close() error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Record(context.Context, Event) error { return nil }
func (Nop) Close() error                        { return nil }

// Memory keeps events in process memory.
type Memory struct {
	mu     sync.Mutex
	events []Event
}

// Record implements Journal.
func (m *Memory) Record(_ context.Context, e Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

// Close implements Journal.
func (m *Memory) Close() error { return nil }

// Events returns the recorded events in recording order.
func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.events...)
}
