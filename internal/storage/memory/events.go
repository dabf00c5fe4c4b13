package memory

import (
	"context"
	"sync"

	"bookshelf/internal/models"
)

// DefaultEventCapacity is the number of events kept when no capacity is given
const DefaultEventCapacity = 1000

// EventLog keeps the most recent shelf events in a fixed-size ring
type EventLog struct {
	mu     sync.RWMutex
	events []models.BookEvent
	next   int
	full   bool
}

// NewEventLog creates an event log holding at most capacity events
func NewEventLog(capacity int) *EventLog {
	if capacity <= 0 {
		capacity = DefaultEventCapacity
	}
	return &EventLog{
		events: make([]models.BookEvent, capacity),
	}
}

// Initialize is a no-op for the memory log
func (l *EventLog) Initialize(ctx context.Context) error {
	return nil
}

// Record stores an event, overwriting the oldest one when the ring is full
func (l *EventLog) Record(ctx context.Context, event models.BookEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.events[l.next] = event
	l.next = (l.next + 1) % len(l.events)
	if l.next == 0 {
		l.full = true
	}
	return nil
}

// Recent returns the last limit events, newest first
func (l *EventLog) Recent(ctx context.Context, limit int) ([]models.BookEvent, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	size := l.next
	if l.full {
		size = len(l.events)
	}
	if limit <= 0 || limit > size {
		limit = size
	}

	events := make([]models.BookEvent, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (l.next - i + len(l.events)) % len(l.events)
		events = append(events, l.events[idx])
	}
	return events, nil
}

// Close does nothing for the memory log
func (l *EventLog) Close() error {
	return nil
}
