// Package counter holds the counter slice.
package counter

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Counter is the counter slice state. The reducers do not bound the value;
// callers that must not go below zero check CanDecrement first.
type Counter struct {
	Value int64 `json:"value"`
}

// Increment returns the counter plus one
func (c Counter) Increment() Counter {
	return Counter{Value: c.Value + 1}
}

// Decrement returns the counter minus one
func (c Counter) Decrement() Counter {
	return Counter{Value: c.Value - 1}
}

// CanDecrement reports whether the value is above zero
func (c Counter) CanDecrement() bool {
	return c.Value > 0
}

// AggregateTypeCounter is the aggregate type of counter events
const AggregateTypeCounter = "Counter"

// Event type constants
const (
	EventTypeIncremented = "CounterIncremented"
	EventTypeDecremented = "CounterDecremented"
)

// ChangedEvent is published after the counter value changes
type ChangedEvent struct {
	shared.BaseDomainEvent
	Value int64 `json:"value"`
}

// NewChangedEvent creates a ChangedEvent of the given type
func NewChangedEvent(eventType string, session uuid.UUID, value int64) *ChangedEvent {
	return &ChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeCounter, session),
		Value:           value,
	}
}
