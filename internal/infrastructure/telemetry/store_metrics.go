package telemetry

import (
	"context"
	"errors"
	"fmt"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// SessionCounter reports how many store sessions are held in memory
type SessionCounter interface {
	Len() int
}

// StoreMetrics turns store events into OpenTelemetry instruments. It is
// subscribed to the event bus like any other handler.
type StoreMetrics struct {
	actions       metric.Int64Counter
	itemsAdded    metric.Int64Counter
	itemsRemoved  metric.Int64Counter
	activeSession metric.Int64ObservableGauge
}

// NewStoreMetrics registers the store instruments on meter. sessions may be
// nil, in which case no session gauge is reported.
func NewStoreMetrics(meter metric.Meter, sessions SessionCounter) (*StoreMetrics, error) {
	if meter == nil {
		return nil, errors.New("NewStoreMetrics: meter cannot be nil")
	}

	m := &StoreMetrics{}
	var err error

	if m.actions, err = meter.Int64Counter("store.actions",
		metric.WithDescription("Committed store actions by event type"),
		metric.WithUnit("{action}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create store.actions counter: %w", err)
	}

	if m.itemsAdded, err = meter.Int64Counter("cart.items.added",
		metric.WithDescription("Units added to carts"),
		metric.WithUnit("{item}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create cart.items.added counter: %w", err)
	}

	if m.itemsRemoved, err = meter.Int64Counter("cart.items.removed",
		metric.WithDescription("Line items removed from carts"),
		metric.WithUnit("{item}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create cart.items.removed counter: %w", err)
	}

	if sessions != nil {
		if m.activeSession, err = meter.Int64ObservableGauge("store.sessions.active",
			metric.WithDescription("Store sessions held in memory"),
			metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
				o.Observe(int64(sessions.Len()))
				return nil
			}),
		); err != nil {
			return nil, fmt.Errorf("failed to create store.sessions.active gauge: %w", err)
		}
	}

	return m, nil
}

// EventTypes subscribes to every event
func (m *StoreMetrics) EventTypes() []string {
	return nil
}

// Handle records the event
func (m *StoreMetrics) Handle(ctx context.Context, e shared.DomainEvent) error {
	m.actions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event_type", e.EventType()),
		attribute.String("aggregate_type", e.AggregateType()),
	))

	switch ev := e.(type) {
	case *cart.ItemAddedEvent:
		m.itemsAdded.Add(ctx, int64(ev.Quantity))
	case *cart.ItemRemovedEvent:
		m.itemsRemoved.Add(ctx, int64(ev.Removed), metric.WithAttributes(attribute.String("reason", "remove")))
	case *cart.ClearedEvent:
		m.itemsRemoved.Add(ctx, int64(ev.Removed), metric.WithAttributes(attribute.String("reason", "clear")))
	}
	return nil
}

var _ shared.EventHandler = (*StoreMetrics)(nil)
