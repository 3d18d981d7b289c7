package event

import (
	"context"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/counter"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ActivityLogHandler writes one structured log entry per store action
type ActivityLogHandler struct {
	logger *zap.Logger
}

// NewActivityLogHandler creates an ActivityLogHandler
func NewActivityLogHandler(l *zap.Logger) *ActivityLogHandler {
	return &ActivityLogHandler{logger: l.Named("activity")}
}

// EventTypes subscribes to every event
func (h *ActivityLogHandler) EventTypes() []string {
	return nil
}

// Handle logs the event with its type specific fields
func (h *ActivityLogHandler) Handle(ctx context.Context, e shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_type", e.EventType()),
		zap.String("session", e.AggregateID().String()),
	}

	msg := "store action"
	switch ev := e.(type) {
	case *cart.ItemAddedEvent:
		msg = "item added to cart"
		fields = append(fields,
			zap.Int64("product_id", ev.Item.ID),
			zap.String("title", ev.Item.Title),
			zap.Int("quantity", ev.Quantity),
		)
	case *cart.ItemRemovedEvent:
		msg = "item removed from cart"
		fields = append(fields, zap.Int64("product_id", ev.ProductID), zap.Int("removed", ev.Removed))
	case *cart.QuantityChangedEvent:
		msg = "cart quantity changed"
		fields = append(fields,
			zap.Int64("product_id", ev.ProductID),
			zap.Int("old_quantity", ev.OldQuantity),
			zap.Int("new_quantity", ev.NewQuantity),
		)
	case *cart.ClearedEvent:
		msg = "cart cleared"
		fields = append(fields, zap.Int("removed", ev.Removed))
	case *counter.ChangedEvent:
		msg = "counter changed"
		fields = append(fields, zap.Int64("value", ev.Value))
	}

	logger.Enrich(ctx, h.logger).Info(msg, fields...)
	return nil
}

var _ shared.EventHandler = (*ActivityLogHandler)(nil)
