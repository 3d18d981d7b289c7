package cart

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// AggregateTypeCart is the aggregate type of cart events
const AggregateTypeCart = "Cart"

// Event type constants
const (
	EventTypeItemAdded       = "CartItemAdded"
	EventTypeItemRemoved     = "CartItemRemoved"
	EventTypeQuantityChanged = "CartItemQuantityChanged"
	EventTypeCleared         = "CartCleared"
)

// ItemAddedEvent is published after a product is added to a session's cart
type ItemAddedEvent struct {
	shared.BaseDomainEvent
	Item     CartItem `json:"item"`
	Quantity int      `json:"quantity"` // quantity of the entry after the add
}

// NewItemAddedEvent creates an ItemAddedEvent
func NewItemAddedEvent(session uuid.UUID, item CartItem, quantity int) *ItemAddedEvent {
	return &ItemAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemAdded, AggregateTypeCart, session),
		Item:            item,
		Quantity:        quantity,
	}
}

// ItemRemovedEvent is published after entries are removed from a cart
type ItemRemovedEvent struct {
	shared.BaseDomainEvent
	ProductID int64 `json:"product_id"`
	Removed   int   `json:"removed"`
}

// NewItemRemovedEvent creates an ItemRemovedEvent
func NewItemRemovedEvent(session uuid.UUID, productID int64, removed int) *ItemRemovedEvent {
	return &ItemRemovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemRemoved, AggregateTypeCart, session),
		ProductID:       productID,
		Removed:         removed,
	}
}

// QuantityChangedEvent is published after an entry's quantity changes
type QuantityChangedEvent struct {
	shared.BaseDomainEvent
	ProductID   int64 `json:"product_id"`
	OldQuantity int   `json:"old_quantity"`
	NewQuantity int   `json:"new_quantity"`
}

// NewQuantityChangedEvent creates a QuantityChangedEvent
func NewQuantityChangedEvent(session uuid.UUID, productID int64, oldQty, newQty int) *QuantityChangedEvent {
	return &QuantityChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuantityChanged, AggregateTypeCart, session),
		ProductID:       productID,
		OldQuantity:     oldQty,
		NewQuantity:     newQty,
	}
}

// ClearedEvent is published after a cart is emptied
type ClearedEvent struct {
	shared.BaseDomainEvent
	Removed int `json:"removed"`
}

// NewClearedEvent creates a ClearedEvent
func NewClearedEvent(session uuid.UUID, removed int) *ClearedEvent {
	return &ClearedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCleared, AggregateTypeCart, session),
		Removed:         removed,
	}
}
