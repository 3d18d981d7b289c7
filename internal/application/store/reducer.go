package store

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/counter"
	"github.com/storefront/backend/internal/domain/shared"
)

// State is the root state of a session store
type State struct {
	Counter counter.Counter `json:"counter"`
	Cart    cart.Cart       `json:"cart"`
}

func (s State) clone() State {
	return State{Counter: s.Counter, Cart: cart.New(s.Cart.Items...)}
}

// Reduce applies action to state and returns the next state. It has no side effects.
func Reduce(state State, action Action, mode cart.AddMode) (State, error) {
	next := state
	var err error

	switch action.Type {
	case ActionIncrement:
		next.Counter = state.Counter.Increment()
	case ActionDecrement:
		next.Counter = state.Counter.Decrement()
	case ActionAddProduct:
		next.Cart, err = state.Cart.Add(action.Item, mode)
	case ActionRemoveProduct:
		next.Cart = state.Cart.Remove(action.ProductID)
	case ActionIncrementQuantity:
		next.Cart, err = state.Cart.IncrementQuantity(action.ProductID)
	case ActionDecrementQuantity:
		next.Cart, err = state.Cart.DecrementQuantity(action.ProductID)
	case ActionSetQuantity:
		next.Cart, err = state.Cart.SetQuantity(action.ProductID, action.Quantity)
	case ActionClearCart:
		next.Cart = state.Cart.Clear()
	default:
		return state, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown action %q", action.Type))
	}

	if err != nil {
		return state, err
	}
	return next, nil
}

// eventsFor derives the domain events of a committed transition
func eventsFor(session uuid.UUID, action Action, prev, next State) []shared.DomainEvent {
	switch action.Type {
	case ActionIncrement:
		return []shared.DomainEvent{counter.NewChangedEvent(counter.EventTypeIncremented, session, next.Counter.Value)}
	case ActionDecrement:
		return []shared.DomainEvent{counter.NewChangedEvent(counter.EventTypeDecremented, session, next.Counter.Value)}
	case ActionAddProduct:
		qty := 0
		if item, ok := next.Cart.Find(action.ProductID); ok {
			qty = item.Quantity
		}
		return []shared.DomainEvent{cart.NewItemAddedEvent(session, action.Item, qty)}
	case ActionRemoveProduct:
		removed := prev.Cart.Len() - next.Cart.Len()
		if removed == 0 {
			return nil
		}
		return []shared.DomainEvent{cart.NewItemRemovedEvent(session, action.ProductID, removed)}
	case ActionIncrementQuantity, ActionDecrementQuantity, ActionSetQuantity:
		before, _ := prev.Cart.Find(action.ProductID)
		after, _ := next.Cart.Find(action.ProductID)
		if before.Quantity == after.Quantity {
			return nil
		}
		return []shared.DomainEvent{cart.NewQuantityChangedEvent(session, action.ProductID, before.Quantity, after.Quantity)}
	case ActionClearCart:
		return []shared.DomainEvent{cart.NewClearedEvent(session, prev.Cart.Len())}
	}
	return nil
}
