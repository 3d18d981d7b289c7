// Package cart holds the cart slice: the ordered list of cart items and the
// pure operations over it. Every operation returns a new Cart and leaves the
// receiver untouched.
package cart

import (
	"fmt"
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
)

// AddMode decides what adding an already present product does
type AddMode string

const (
	// AddModeMerge increments the quantity of the existing entry
	AddModeMerge AddMode = "merge"
	// AddModeAppend appends a new line, so the same product may appear more than once
	AddModeAppend AddMode = "append"
)

// ParseAddMode parses a configured add mode. Empty means merge.
func ParseAddMode(s string) (AddMode, error) {
	switch AddMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", AddModeMerge:
		return AddModeMerge, nil
	case AddModeAppend:
		return AddModeAppend, nil
	default:
		return "", shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown cart add mode %q", s))
	}
}

// Cart is the cart slice state, in insertion order
type Cart struct {
	Items []CartItem `json:"items"`
}

// New returns a cart holding a copy of items
func New(items ...CartItem) Cart {
	return Cart{Items: append([]CartItem(nil), items...)}
}

// Len returns the number of entries
func (c Cart) Len() int {
	return len(c.Items)
}

// IsEmpty reports whether the cart has no entries
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Contains reports whether any entry has the given product id
func (c Cart) Contains(id int64) bool {
	for _, item := range c.Items {
		if item.ID == id {
			return true
		}
	}
	return false
}

// Find returns the first entry with the given id
func (c Cart) Find(id int64) (CartItem, bool) {
	for _, item := range c.Items {
		if item.ID == id {
			return item, true
		}
	}
	return CartItem{}, false
}

// Add adds item to the cart. In merge mode an existing entry with the same id
// has its quantity increased by the item's quantity. In append mode the item
// is always appended.
func (c Cart) Add(item CartItem, mode AddMode) (Cart, error) {
	if err := item.Validate(); err != nil {
		return c, err
	}
	item = item.withDefaultQuantity()

	next := c.clone()
	if mode == AddModeMerge {
		for i := range next.Items {
			if next.Items[i].ID == item.ID {
				next.Items[i].Quantity += item.Quantity
				return next, nil
			}
		}
	}
	next.Items = append(next.Items, item)
	return next, nil
}

// Remove drops every entry with the given id. Removing an absent id is a no-op.
func (c Cart) Remove(id int64) Cart {
	next := Cart{Items: make([]CartItem, 0, len(c.Items))}
	for _, item := range c.Items {
		if item.ID != id {
			next.Items = append(next.Items, item)
		}
	}
	return next
}

// IncrementQuantity adds one to every entry with the given id
func (c Cart) IncrementQuantity(id int64) (Cart, error) {
	return c.updateQuantity(id, func(q int) int { return q + 1 })
}

// DecrementQuantity subtracts one from every entry with the given id.
// Quantity never drops below 1.
func (c Cart) DecrementQuantity(id int64) (Cart, error) {
	return c.updateQuantity(id, func(q int) int { return max(q-1, 1) })
}

// SetQuantity sets the quantity of every entry with the given id
func (c Cart) SetQuantity(id int64, quantity int) (Cart, error) {
	if quantity < 1 {
		return c, shared.NewDomainError("INVALID_INPUT", "Quantity must be at least 1")
	}
	return c.updateQuantity(id, func(int) int { return quantity })
}

// Clear returns an empty cart
func (c Cart) Clear() Cart {
	return Cart{Items: []CartItem{}}
}

func (c Cart) updateQuantity(id int64, fn func(int) int) (Cart, error) {
	if !c.Contains(id) {
		return c, notFound(id)
	}
	next := c.clone()
	for i := range next.Items {
		if next.Items[i].ID == id {
			next.Items[i].Quantity = fn(next.Items[i].withDefaultQuantity().Quantity)
		}
	}
	return next, nil
}

func (c Cart) clone() Cart {
	items := make([]CartItem, len(c.Items), len(c.Items)+1)
	copy(items, c.Items)
	return Cart{Items: items}
}
