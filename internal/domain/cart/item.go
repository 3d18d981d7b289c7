package cart

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// CartItem is one line of the cart. Quantity is persisted with the item.
type CartItem struct {
	ID       int64           `json:"id"`
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Quantity int             `json:"quantity"`
}

// NewCartItem builds a validated item with quantity 1
func NewCartItem(id int64, title string, price decimal.Decimal, image string) (CartItem, error) {
	item := CartItem{
		ID:       id,
		Title:    strings.TrimSpace(title),
		Price:    price,
		Image:    image,
		Quantity: 1,
	}
	if err := item.Validate(); err != nil {
		return CartItem{}, err
	}
	return item, nil
}

// Validate checks the item invariants. A zero quantity is accepted and
// treated as 1 by the reducers.
func (i CartItem) Validate() error {
	if i.ID <= 0 {
		return shared.NewDomainError("INVALID_INPUT", "Cart item id must be positive")
	}
	if i.Title == "" {
		return shared.NewDomainError("INVALID_INPUT", "Cart item title cannot be empty")
	}
	if i.Price.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Cart item price cannot be negative")
	}
	if i.Quantity < 0 {
		return shared.NewDomainError("INVALID_INPUT", "Cart item quantity cannot be negative")
	}
	return nil
}

// LineTotal returns price * quantity
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (i CartItem) withDefaultQuantity() CartItem {
	if i.Quantity < 1 {
		i.Quantity = 1
	}
	return i
}

func notFound(id int64) error {
	return shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Cart item %d not found", id))
}
