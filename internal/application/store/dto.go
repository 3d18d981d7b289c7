package store

import (
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
)

// AddItemRequest is the payload for adding an item to the cart
type AddItemRequest struct {
	ID       int64            `json:"id" binding:"required,gt=0"`
	Title    string           `json:"title" binding:"required,max=200"`
	Price    *decimal.Decimal `json:"price" binding:"required"`
	Image    string           `json:"image" binding:"omitempty,url"`
	Quantity int              `json:"quantity" binding:"omitempty,gte=1,lte=999"`
}

// SetQuantityRequest is the payload for setting an item quantity
type SetQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,gte=1,lte=999"`
}

// CartResponse is the cart with its derived totals
type CartResponse struct {
	Items   []cart.CartItem `json:"items"`
	Summary cart.Summary    `json:"summary"`
}

// CounterResponse is the counter value
type CounterResponse struct {
	Value int64 `json:"value"`
}

// ContainsResponse answers the cart membership predicate
type ContainsResponse struct {
	ProductID int64 `json:"product_id"`
	InCart    bool  `json:"in_cart"`
}

func toCartResponse(c cart.Cart, taxRate decimal.Decimal) *CartResponse {
	items := c.Items
	if items == nil {
		items = []cart.CartItem{}
	}
	return &CartResponse{Items: items, Summary: c.Summarize(taxRate)}
}
