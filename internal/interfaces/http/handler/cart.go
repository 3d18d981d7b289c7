package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/application/store"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// CartHandler handles cart API endpoints. Every route runs behind the
// CartSession middleware.
type CartHandler struct {
	BaseHandler
	cart *store.CartService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cart *store.CartService) *CartHandler {
	return &CartHandler{cart: cart}
}

// Get returns the items and their summary
func (h *CartHandler) Get(c *gin.Context) {
	h.Success(c, h.cart.Get(c.Request.Context(), middleware.GetCartSession(c)))
}

// AddItem adds a client described item. An item already in the cart is
// merged into its existing line.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req store.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.cart.AddItem(c.Request.Context(), middleware.GetCartSession(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// AddProduct adds a catalog product by id
func (h *CartHandler) AddProduct(c *gin.Context) {
	h.withProduct(c, func(ctx context.Context, session uuid.UUID, id int64) (any, error) {
		return h.cart.AddProduct(ctx, session, id)
	})
}

// Contains answers whether the product is in the cart
func (h *CartHandler) Contains(c *gin.Context) {
	h.withProduct(c, func(ctx context.Context, session uuid.UUID, id int64) (any, error) {
		return h.cart.Contains(ctx, session, id), nil
	})
}

func (h *CartHandler) Remove(c *gin.Context) {
	h.withProduct(c, func(ctx context.Context, session uuid.UUID, id int64) (any, error) {
		return h.cart.Remove(ctx, session, id)
	})
}

func (h *CartHandler) IncrementQuantity(c *gin.Context) {
	h.withProduct(c, func(ctx context.Context, session uuid.UUID, id int64) (any, error) {
		return h.cart.IncrementQuantity(ctx, session, id)
	})
}

// DecrementQuantity never drops the line below one unit; use Remove for that
func (h *CartHandler) DecrementQuantity(c *gin.Context) {
	h.withProduct(c, func(ctx context.Context, session uuid.UUID, id int64) (any, error) {
		return h.cart.DecrementQuantity(ctx, session, id)
	})
}

func (h *CartHandler) SetQuantity(c *gin.Context) {
	var req store.SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	h.withProduct(c, func(ctx context.Context, session uuid.UUID, id int64) (any, error) {
		return h.cart.SetQuantity(ctx, session, id, req)
	})
}

// Clear empties the cart
func (h *CartHandler) Clear(c *gin.Context) {
	resp, err := h.cart.Clear(c.Request.Context(), middleware.GetCartSession(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// withProduct parses :id, runs fn for the caller's session and writes the result
func (h *CartHandler) withProduct(c *gin.Context, fn func(ctx context.Context, session uuid.UUID, id int64) (any, error)) {
	id, err := productIDParam(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := fn(c.Request.Context(), middleware.GetCartSession(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
