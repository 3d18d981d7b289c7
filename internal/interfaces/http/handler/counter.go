package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/application/store"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// CounterHandler handles the per-session counter
type CounterHandler struct {
	BaseHandler
	counter *store.CounterService
}

// NewCounterHandler creates a new CounterHandler
func NewCounterHandler(counter *store.CounterService) *CounterHandler {
	return &CounterHandler{counter: counter}
}

func (h *CounterHandler) Get(c *gin.Context) {
	h.Success(c, h.counter.Get(c.Request.Context(), middleware.GetCartSession(c)))
}

func (h *CounterHandler) Increment(c *gin.Context) {
	resp, err := h.counter.Increment(c.Request.Context(), middleware.GetCartSession(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Decrement answers 422 when the counter is already zero
func (h *CounterHandler) Decrement(c *gin.Context) {
	resp, err := h.counter.Decrement(c.Request.Context(), middleware.GetCartSession(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
