package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// Pinger is a dependency that can report its health
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness and snapshot store reachability
type HealthHandler struct {
	BaseHandler
	snapshots Pinger
	driver    string
	timeout   time.Duration
}

// NewHealthHandler creates a new HealthHandler. driver names the snapshot backend in the response.
func NewHealthHandler(snapshots Pinger, driver string) *HealthHandler {
	return &HealthHandler{snapshots: snapshots, driver: driver, timeout: 2 * time.Second}
}

// HealthResponse is the health check body
type HealthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
	Driver  string `json:"driver"`
	Error   string `json:"error,omitempty"`
}

// Health answers 200 when the snapshot store responds and 503 otherwise
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	resp := HealthResponse{Status: "healthy", Storage: "up", Driver: h.driver}
	if err := h.snapshots.Ping(ctx); err != nil {
		resp.Status = "degraded"
		resp.Storage = "down"
		resp.Error = err.Error()
		c.JSON(http.StatusServiceUnavailable, dto.Response{Success: false, Data: resp})
		return
	}
	h.Success(c, resp)
}
