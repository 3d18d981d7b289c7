package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	catalogclient "github.com/storefront/backend/internal/infrastructure/catalog"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

const catalogUnavailableMessage = "Product catalog is unavailable"

// CatalogHandler serves the remote product listing
type CatalogHandler struct {
	BaseHandler
	products catalog.ProductCatalog
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(products catalog.ProductCatalog) *CatalogHandler {
	return &CatalogHandler{products: products}
}

// ProductListResponse is the product listing
type ProductListResponse struct {
	Products []catalog.Product `json:"products"`
	Count    int               `json:"count"`
}

// ListProducts answers GET /catalog/products. Transport failures are
// reported as 502 along with non-2xx upstream answers.
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.products.ListProducts(c.Request.Context())
	if err != nil {
		var domainErr *shared.DomainError
		var statusErr *catalogclient.StatusError
		if errors.As(err, &domainErr) || errors.As(err, &statusErr) {
			h.HandleError(c, err)
			return
		}
		logger.GetGinLogger(c).Error("Catalog request failed", zap.Error(err))
		_ = c.Error(err)
		h.Error(c, http.StatusBadGateway, dto.ErrCodeUpstream, catalogUnavailableMessage)
		return
	}
	h.Success(c, ProductListResponse{Products: products, Count: len(products)})
}

// GetProduct answers GET /catalog/products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, err := productIDParam(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	product, err := h.products.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}
