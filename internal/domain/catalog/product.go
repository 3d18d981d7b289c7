// Package catalog describes the products offered by the remote catalog.
package catalog

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
)

// DefaultPageSize is the number of products fetched per catalog request
const DefaultPageSize = 12

// Product is a catalog entry as returned by the remote catalog
type Product struct {
	ID                 int64           `json:"id"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	Price              decimal.Decimal `json:"price"`
	DiscountPercentage float64         `json:"discountPercentage,omitempty"`
	Rating             float64         `json:"rating,omitempty"`
	Stock              int             `json:"stock,omitempty"`
	Brand              string          `json:"brand,omitempty"`
	Category           string          `json:"category,omitempty"`
	Thumbnail          string          `json:"thumbnail,omitempty"`
	Images             []string        `json:"images"`
}

// PrimaryImage returns the first image, falling back to the thumbnail
func (p Product) PrimaryImage() string {
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return p.Thumbnail
}

// ToCartItem projects the product into a cart item with quantity 1
func (p Product) ToCartItem() (cart.CartItem, error) {
	return cart.NewCartItem(p.ID, p.Title, p.Price, p.PrimaryImage())
}

// ProductCatalog reads products from the catalog source
type ProductCatalog interface {
	// ListProducts returns the first page of products
	ListProducts(ctx context.Context) ([]Product, error)
	// GetProduct returns a single product, or a NOT_FOUND domain error
	GetProduct(ctx context.Context, id int64) (*Product, error)
}
