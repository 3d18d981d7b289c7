package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// CounterService exposes the counter slice of a session
type CounterService struct {
	registry *Registry
}

// NewCounterService creates a CounterService
func NewCounterService(registry *Registry) *CounterService {
	return &CounterService{registry: registry}
}

// Get returns the counter value
func (s *CounterService) Get(ctx context.Context, session uuid.UUID) *CounterResponse {
	st := s.registry.Get(ctx, session).State()
	return &CounterResponse{Value: st.Counter.Value}
}

// Increment adds one to the counter
func (s *CounterService) Increment(ctx context.Context, session uuid.UUID) (*CounterResponse, error) {
	st, err := s.registry.Dispatch(ctx, session, nil, Increment())
	if err != nil {
		return nil, err
	}
	return &CounterResponse{Value: st.Counter.Value}, nil
}

// Decrement subtracts one from the counter. It refuses to go below zero
// and the reducer is not invoked in that case.
func (s *CounterService) Decrement(ctx context.Context, session uuid.UUID) (*CounterResponse, error) {
	next, err := s.registry.Dispatch(ctx, session, counterAboveZero, Decrement())
	if err != nil {
		return nil, err
	}
	return &CounterResponse{Value: next.Counter.Value}, nil
}

func counterAboveZero(st State) error {
	if !st.Counter.CanDecrement() {
		return shared.NewDomainError("INVALID_STATE", "Counter cannot go below zero")
	}
	return nil
}

// CartService exposes the cart slice of a session
type CartService struct {
	registry *Registry
	catalog  catalog.ProductCatalog
}

// NewCartService creates a CartService. products may be nil, in which case
// AddProduct is unavailable.
func NewCartService(registry *Registry, products catalog.ProductCatalog) *CartService {
	return &CartService{registry: registry, catalog: products}
}

// Get returns the cart and its totals
func (s *CartService) Get(ctx context.Context, session uuid.UUID) *CartResponse {
	st := s.registry.Get(ctx, session).State()
	return toCartResponse(st.Cart, s.registry.Config().TaxRate)
}

// AddItem adds an item described by the client
func (s *CartService) AddItem(ctx context.Context, session uuid.UUID, req AddItemRequest) (*CartResponse, error) {
	if req.Price == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Price is required")
	}
	item, err := cart.NewCartItem(req.ID, req.Title, *req.Price, req.Image)
	if err != nil {
		return nil, err
	}
	if req.Quantity > 0 {
		item.Quantity = req.Quantity
	}
	return s.dispatch(ctx, session, AddProduct(item))
}

// AddProduct looks the product up in the catalog and adds it with quantity 1
func (s *CartService) AddProduct(ctx context.Context, session uuid.UUID, productID int64) (*CartResponse, error) {
	if s.catalog == nil {
		return nil, shared.NewDomainError("UNAVAILABLE", "Product catalog is not configured")
	}
	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	item, err := product.ToCartItem()
	if err != nil {
		return nil, err
	}
	return s.dispatch(ctx, session, AddProduct(item))
}

// Remove drops every entry of the product
func (s *CartService) Remove(ctx context.Context, session uuid.UUID, productID int64) (*CartResponse, error) {
	return s.dispatch(ctx, session, RemoveProduct(productID))
}

// IncrementQuantity adds one to the product quantity
func (s *CartService) IncrementQuantity(ctx context.Context, session uuid.UUID, productID int64) (*CartResponse, error) {
	return s.dispatch(ctx, session, IncrementQuantity(productID))
}

// DecrementQuantity subtracts one from the product quantity, stopping at 1
func (s *CartService) DecrementQuantity(ctx context.Context, session uuid.UUID, productID int64) (*CartResponse, error) {
	return s.dispatch(ctx, session, DecrementQuantity(productID))
}

// SetQuantity sets the product quantity
func (s *CartService) SetQuantity(ctx context.Context, session uuid.UUID, productID int64, req SetQuantityRequest) (*CartResponse, error) {
	return s.dispatch(ctx, session, SetQuantity(productID, req.Quantity))
}

// Clear empties the cart
func (s *CartService) Clear(ctx context.Context, session uuid.UUID) (*CartResponse, error) {
	return s.dispatch(ctx, session, ClearCart())
}

// Contains reports whether the product is in the cart
func (s *CartService) Contains(ctx context.Context, session uuid.UUID, productID int64) *ContainsResponse {
	st := s.registry.Get(ctx, session).State()
	return &ContainsResponse{ProductID: productID, InCart: st.Cart.Contains(productID)}
}

func (s *CartService) dispatch(ctx context.Context, session uuid.UUID, action Action) (*CartResponse, error) {
	st, err := s.registry.Dispatch(ctx, session, nil, action)
	if err != nil {
		return nil, err
	}
	return toCartResponse(st.Cart, s.registry.Config().TaxRate), nil
}
