package router

import (
	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Handlers are the endpoint groups served by the engine
type Handlers struct {
	Health  *handler.HealthHandler
	Catalog *handler.CatalogHandler
	Counter *handler.CounterHandler
	Cart    *handler.CartHandler
}

// EngineOptions configure the middleware stack
type EngineOptions struct {
	HTTP        config.HTTPConfig
	ServiceName string
	Tracing     bool
	// RateLimiter is optional; nil disables rate limiting
	RateLimiter *middleware.RateLimiter
}

// NewEngine builds the gin engine with the global middleware chain and all routes
func NewEngine(opts EngineOptions, log *zap.Logger, h Handlers) (*gin.Engine, error) {
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(opts.HTTP.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if opts.Tracing {
		engine.Use(middleware.Tracing(opts.ServiceName), middleware.SpanEnricher())
	}
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS(corsConfig(opts.HTTP)))
	if opts.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(opts.HTTP.MaxBodySize))
	}
	if opts.RateLimiter != nil {
		engine.Use(middleware.RateLimit(opts.RateLimiter))
	}

	engine.GET("/health", h.Health.Health)

	r := NewRouter(engine, WithAPIVersion("v1"))

	catalogRoutes := NewDomainGroup("catalog", "/catalog")
	catalogRoutes.GET("/products", h.Catalog.ListProducts)
	catalogRoutes.GET("/products/:id", h.Catalog.GetProduct)

	counterRoutes := NewDomainGroup("counter", "/counter").Use(middleware.CartSession())
	counterRoutes.GET("", h.Counter.Get)
	counterRoutes.POST("/increment", h.Counter.Increment)
	counterRoutes.POST("/decrement", h.Counter.Decrement)

	cartRoutes := NewDomainGroup("cart", "/cart").Use(middleware.CartSession())
	cartRoutes.GET("", h.Cart.Get)
	cartRoutes.DELETE("", h.Cart.Clear)
	cartRoutes.POST("/items", h.Cart.AddItem)
	cartRoutes.POST("/products/:id", h.Cart.AddProduct)
	cartRoutes.GET("/items/:id", h.Cart.Contains)
	cartRoutes.DELETE("/items/:id", h.Cart.Remove)
	cartRoutes.POST("/items/:id/increment", h.Cart.IncrementQuantity)
	cartRoutes.POST("/items/:id/decrement", h.Cart.DecrementQuantity)
	cartRoutes.PUT("/items/:id/quantity", h.Cart.SetQuantity)

	r.Register(catalogRoutes).Register(counterRoutes).Register(cartRoutes)
	r.Setup()

	return engine, nil
}

func corsConfig(cfg config.HTTPConfig) middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.CORSAllowOrigins
	if len(cfg.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.CORSAllowMethods
	}
	if len(cfg.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.CORSAllowHeaders
	}
	return cors
}
