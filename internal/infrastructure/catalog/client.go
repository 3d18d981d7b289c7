// Package catalog is the HTTP client of the remote product catalog.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// maxResponseSize caps how much of a catalog response is read (10MB)
const maxResponseSize = 10 * 1024 * 1024

// StatusError is returned when the catalog answers with a non-2xx status
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("failed to fetch products. status: %d", e.StatusCode)
}

// productsPage is the list envelope of the remote catalog
type productsPage struct {
	Products []catalog.Product `json:"products"`
	Total    int               `json:"total"`
	Skip     int               `json:"skip"`
	Limit    int               `json:"limit"`
}

// Client reads products over HTTP. It does not retry or cache.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger
	duration   metric.Float64Histogram
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the client logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithMeter records request durations on meter
func WithMeter(meter metric.Meter) Option {
	return func(c *Client) {
		h, err := meter.Float64Histogram("catalog.request.duration",
			metric.WithDescription("Duration of catalog requests"),
			metric.WithUnit("s"),
		)
		if err == nil {
			c.duration = h
		}
	}
}

// NewClient creates a catalog client
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     zap.NewNop(),
	}
	WithMeter(otel.Meter("github.com/storefront/backend/catalog"))(c)
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListProducts fetches the first page of products
func (c *Client) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	endpoint := c.cfg.BaseURL + "/products?limit=" + strconv.Itoa(c.cfg.PageSize)

	body, err := c.get(ctx, "list", endpoint)
	if err != nil {
		return nil, err
	}

	var page productsPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("catalog: decode products: %w", err)
	}
	if page.Products == nil {
		page.Products = []catalog.Product{}
	}
	return page.Products, nil
}

// GetProduct fetches a single product. A 404 maps to a NOT_FOUND domain error.
func (c *Client) GetProduct(ctx context.Context, id int64) (*catalog.Product, error) {
	if id <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Product id must be positive")
	}
	endpoint := c.cfg.BaseURL + "/products/" + strconv.FormatInt(id, 10)

	body, err := c.get(ctx, "get", endpoint)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Product %d not found", id))
		}
		return nil, err
	}

	var product catalog.Product
	if err := json.Unmarshal(body, &product); err != nil {
		return nil, fmt.Errorf("catalog: decode product: %w", err)
	}
	return &product, nil
}

func (c *Client) get(ctx context.Context, op, endpoint string) ([]byte, error) {
	start := time.Now()
	status := 0
	defer func() {
		if c.duration != nil {
			c.duration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
				attribute.String("operation", op),
				attribute.Int("status", status),
			))
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("catalog request failed", zap.String("url", endpoint), zap.Error(err))
		return nil, fmt.Errorf("catalog: request failed: %w", err)
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("catalog returned error status",
			zap.String("url", endpoint),
			zap.Int("status", resp.StatusCode),
		)
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("catalog: read response: %w", err)
	}
	return body, nil
}

var _ catalog.ProductCatalog = (*Client)(nil)
