package catalog

import (
	"errors"
	"net/url"
	"time"

	"github.com/storefront/backend/internal/domain/catalog"
)

// DefaultBaseURL is the public demo catalog
const DefaultBaseURL = "https://dummyjson.com"

// Config holds the catalog client settings
type Config struct {
	BaseURL  string
	PageSize int
	Timeout  time.Duration
}

var (
	ErrConfigInvalidBaseURL  = errors.New("catalog: base url must be an absolute http(s) url")
	ErrConfigInvalidPageSize = errors.New("catalog: page size must be between 1 and 100")
)

// DefaultConfig returns the settings used when nothing is configured
func DefaultConfig() Config {
	return Config{
		BaseURL:  DefaultBaseURL,
		PageSize: catalog.DefaultPageSize,
		Timeout:  10 * time.Second,
	}
}

// Validate checks the configuration
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrConfigInvalidBaseURL
	}
	if c.PageSize < 1 || c.PageSize > 100 {
		return ErrConfigInvalidPageSize
	}
	return nil
}
