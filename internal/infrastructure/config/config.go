package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App       AppConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Catalog   CatalogConfig
	Cart      CartConfig
	Storage   StorageConfig
	Telemetry TelemetryConfig
}

// AppConfig holds application-level configuration
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	MaxBodySize       int64
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
	CORSAllowOrigins  []string
	CORSAllowMethods  []string
	CORSAllowHeaders  []string
	TrustedProxies    []string
}

// CatalogConfig holds the remote product catalog settings
type CatalogConfig struct {
	BaseURL  string
	PageSize int
	Timeout  time.Duration
}

// CartConfig holds cart behaviour settings
type CartConfig struct {
	TaxRate     decimal.Decimal
	AddMode     string // merge or append
	KeyPrefix   string
	MaxSessions int
}

// StorageConfig selects and configures the cart snapshot backend
type StorageConfig struct {
	Driver           string // memory, local, database, redis, s3
	FallbackToMemory bool
	Local            LocalStorageConfig
	Database         DatabaseConfig
	Redis            RedisConfig
	S3               S3Config
}

// LocalStorageConfig configures the on-disk bolt file
type LocalStorageConfig struct {
	Path        string
	OpenTimeout time.Duration
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Dialect         string // postgres or sqlite
	SQLitePath      string
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
	LogLevel        string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	TTL      time.Duration // 0 keeps snapshots forever
}

// S3Config holds S3-compatible object storage configuration
type S3Config struct {
	Endpoint     string
	Region       string
	Bucket       string
	AccessKey    string
	SecretKey    string
	UseSSL       bool
	UsePathStyle bool
	Prefix       string
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string  // OTLP gRPC endpoint, e.g. "localhost:4317"
	SamplingRatio     float64 // 0.0-1.0
	ServiceName       string
	Insecure          bool
	MetricsInterval   time.Duration
}

// Storage drivers
const (
	DriverMemory   = "memory"
	DriverLocal    = "local"
	DriverDatabase = "database"
	DriverRedis    = "redis"
	DriverS3       = "s3"
)

// Load reads config.toml (if present) and STOREFRONT_* environment variables
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/storefront")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	taxRate := decimal.Zero
	if raw := v.GetString("cart.tax_rate"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("cart.tax_rate: %w", err)
		}
		taxRate = parsed
	}

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:       v.GetDuration("http.read_timeout"),
			WriteTimeout:      v.GetDuration("http.write_timeout"),
			IdleTimeout:       v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:    v.GetInt("http.max_header_bytes"),
			MaxBodySize:       v.GetInt64("http.max_body_size"),
			RateLimitEnabled:  v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests: v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:   v.GetDuration("http.rate_limit_window"),
			CORSAllowOrigins:  v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:  v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:  v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:    v.GetStringSlice("http.trusted_proxies"),
		},
		Catalog: CatalogConfig{
			BaseURL:  v.GetString("catalog.base_url"),
			PageSize: v.GetInt("catalog.page_size"),
			Timeout:  v.GetDuration("catalog.timeout"),
		},
		Cart: CartConfig{
			TaxRate:     taxRate,
			AddMode:     v.GetString("cart.add_mode"),
			KeyPrefix:   v.GetString("cart.key_prefix"),
			MaxSessions: v.GetInt("cart.max_sessions"),
		},
		Storage: StorageConfig{
			Driver:           v.GetString("storage.driver"),
			FallbackToMemory: v.GetBool("storage.fallback_to_memory"),
			Local: LocalStorageConfig{
				Path:        v.GetString("storage.local.path"),
				OpenTimeout: v.GetDuration("storage.local.open_timeout"),
			},
			Database: DatabaseConfig{
				Dialect:         v.GetString("storage.database.dialect"),
				SQLitePath:      v.GetString("storage.database.sqlite_path"),
				Host:            v.GetString("storage.database.host"),
				Port:            v.GetInt("storage.database.port"),
				User:            v.GetString("storage.database.user"),
				Password:        v.GetString("storage.database.password"),
				DBName:          v.GetString("storage.database.dbname"),
				SSLMode:         v.GetString("storage.database.sslmode"),
				MaxOpenConns:    v.GetInt("storage.database.max_open_conns"),
				MaxIdleConns:    v.GetInt("storage.database.max_idle_conns"),
				ConnMaxLifetime: v.GetInt("storage.database.conn_max_lifetime"),
				ConnMaxIdleTime: v.GetInt("storage.database.conn_max_idle_time"),
				LogLevel:        v.GetString("storage.database.log_level"),
			},
			Redis: RedisConfig{
				Host:     v.GetString("storage.redis.host"),
				Port:     v.GetInt("storage.redis.port"),
				Password: v.GetString("storage.redis.password"),
				DB:       v.GetInt("storage.redis.db"),
				TTL:      v.GetDuration("storage.redis.ttl"),
			},
			S3: S3Config{
				Endpoint:     v.GetString("storage.s3.endpoint"),
				Region:       v.GetString("storage.s3.region"),
				Bucket:       v.GetString("storage.s3.bucket"),
				AccessKey:    v.GetString("storage.s3.access_key"),
				SecretKey:    v.GetString("storage.s3.secret_key"),
				UseSSL:       v.GetBool("storage.s3.use_ssl"),
				UsePathStyle: v.GetBool("storage.s3.use_path_style"),
				Prefix:       v.GetString("storage.s3.prefix"),
			},
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "storefront"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}

	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 30 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 1 << 20
	}
	if cfg.HTTP.RateLimitRequests == 0 {
		cfg.HTTP.RateLimitRequests = 100
	}
	if cfg.HTTP.RateLimitWindow == 0 {
		cfg.HTTP.RateLimitWindow = time.Minute
	}
	// No default CORS origins: cross-origin requests stay disabled until configured.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "X-Request-ID", "X-Cart-Session"}
	}

	if cfg.Catalog.BaseURL == "" {
		cfg.Catalog.BaseURL = "https://dummyjson.com"
	}
	if cfg.Catalog.PageSize == 0 {
		cfg.Catalog.PageSize = 12
	}
	if cfg.Catalog.Timeout == 0 {
		cfg.Catalog.Timeout = 10 * time.Second
	}

	if cfg.Cart.TaxRate.IsZero() {
		cfg.Cart.TaxRate = decimal.RequireFromString("0.10")
	}
	if cfg.Cart.AddMode == "" {
		cfg.Cart.AddMode = "merge"
	}
	if cfg.Cart.KeyPrefix == "" {
		cfg.Cart.KeyPrefix = "cart"
	}
	if cfg.Cart.MaxSessions == 0 {
		cfg.Cart.MaxSessions = 10000
	}

	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = DriverLocal
	}
	if cfg.Storage.Local.Path == "" {
		cfg.Storage.Local.Path = "data/storefront.db"
	}
	if cfg.Storage.Local.OpenTimeout == 0 {
		cfg.Storage.Local.OpenTimeout = time.Second
	}
	applyDatabaseDefaults(&cfg.Storage.Database)
	if cfg.Storage.Redis.Host == "" {
		cfg.Storage.Redis.Host = "localhost"
	}
	if cfg.Storage.Redis.Port == 0 {
		cfg.Storage.Redis.Port = 6379
	}
	if cfg.Storage.S3.Region == "" {
		cfg.Storage.S3.Region = "us-east-1"
	}
	if cfg.Storage.S3.Prefix == "" {
		cfg.Storage.S3.Prefix = "carts/"
	}

	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Telemetry.MetricsInterval == 0 {
		cfg.Telemetry.MetricsInterval = 60 * time.Second
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Dialect == "" {
		d.Dialect = "postgres"
	}
	if d.SQLitePath == "" {
		d.SQLitePath = "data/storefront.sqlite"
	}
	if d.Host == "" {
		d.Host = "localhost"
	}
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.User == "" {
		d.User = "postgres"
	}
	if d.DBName == "" {
		d.DBName = "storefront"
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.MaxOpenConns == 0 {
		d.MaxOpenConns = 25
	}
	if d.MaxIdleConns == 0 {
		d.MaxIdleConns = 5
	}
	if d.ConnMaxLifetime == 0 {
		d.ConnMaxLifetime = 60
	}
	if d.ConnMaxIdleTime == 0 {
		d.ConnMaxIdleTime = 30
	}
	if d.LogLevel == "" {
		d.LogLevel = "warn"
	}
}

func (c *Config) validate() error {
	if c.Cart.TaxRate.IsNegative() || c.Cart.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("cart.tax_rate must be between 0 and 1, got %s", c.Cart.TaxRate)
	}
	if c.Cart.AddMode != "merge" && c.Cart.AddMode != "append" {
		return fmt.Errorf("cart.add_mode must be merge or append, got %q", c.Cart.AddMode)
	}
	if c.Cart.MaxSessions < 0 {
		return fmt.Errorf("cart.max_sessions cannot be negative")
	}
	if c.Catalog.PageSize < 1 || c.Catalog.PageSize > 100 {
		return fmt.Errorf("catalog.page_size must be between 1 and 100, got %d", c.Catalog.PageSize)
	}

	drivers := []string{DriverMemory, DriverLocal, DriverDatabase, DriverRedis, DriverS3}
	if !slices.Contains(drivers, c.Storage.Driver) {
		return fmt.Errorf("storage.driver must be one of %s, got %q", strings.Join(drivers, ", "), c.Storage.Driver)
	}
	if c.Storage.Driver == DriverDatabase {
		db := c.Storage.Database
		if db.Dialect != "postgres" && db.Dialect != "sqlite" {
			return fmt.Errorf("storage.database.dialect must be postgres or sqlite, got %q", db.Dialect)
		}
		if db.MaxOpenConns <= 0 {
			return fmt.Errorf("storage.database.max_open_conns must be positive")
		}
		if db.MaxIdleConns > db.MaxOpenConns {
			return fmt.Errorf("storage.database.max_idle_conns (%d) cannot exceed storage.database.max_open_conns (%d)",
				db.MaxIdleConns, db.MaxOpenConns)
		}
	}
	if c.Storage.Driver == DriverS3 && c.Storage.S3.Bucket == "" {
		return fmt.Errorf("storage.s3.bucket is required when storage.driver is s3")
	}

	if c.App.Env == "production" {
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		if c.Storage.Driver == DriverMemory {
			return fmt.Errorf("storage.driver cannot be memory in production")
		}
		if c.Storage.Driver == DriverDatabase && c.Storage.Database.Dialect == "postgres" && c.Storage.Database.SSLMode == "disable" {
			return fmt.Errorf("storage.database.sslmode cannot be 'disable' in production")
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}
	return nil
}

// DSN returns the postgres connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// Addr returns host:port of the redis server
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
