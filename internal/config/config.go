package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/utafrali/brandcatalog/internal/id"
	"github.com/utafrali/brandcatalog/pkg/breaker"
	pkgconfig "github.com/utafrali/brandcatalog/pkg/config"
	"github.com/utafrali/brandcatalog/pkg/database"
	"github.com/utafrali/brandcatalog/pkg/middleware"
	"github.com/utafrali/brandcatalog/pkg/tracing"
)

// Storage backends.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// ServiceName tags logs, metrics and traces.
const ServiceName = "brandcatalog"

// Config holds all configuration for the brand catalog service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort              int `env:"PORT" envDefault:"3000"`
	RequestTimeoutSeconds  int `env:"HTTP_REQUEST_TIMEOUT_SECONDS" envDefault:"30"`
	SlowRequestMs          int `env:"LOG_SLOW_REQUEST_MS" envDefault:"1000"`
	HTTPCacheMaxAgeSeconds int `env:"HTTP_CACHE_MAX_AGE_SECONDS" envDefault:"0"`
	RateLimitRPS           int `env:"RATE_LIMIT_RPS" envDefault:"100"`
	RateLimitBurst         int `env:"RATE_LIMIT_BURST" envDefault:"200"`

	// Storage
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"memory"`
	IDStrategy     string `env:"ID_STRATEGY" envDefault:"uuid"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"brandcatalog"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"brandcatalog"`
	PostgresDB   string `env:"POSTGRES_DB" envDefault:"brandcatalog"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Database pool
	DBMaxConns            int32 `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns            int32 `env:"DB_MIN_CONNS" envDefault:"1"`
	DBMaxConnLifetimeMins int   `env:"DB_MAX_CONN_LIFETIME_MINUTES" envDefault:"60"`
	DBMaxConnIdleTimeMins int   `env:"DB_MAX_CONN_IDLE_TIME_MINUTES" envDefault:"30"`

	// Slow query logging
	SlowQueryThresholdMs int `env:"LOG_SLOW_QUERY_MS" envDefault:"500"`

	// Circuit breaker around the postgres backend
	BreakerTimeoutSeconds int     `env:"BREAKER_TIMEOUT_SECONDS" envDefault:"30"`
	BreakerFailureRatio   float64 `env:"BREAKER_FAILURE_RATIO" envDefault:"0.5"`
	BreakerMinRequests    uint32  `env:"BREAKER_MIN_REQUESTS" envDefault:"5"`

	// Redis read-through cache
	RedisEnabled    bool   `env:"REDIS_ENABLED" envDefault:"false"`
	RedisHost       string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort       int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword   string `env:"REDIS_PASSWORD"`
	RedisDB         int    `env:"REDIS_DB" envDefault:"0"`
	CacheTTLSeconds int    `env:"CACHE_TTL_SECONDS" envDefault:"300"`

	// Kafka
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// CORS
	CORSAllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000,http://localhost:3001" envSeparator:","`
	CORSAllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"true"`

	// Seed fixtures; an empty SeedFile uses the embedded ones.
	SeedEnabled bool   `env:"SEED_ENABLED" envDefault:"true"`
	SeedFile    string `env:"SEED_FILE"`

	// Pprof debug endpoints (IP allowlist in CIDR notation)
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"10.0.0.0/8,172.16.0.0/12,192.168.0.0/16,127.0.0.0/8,::1/128" envSeparator:","`
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load brandcatalog config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	c.StorageBackend = strings.ToLower(strings.TrimSpace(c.StorageBackend))
	switch c.StorageBackend {
	case StorageMemory:
	case StoragePostgres:
		if c.PostgresHost == "" {
			return fmt.Errorf("POSTGRES_HOST is required")
		}
		if c.PostgresUser == "" {
			return fmt.Errorf("POSTGRES_USER is required")
		}
		if c.DBMinConns > c.DBMaxConns {
			return fmt.Errorf("DB_MIN_CONNS (%d) must not exceed DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be one of: memory, postgres, got %q", c.StorageBackend)
	}
	if _, err := id.ForStrategy(c.IDStrategy); err != nil {
		return fmt.Errorf("ID_STRATEGY: %w", err)
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED is set")
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}
	if c.BreakerFailureRatio <= 0 || c.BreakerFailureRatio > 1.0 {
		return fmt.Errorf("BREAKER_FAILURE_RATIO must be in (0.0, 1.0], got %f", c.BreakerFailureRatio)
	}
	return nil
}

// Postgres returns the pool settings.
func (c *Config) Postgres() database.PostgresConfig {
	return database.PostgresConfig{
		Host:            c.PostgresHost,
		Port:            c.PostgresPort,
		User:            c.PostgresUser,
		Password:        c.PostgresPass,
		DBName:          c.PostgresDB,
		SSLMode:         c.PostgresSSL,
		MaxConns:        c.DBMaxConns,
		MinConns:        c.DBMinConns,
		MaxConnLifetime: time.Duration(c.DBMaxConnLifetimeMins) * time.Minute,
		MaxConnIdleTime: time.Duration(c.DBMaxConnIdleTimeMins) * time.Minute,
	}
}

// Redis returns the cache connection settings.
func (c *Config) Redis() database.RedisConfig {
	r := database.DefaultRedisConfig()
	r.Host = c.RedisHost
	r.Port = c.RedisPort
	r.Password = c.RedisPassword
	r.DB = c.RedisDB
	return r
}

// Breaker returns the storage circuit breaker settings.
func (c *Config) Breaker() breaker.Config {
	b := breaker.DefaultConfig("postgres")
	b.Timeout = time.Duration(c.BreakerTimeoutSeconds) * time.Second
	b.FailureRatio = c.BreakerFailureRatio
	b.MinRequests = c.BreakerMinRequests
	return b
}

// Tracing returns the OpenTelemetry settings.
func (c *Config) Tracing() tracing.Config {
	return tracing.Config{
		ServiceName:  ServiceName,
		Environment:  c.Environment,
		OTLPEndpoint: c.OTELEndpoint,
		SampleRate:   c.OTELSampleRate,
		Enabled:      c.OTELEnabled,
	}
}

// CORS returns the CORS middleware settings.
func (c *Config) CORS() middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = c.CORSAllowedOrigins
	cors.AllowCredentials = c.CORSAllowCredentials
	return cors
}

// CacheTTL returns the brand cache entry lifetime.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// HTTPCacheMaxAge returns the Cache-Control max-age for brand reads.
func (c *Config) HTTPCacheMaxAge() time.Duration {
	return time.Duration(c.HTTPCacheMaxAgeSeconds) * time.Second
}

// RequestTimeout returns the per-request handler deadline.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// SlowRequest returns the threshold above which requests log at warn level.
func (c *Config) SlowRequest() time.Duration {
	return time.Duration(c.SlowRequestMs) * time.Millisecond
}

// SlowQuery returns the threshold above which queries log at warn level.
func (c *Config) SlowQuery() time.Duration {
	return time.Duration(c.SlowQueryThresholdMs) * time.Millisecond
}
