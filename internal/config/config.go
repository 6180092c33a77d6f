// Package config provides centralized configuration for the service.
// Settings load from environment variables with defaults and are
// validated on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Inspect InspectConfig
	Rate    RateLimitConfig
	Logging LoggingConfig
	Service ServiceConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8000)
	Port int `env:"SERVER_PORT" default:"8000"`

	// ReadTimeout is the maximum duration for reading request body (default: 30s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"30s"`

	// WriteTimeout is the maximum duration for writing response (default: 0 for SSE)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"0s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 120s).
	// Parsing has no timeout of its own; this is the only bound on it.
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"120s"`
}

// StorageConfig holds upload and result file locations.
type StorageConfig struct {
	// UploadDir is where uploaded DXF files are stored (default: ./uploads)
	UploadDir string `env:"STORAGE_UPLOAD_DIR" default:"./uploads"`

	// ResultDir is where generated CSV results are stored (default: ./results)
	ResultDir string `env:"STORAGE_RESULT_DIR" default:"./results"`

	// MaxFileSize is the maximum allowed upload size in bytes (default: 100MB)
	MaxFileSize int64 `env:"STORAGE_MAX_FILE_SIZE" default:"104857600"`
}

// InspectConfig holds structure-inspection settings.
type InspectConfig struct {
	// MaxEntities is the default bound on entities listed by an
	// inspection (default: 200). A negative request value means no limit.
	MaxEntities int `env:"INSPECT_MAX_ENTITIES" default:"200"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// ServiceConfig holds the metadata advertised by the service-info
// endpoint. It does not affect where the server actually binds.
type ServiceConfig struct {
	// AdvertisedHost is the host clients should reach (default: localhost)
	AdvertisedHost string `env:"SERVICE_ADVERTISED_HOST" default:"localhost"`

	// AdvertisedPort overrides the advertised port in service-info
	// output only; empty falls back to the bind port.
	AdvertisedPort string `env:"PORT"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// PublicAddress returns the base URL advertised in service-info output.
func (c *Config) PublicAddress() string {
	port := c.Service.AdvertisedPort
	if port == "" {
		port = strconv.Itoa(c.Server.Port)
	}
	return "http://" + c.Service.AdvertisedHost + ":" + port
}
