// Package config provides centralized configuration management for the
// application. It loads configuration from environment variables with
// sensible defaults and validates all settings on startup to fail fast on
// misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Stores   StoresConfig
	Transfer TransferConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8000)
	Port int `env:"SERVER_PORT" default:"8000"`

	// ReadTimeout is the maximum duration for reading the request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing the response.
	// Transfers answer synchronously, so the default is generous (default: 15m)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"15m"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// StoresConfig holds the record store declarations.
type StoresConfig struct {
	// Specs declares the named stores as comma-separated name=url pairs.
	// Supported schemes: sqlite, postgres, mysql.
	Specs []string `env:"STORES" default:"source=sqlite://data/source.db,destination=sqlite://data/destination.db"`

	// SeedOnStart seeds the sample data set at startup (default: false)
	SeedOnStart bool `env:"STORE_SEED" default:"false"`
}

// TransferConfig holds transfer engine settings.
type TransferConfig struct {
	// MaxConcurrent is the maximum number of parallel transfers (default: 5)
	MaxConcurrent int `env:"TRANSFER_MAX_CONCURRENT" default:"5"`

	// MaxWaitTime is how long a request waits for a transfer slot (default: 30s)
	MaxWaitTime time.Duration `env:"TRANSFER_MAX_WAIT_TIME" default:"30s"`

	// StatusRetention is how long finished transfer statuses are kept (default: 24h)
	StatusRetention time.Duration `env:"TRANSFER_STATUS_RETENTION" default:"24h"`

	// RetentionCheckInterval is how often old statuses are pruned (default: 1h)
	RetentionCheckInterval time.Duration `env:"TRANSFER_RETENTION_CHECK_INTERVAL" default:"1h"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	if c.Host == "" {
		return ":" + strconv.Itoa(c.Port)
	}
	return c.Host + ":" + strconv.Itoa(c.Port)
}
