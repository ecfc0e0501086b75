// Package config provides server configuration loaded from environment variables.
package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const logPrefix = "config:LoadConfig"

// Config holds kernel-server configuration.
type Config struct {
	// HTTP API
	Host              string        `envconfig:"KERNEL_HOST" default:"localhost"`
	Port              int           `envconfig:"KERNEL_PORT" default:"8080"`
	ReadHeaderTimeout time.Duration `envconfig:"HTTP_READ_HEADER_TIMEOUT" default:"10s"`
	IdleTimeout       time.Duration `envconfig:"HTTP_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout   time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`
	OwnedBy           string        `envconfig:"KERNEL_OWNED_BY" default:"umg-neocore"`

	// Catalog (empty = search config/catalog.json, catalog.json, then built-ins)
	CatalogFile string `envconfig:"KERNEL_CATALOG_FILE"`

	// COMMS bridge, disabled when COMMSURL is empty.
	COMMSURL       string        `envconfig:"COMMS_URL"`
	COMMSName      string        `envconfig:"SERVICE_NAME" default:"kernel-server"`
	ExecuteSubject string        `envconfig:"KERNEL_EXECUTE_SUBJECT"`
	EventSubject   string        `envconfig:"KERNEL_EVENT_SUBJECT"`
	RequestTimeout time.Duration `envconfig:"KERNEL_REQUEST_TIMEOUT" default:"25s"`

	// Prometheus listener, disabled when empty (e.g. "127.0.0.1:9090").
	MetricsAddr string `envconfig:"METRICS_ADDR"`

	// Logging
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// COMMSEnabled reports whether the COMMS bridge should be started.
func (c *Config) COMMSEnabled() bool {
	return c.COMMSURL != ""
}

// ValidateForServe checks required config when running the kernel server.
func (c *Config) ValidateForServe() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("%s - KERNEL_PORT must be between 0 and 65535, got %d", logPrefix, c.Port)
	}
	if c.ReadHeaderTimeout <= 0 {
		return fmt.Errorf("%s - HTTP_READ_HEADER_TIMEOUT must be positive", logPrefix)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("%s - SHUTDOWN_TIMEOUT must be positive", logPrefix)
	}
	if c.COMMSEnabled() && c.RequestTimeout <= 0 {
		return fmt.Errorf("%s - KERNEL_REQUEST_TIMEOUT must be positive", logPrefix)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%s - LOG_LEVEL must be one of debug, info, warn, error, got %q", logPrefix, c.LogLevel)
	}
	return nil
}
