package server

import (
	"time"

	"github.com/agentstation/roster/pkg/constants"
)

// Config holds server configuration.
type Config struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`

	// PathPrefix is where the API is mounted.
	PathPrefix string `mapstructure:"path_prefix" yaml:"path_prefix"`

	// CORSOrigins lists allowed origins. Empty disables CORS headers; "*"
	// allows any origin.
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`

	// APIKey guards the mutating endpoints (reload and merge) when set.
	APIKey string `mapstructure:"api_key" yaml:"api_key,omitempty"`

	// CacheTTL bounds how long a loaded master is served before it is
	// read again.
	CacheTTL time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`

	// MaxUploadBytes limits the size of a merge upload.
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes" yaml:"max_upload_bytes"`

	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:           "localhost",
		Port:           8080,
		PathPrefix:     "/api/v1",
		CacheTTL:       constants.CacheTTL,
		MaxUploadBytes: 32 << 20,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    120 * time.Second,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Host == "" {
		c.Host = d.Host
	}
	if c.Port == 0 {
		c.Port = d.Port
	}
	if c.PathPrefix == "" {
		c.PathPrefix = d.PathPrefix
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = d.CacheTTL
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = d.MaxUploadBytes
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = d.ReadTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = d.IdleTimeout
	}
	return c
}
