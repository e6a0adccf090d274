package qdrant

import (
	"time"
)

// Config holds connection and behavior settings for the Qdrant client.
//
// Example (programmatic):
//
//	cfg := qdrant.DefaultConfig()
//	cfg.Endpoint = "qdrant.internal"
//	cfg.ApiKey = os.Getenv("QDRANT_API_KEY")
//
// Example (builder style):
//
//	cfg := qdrant.FromEndpoint("qdrant.internal").
//	    WithApiKey(os.Getenv("QDRANT_API_KEY")).
//	    WithBatchSize(500)
type Config struct {
	// Hostname of the Qdrant server, e.g. "localhost".
	Endpoint string `yaml:"endpoint" envconfig:"QDRANT_ENDPOINT"`

	// gRPC port of the Qdrant server. Defaults to 6334.
	Port int `yaml:"port" envconfig:"QDRANT_PORT"`

	// Optional authentication token for secured deployments.
	ApiKey string `yaml:"api_key" envconfig:"QDRANT_API_KEY"`

	// Use TLS for the gRPC connection.
	UseTLS bool `yaml:"use_tls" envconfig:"QDRANT_USE_TLS"`

	// Timeout of the health check run at construction.
	ConnectTimeout time.Duration `yaml:"connect_timeout" envconfig:"QDRANT_CONNECT_TIMEOUT"`

	// Maximum number of points per upsert request.
	BatchSize int `yaml:"batch_size" envconfig:"QDRANT_BATCH_SIZE"`

	// Whether to perform version compatibility checks between client and server.
	CheckCompatibility bool `yaml:"check_compatibility" envconfig:"QDRANT_CHECK_COMPATIBILITY"`
}

const (
	defaultPort           = 6334
	defaultBatchSize      = 200
	defaultConnectTimeout = 3 * time.Second
)

// DefaultConfig provides sensible defaults for most use cases.
func DefaultConfig() *Config {
	return &Config{
		Endpoint:           "localhost",
		Port:               defaultPort,
		ConnectTimeout:     defaultConnectTimeout,
		BatchSize:          defaultBatchSize,
		CheckCompatibility: true,
	}
}

// FromEndpoint returns a default config pre-filled with a specific endpoint.
func FromEndpoint(host string) *Config {
	cfg := DefaultConfig()
	cfg.Endpoint = host
	return cfg
}

func (c *Config) WithApiKey(key string) *Config {
	c.ApiKey = key
	return c
}

func (c *Config) WithPort(port int) *Config {
	c.Port = port
	return c
}

func (c *Config) WithTLS(enabled bool) *Config {
	c.UseTLS = enabled
	return c
}

func (c *Config) WithConnectTimeout(d time.Duration) *Config {
	c.ConnectTimeout = d
	return c
}

func (c *Config) WithBatchSize(n int) *Config {
	c.BatchSize = n
	return c
}

func (c *Config) WithCompatibilityCheck(enabled bool) *Config {
	c.CheckCompatibility = enabled
	return c
}
