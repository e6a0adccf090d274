package pinecone

import "time"

// Config holds connection and behavior settings for the Pinecone client.
//
// Example (builder style):
//
//	cfg := pinecone.DefaultConfig().
//	    WithApiKey(os.Getenv("PINECONE_API_KEY")).
//	    WithBatchSize(50)
type Config struct {
	// API key of the Pinecone project.
	ApiKey string `yaml:"api_key" envconfig:"PINECONE_API_KEY"`

	// Optional control-plane host override, e.g. for a local emulator.
	Host string `yaml:"host" envconfig:"PINECONE_HOST"`

	// Source tag reported to Pinecone for attribution.
	SourceTag string `yaml:"source_tag" envconfig:"PINECONE_SOURCE_TAG"`

	// Maximum number of vectors per upsert request.
	BatchSize int `yaml:"batch_size" envconfig:"PINECONE_BATCH_SIZE"`

	// Timeout of the connectivity check run at construction.
	ConnectTimeout time.Duration `yaml:"connect_timeout" envconfig:"PINECONE_CONNECT_TIMEOUT"`

	// Skip the connectivity check (offline tooling, tests).
	SkipHealthCheck bool `yaml:"skip_health_check" envconfig:"PINECONE_SKIP_HEALTH_CHECK"`
}

const (
	defaultBatchSize      = 100
	defaultConnectTimeout = 5 * time.Second
)

// DefaultConfig provides sensible defaults for most use cases.
func DefaultConfig() *Config {
	return &Config{
		SourceTag:      "vectordb_proxy",
		BatchSize:      defaultBatchSize,
		ConnectTimeout: defaultConnectTimeout,
	}
}

func (c *Config) WithApiKey(key string) *Config {
	c.ApiKey = key
	return c
}

func (c *Config) WithHost(host string) *Config {
	c.Host = host
	return c
}

func (c *Config) WithBatchSize(n int) *Config {
	c.BatchSize = n
	return c
}

func (c *Config) WithConnectTimeout(d time.Duration) *Config {
	c.ConnectTimeout = d
	return c
}
