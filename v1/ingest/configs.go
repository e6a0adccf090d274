package ingest

import (
	"fmt"
	"time"
)

const (
	SourceNone   = ""
	SourceRabbit = "rabbit"
	SourceKafka  = "kafka"
)

const (
	defaultConcurrency      = 4
	defaultBatchSize        = 100
	defaultRetryDelay       = time.Second
	defaultDelayToReconnect = 2 * time.Second
	defaultMaxBytes         = 10e6
	defaultMaxWait          = 500 * time.Millisecond
)

// Config selects and tunes the ingestion consumer. An empty Source
// disables ingestion.
type Config struct {
	// Source is "rabbit", "kafka" or empty.
	Source string `yaml:"source" envconfig:"INGEST_SOURCE"`

	// Concurrency is the number of workers processing deliveries.
	Concurrency int `yaml:"concurrency" envconfig:"INGEST_CONCURRENCY"`

	// BatchSize caps the points per BulkInsertPoints call.
	BatchSize int `yaml:"batch_size" envconfig:"INGEST_BATCH_SIZE"`

	// RetryDelay is waited before a delivery is handed back for redelivery.
	RetryDelay time.Duration `yaml:"retry_delay" envconfig:"INGEST_RETRY_DELAY"`

	Rabbit RabbitConfig `yaml:"rabbit"`
	Kafka  KafkaConfig  `yaml:"kafka"`
}

// RabbitConfig describes the connection and the queue topology the
// consumer declares before it starts consuming.
type RabbitConfig struct {
	Host     string `yaml:"host" envconfig:"RABBITMQ_HOST"`
	Port     uint   `yaml:"port" envconfig:"RABBITMQ_PORT"`
	User     string `yaml:"user" envconfig:"RABBITMQ_USER"`
	Password string `yaml:"password" envconfig:"RABBITMQ_PASSWORD"`

	// IsSSLEnabled switches the scheme to amqps.
	IsSSLEnabled bool `yaml:"ssl_enabled" envconfig:"RABBITMQ_SSL_ENABLED"`
	// UseCert sends a client certificate; requires IsSSLEnabled.
	UseCert        bool   `yaml:"use_cert" envconfig:"RABBITMQ_USE_CERT"`
	CACertPath     string `yaml:"ca_cert_path" envconfig:"RABBITMQ_CA_CERT_PATH"`
	ClientCertPath string `yaml:"client_cert_path" envconfig:"RABBITMQ_CLIENT_CERT_PATH"`
	ClientKeyPath  string `yaml:"client_key_path" envconfig:"RABBITMQ_CLIENT_KEY_PATH"`
	ServerName     string `yaml:"server_name" envconfig:"RABBITMQ_SERVER_NAME"`

	ExchangeName string `yaml:"exchange_name" envconfig:"RABBITMQ_EXCHANGE_NAME"`
	// ExchangeType is one of direct, fanout, topic or headers.
	ExchangeType string `yaml:"exchange_type" envconfig:"RABBITMQ_EXCHANGE_TYPE"`
	RoutingKey   string `yaml:"routing_key" envconfig:"RABBITMQ_ROUTING_KEY"`
	QueueName    string `yaml:"queue_name" envconfig:"RABBITMQ_QUEUE_NAME"`

	// PrefetchCount limits unacknowledged deliveries; 0 means no limit.
	PrefetchCount int `yaml:"prefetch_count" envconfig:"RABBITMQ_PREFETCH_COUNT"`

	DelayToReconnect time.Duration `yaml:"delay_to_reconnect" envconfig:"RABBITMQ_DELAY_TO_RECONNECT"`

	DeadLetter DeadLetter `yaml:"dead_letter"`
}

// DeadLetter receives deliveries that are rejected without requeue.
// Dead lettering is only declared when ExchangeName is set.
type DeadLetter struct {
	ExchangeName string `yaml:"exchange_name" envconfig:"RABBITMQ_DLX_EXCHANGE_NAME"`
	QueueName    string `yaml:"queue_name" envconfig:"RABBITMQ_DLX_QUEUE_NAME"`
	RoutingKey   string `yaml:"routing_key" envconfig:"RABBITMQ_DLX_ROUTING_KEY"`
	// Ttl in seconds; 0 leaves messages on the main queue indefinitely.
	Ttl int `yaml:"ttl" envconfig:"RABBITMQ_DLX_TTL"`
}

// KafkaConfig describes the topic the consumer reads. Offsets are
// committed explicitly after a delivery is acked.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers" envconfig:"KAFKA_BROKERS"`
	Topic   string   `yaml:"topic" envconfig:"KAFKA_TOPIC"`
	GroupID string   `yaml:"group_id" envconfig:"KAFKA_GROUP_ID"`

	// Partition is only used without a GroupID.
	Partition int `yaml:"partition" envconfig:"KAFKA_PARTITION"`

	MinBytes int           `yaml:"min_bytes" envconfig:"KAFKA_MIN_BYTES"`
	MaxBytes int           `yaml:"max_bytes" envconfig:"KAFKA_MAX_BYTES"`
	MaxWait  time.Duration `yaml:"max_wait" envconfig:"KAFKA_MAX_WAIT"`

	// StartOffset is -1 for the newest offset, -2 for the oldest.
	StartOffset int64 `yaml:"start_offset" envconfig:"KAFKA_START_OFFSET"`

	TLS  TLSConfig  `yaml:"tls"`
	SASL SASLConfig `yaml:"sasl"`
}

type TLSConfig struct {
	Enabled            bool   `yaml:"enabled" envconfig:"KAFKA_TLS_ENABLED"`
	CACertPath         string `yaml:"ca_cert_path" envconfig:"KAFKA_TLS_CA_CERT_PATH"`
	ClientCertPath     string `yaml:"client_cert_path" envconfig:"KAFKA_TLS_CLIENT_CERT_PATH"`
	ClientKeyPath      string `yaml:"client_key_path" envconfig:"KAFKA_TLS_CLIENT_KEY_PATH"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify" envconfig:"KAFKA_TLS_INSECURE_SKIP_VERIFY"`
}

type SASLConfig struct {
	Enabled bool `yaml:"enabled" envconfig:"KAFKA_SASL_ENABLED"`
	// Mechanism is PLAIN, SCRAM-SHA-256 or SCRAM-SHA-512.
	Mechanism string `yaml:"mechanism" envconfig:"KAFKA_SASL_MECHANISM"`
	Username  string `yaml:"username" envconfig:"KAFKA_SASL_USERNAME"`
	Password  string `yaml:"password" envconfig:"KAFKA_SASL_PASSWORD"`
}

// DefaultConfig returns a disabled consumer with the tuning defaults filled in.
func DefaultConfig() Config {
	return Config{
		Concurrency: defaultConcurrency,
		BatchSize:   defaultBatchSize,
		RetryDelay:  defaultRetryDelay,
		Rabbit: RabbitConfig{
			Port:             5672,
			ExchangeType:     "direct",
			PrefetchCount:    defaultConcurrency,
			DelayToReconnect: defaultDelayToReconnect,
		},
		Kafka: KafkaConfig{
			MinBytes:    1,
			MaxBytes:    defaultMaxBytes,
			MaxWait:     defaultMaxWait,
			StartOffset: -2,
		},
	}
}

func (c Config) Enabled() bool { return c.Source != SourceNone }

// Validate checks that the selected source has what it needs to connect.
func (c Config) Validate() error {
	switch c.Source {
	case SourceNone:
		return nil
	case SourceRabbit:
		if c.Rabbit.Host == "" {
			return fmt.Errorf("ingest: rabbit host is required")
		}
		if c.Rabbit.QueueName == "" {
			return fmt.Errorf("ingest: rabbit queue name is required")
		}
		if c.Rabbit.UseCert && !c.Rabbit.IsSSLEnabled {
			return fmt.Errorf("ingest: rabbit client certificates require ssl")
		}
	case SourceKafka:
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("ingest: kafka brokers are required")
		}
		if c.Kafka.Topic == "" {
			return fmt.Errorf("ingest: kafka topic is required")
		}
	default:
		return fmt.Errorf("ingest: unsupported source %q", c.Source)
	}
	if c.Concurrency < 0 || c.BatchSize < 0 {
		return fmt.Errorf("ingest: concurrency and batch size must not be negative")
	}
	return nil
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Concurrency == 0 {
		c.Concurrency = def.Concurrency
	}
	if c.BatchSize == 0 {
		c.BatchSize = def.BatchSize
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = def.RetryDelay
	}
	if c.Rabbit.Port == 0 {
		c.Rabbit.Port = def.Rabbit.Port
	}
	if c.Rabbit.ExchangeType == "" {
		c.Rabbit.ExchangeType = def.Rabbit.ExchangeType
	}
	if c.Rabbit.DelayToReconnect == 0 {
		c.Rabbit.DelayToReconnect = def.Rabbit.DelayToReconnect
	}
	if c.Kafka.MinBytes == 0 {
		c.Kafka.MinBytes = def.Kafka.MinBytes
	}
	if c.Kafka.MaxBytes == 0 {
		c.Kafka.MaxBytes = def.Kafka.MaxBytes
	}
	if c.Kafka.MaxWait == 0 {
		c.Kafka.MaxWait = def.Kafka.MaxWait
	}
	if c.Kafka.StartOffset == 0 {
		c.Kafka.StartOffset = def.Kafka.StartOffset
	}
	return c
}
