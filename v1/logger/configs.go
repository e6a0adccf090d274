package logger

const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

// Config controls level, service identity and trace correlation of the logger.
type Config struct {
	// 1. production -> INFO
	// 2. development -> DEBUG
	// else -> INFO
	Level string `yaml:"level" envconfig:"ZAP_LOGGER_LEVEL"`

	// ServiceName is attached to every entry as "service".
	ServiceName string `yaml:"service_name" envconfig:"ZAP_LOGGER_SERVICE_NAME"`

	// EnableTracing adds trace_id and span_id to entries logged through
	// the *WithContext methods.
	EnableTracing bool `yaml:"enable_tracing" envconfig:"ZAP_LOGGER_ENABLE_TRACING"`
}

// DefaultConfig logs at info level for the vectordb-proxy service.
func DefaultConfig() Config {
	return Config{
		Level:         Info,
		ServiceName:   "vectordb-proxy",
		EnableTracing: true,
	}
}
