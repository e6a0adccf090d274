package tracer

// Config controls the tracer provider.
type Config struct {
	// ServiceName is recorded as the service.name resource attribute.
	ServiceName string `yaml:"service_name" envconfig:"TRACER_SERVICE_NAME"`

	// AppEnv is recorded as deployment.environment, e.g. "production".
	AppEnv string `yaml:"app_env" envconfig:"TRACER_APP_ENV"`

	// EnableExport sends spans to an OTLP/HTTP collector. When false spans
	// are created and propagated but never exported.
	EnableExport bool `yaml:"enable_export" envconfig:"TRACER_ENABLE_EXPORT"`

	// Endpoint is the collector host:port. Empty uses the OTEL_EXPORTER_OTLP_*
	// environment defaults.
	Endpoint string `yaml:"endpoint" envconfig:"TRACER_ENDPOINT"`

	// Insecure disables TLS towards the collector.
	Insecure bool `yaml:"insecure" envconfig:"TRACER_INSECURE"`
}

// DefaultConfig creates spans for vectordb-proxy without exporting them.
func DefaultConfig() Config {
	return Config{
		ServiceName: "vectordb-proxy",
		AppEnv:      "development",
	}
}
