// Package config loads the vectordb-proxy configuration from a YAML file
// and VDBP_* environment variables.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/agentcloud/vectordb-proxy/v1/ingest"
	"github.com/agentcloud/vectordb-proxy/v1/logger"
	"github.com/agentcloud/vectordb-proxy/v1/metrics"
	"github.com/agentcloud/vectordb-proxy/v1/pinecone"
	"github.com/agentcloud/vectordb-proxy/v1/qdrant"
	"github.com/agentcloud/vectordb-proxy/v1/tracer"
	"github.com/agentcloud/vectordb-proxy/v1/vectordb"
	"github.com/agentcloud/vectordb-proxy/v1/vectorstore"
)

// EnvPrefix prefixes every environment override. A key such as
// vectordb.qdrant.endpoint is read from VDBP_VECTORDB_QDRANT_ENDPOINT.
const EnvPrefix = "VDBP"

// Config is the complete service configuration.
type Config struct {
	Logger   logger.Config      `yaml:"logger"`
	Metrics  metrics.Config     `yaml:"metrics"`
	Tracer   tracer.Config      `yaml:"tracer"`
	VectorDB vectorstore.Config `yaml:"vectordb"`
	Ingest   ingest.Config      `yaml:"ingest"`
}

// Default returns a configuration for a local Qdrant with ingestion disabled.
func Default() *Config {
	return &Config{
		Logger:  logger.DefaultConfig(),
		Metrics: metrics.DefaultConfig(),
		Tracer:  tracer.DefaultConfig(),
		VectorDB: vectorstore.Config{
			Type:      vectorstore.TypeQdrant,
			Pinecone:  pinecone.DefaultConfig(),
			Qdrant:    qdrant.DefaultConfig(),
			Placement: vectordb.DefaultPlacementPolicy,
		},
		Ingest: ingest.DefaultConfig(),
	}
}

// Load reads path (when non-empty) over the defaults, then applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about.
	for _, key := range keys(reflect.TypeOf(Config{}), "") {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env for %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg, decoderOptions); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decoderOptions(dc *mapstructure.DecoderConfig) {
	dc.TagName = "yaml"
	dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// Validate checks the sections that are in use.
func (c *Config) Validate() error {
	var errs []error
	switch c.Logger.Level {
	case logger.Debug, logger.Info, logger.Warning, logger.Error:
	default:
		errs = append(errs, fmt.Errorf("logger: unknown level %q", c.Logger.Level))
	}
	if err := c.VectorDB.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("vectordb: %w", err))
	}
	if err := c.Ingest.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// keys lists the dotted yaml paths of every leaf field under t.
func keys(t reflect.Type, prefix string) []string {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	var out []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			continue
		}
		key := prefix + name

		ft := f.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if ft.Kind() == reflect.Struct && ft.NumField() > 0 && !implementsText(ft) {
			out = append(out, keys(ft, key+".")...)
			continue
		}
		out = append(out, key)
	}
	return out
}

func implementsText(t reflect.Type) bool {
	return reflect.PointerTo(t).Implements(reflect.TypeFor[interface{ UnmarshalText([]byte) error }]())
}
