package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/agentcloud/vectordb-proxy/internal/config"
	"github.com/agentcloud/vectordb-proxy/v1/ingest"
	"github.com/agentcloud/vectordb-proxy/v1/logger"
	"github.com/agentcloud/vectordb-proxy/v1/metrics"
	"github.com/agentcloud/vectordb-proxy/v1/tracer"
	"github.com/agentcloud/vectordb-proxy/v1/vectorstore"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the ingestion service with metrics and tracing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			app := fx.New(appOptions(cfg)...)
			if err := app.Err(); err != nil {
				return err
			}
			app.Run()
			return nil
		},
	}
}

// appOptions wires every module of the service from cfg.
func appOptions(cfg *config.Config) []fx.Option {
	return []fx.Option{
		fx.Supply(cfg.Logger, cfg.Metrics, cfg.Tracer, cfg.VectorDB, cfg.Ingest),
		fx.WithLogger(func(l *logger.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Zap}
		}),
		logger.FXModule,
		metrics.FXModule,
		tracer.FXModule,
		vectorstore.FXModule,
		ingest.FXModule,
	}
}
