package tracer

import (
	"context"

	"go.uber.org/fx"

	"github.com/agentcloud/vectordb-proxy/v1/logger"
)

// FXModule provides *Tracer and shuts the provider down on stop so pending
// spans are flushed.
//
// Usage:
//
//	app := fx.New(
//	    logger.FXModule,
//	    tracer.FXModule,
//	    // other modules...
//	)
var FXModule = fx.Module("tracer",
	fx.Provide(
		func(cfg Config, log *logger.Logger) *Tracer { return NewClient(cfg, log) },
	),
	fx.Invoke(RegisterTracerLifecycle),
)

// RegisterTracerLifecycle registers the shutdown hook for the tracer.
func RegisterTracerLifecycle(lc fx.Lifecycle, tracer *Tracer) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if tracer == nil || tracer.tracer == nil {
				return nil
			}
			tracer.logger.Info("shutting down tracer", nil, nil)
			return tracer.Shutdown(ctx)
		},
	})
}
