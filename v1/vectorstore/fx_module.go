package vectorstore

import (
	"context"

	"go.uber.org/fx"

	"github.com/agentcloud/vectordb-proxy/v1/logger"
	"github.com/agentcloud/vectordb-proxy/v1/observability"
	"github.com/agentcloud/vectordb-proxy/v1/tracer"
	"github.com/agentcloud/vectordb-proxy/v1/vectordb"
)

// FXModule provides the configured backend as vectorstore.Database and
// vectordb.VectorDatabase, selected by Config.Type.
//
// Usage:
//
//	app := fx.New(
//	    logger.FXModule,
//	    vectorstore.FXModule,
//	    fx.Provide(func() vectorstore.Config {
//	        return vectorstore.QdrantConfig(qdrant.DefaultConfig())
//	    }),
//	)
var FXModule = fx.Module("vectorstore",
	fx.Provide(
		NewClientWithDI,
		func(db Database) vectordb.VectorDatabase { return db },
	),
	fx.Invoke(RegisterVectorStoreLifecycle),
)

// VectorStoreParams groups the dependencies of NewClientWithDI.
type VectorStoreParams struct {
	fx.In

	Config   Config
	Logger   *logger.Logger         `optional:"true"`
	Tracer   *tracer.Tracer         `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewClientWithDI creates the backend selected by Config.Type.
func NewClientWithDI(p VectorStoreParams) (Database, error) {
	return New(p.Config, Options{Logger: p.Logger, Tracer: p.Tracer, Observer: p.Observer})
}

// VectorStoreLifecycleParams groups the dependencies of the lifecycle hook.
type VectorStoreLifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Database  Database
	Logger    *logger.Logger `optional:"true"`
}

// RegisterVectorStoreLifecycle closes the backend connection on stop.
func RegisterVectorStoreLifecycle(p VectorStoreLifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if p.Logger != nil {
				p.Logger.Info("vector database client initialized", nil, nil)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if p.Logger != nil {
				p.Logger.Info("shutting down vector database client", nil, nil)
			}
			return p.Database.Close()
		},
	})
}
