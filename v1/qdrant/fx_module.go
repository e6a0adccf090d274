package qdrant

import (
	"context"

	"go.uber.org/fx"

	"github.com/agentcloud/vectordb-proxy/v1/observability"
	"github.com/agentcloud/vectordb-proxy/v1/vectordb"
)

// FXModule provides the Qdrant client and an Adapter exposed as
// vectordb.VectorDatabase, and closes the connection on shutdown.
var FXModule = fx.Module("qdrant",
	fx.Provide(
		NewQdrantClient,
		NewAdapterWithDI,
		func(a *Adapter) vectordb.VectorDatabase { return a },
	),
	fx.Invoke(RegisterQdrantLifecycle),
)

// QdrantParams groups the dependencies of NewQdrantClient.
type QdrantParams struct {
	fx.In

	Config *Config
}

// AdapterParams groups the dependencies of NewAdapterWithDI.
type AdapterParams struct {
	fx.In

	Client   *QdrantClient
	Config   *Config
	Logger   vectordb.Logger        `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

func NewAdapterWithDI(p AdapterParams) *Adapter {
	opts := []Option{WithCloser(p.Client), WithLogger(p.Logger)}
	if p.Config != nil {
		opts = append(opts, WithBatchSize(p.Config.BatchSize))
	}
	return NewAdapter(p.Client.API(), opts...).WithObserver(p.Observer)
}

// RegisterQdrantLifecycle closes the client when the app stops.
func RegisterQdrantLifecycle(lc fx.Lifecycle, a *Adapter) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return a.Close()
		},
	})
}
