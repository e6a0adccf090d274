package pinecone

import (
	"context"

	"go.uber.org/fx"

	"github.com/agentcloud/vectordb-proxy/v1/observability"
	"github.com/agentcloud/vectordb-proxy/v1/vectordb"
)

// FXModule provides the Pinecone client, its Backend interface and an
// Adapter exposed as vectordb.VectorDatabase.
//
// Usage:
//
//	app := fx.New(
//	    pinecone.FXModule,
//	    fx.Provide(func() *pinecone.Config {
//	        return pinecone.DefaultConfig().WithApiKey(os.Getenv("PINECONE_API_KEY"))
//	    }),
//	)
var FXModule = fx.Module("pinecone",
	fx.Provide(
		NewPineconeClient,
		func(c *PineconeClient) Backend { return c },
		NewAdapterWithDI,
		func(a *Adapter) vectordb.VectorDatabase { return a },
	),
	fx.Invoke(RegisterPineconeLifecycle),
)

// PineconeParams groups the dependencies of NewPineconeClient.
type PineconeParams struct {
	fx.In

	Config *Config
}

// AdapterParams groups the dependencies of NewAdapterWithDI. Placement,
// Logger and Observer are optional.
type AdapterParams struct {
	fx.In

	Backend   Backend
	Config    *Config
	Placement *vectordb.PlacementPolicy `optional:"true"`
	Logger    vectordb.Logger           `optional:"true"`
	Observer  observability.Observer    `optional:"true"`
}

// NewAdapterWithDI builds an Adapter from injected dependencies.
func NewAdapterWithDI(p AdapterParams) *Adapter {
	opts := []Option{WithLogger(p.Logger)}
	if p.Config != nil {
		opts = append(opts, WithBatchSize(p.Config.BatchSize))
	}
	if p.Placement != nil {
		opts = append(opts, WithPlacement(*p.Placement))
	}
	return NewAdapter(p.Backend, opts...).WithObserver(p.Observer)
}

// RegisterPineconeLifecycle closes the adapter on shutdown.
func RegisterPineconeLifecycle(lc fx.Lifecycle, a *Adapter) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return a.Close()
		},
	})
}
