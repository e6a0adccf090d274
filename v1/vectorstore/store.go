package vectorstore

import (
	"github.com/agentcloud/vectordb-proxy/v1/logger"
	"github.com/agentcloud/vectordb-proxy/v1/observability"
	"github.com/agentcloud/vectordb-proxy/v1/pinecone"
	"github.com/agentcloud/vectordb-proxy/v1/qdrant"
	"github.com/agentcloud/vectordb-proxy/v1/tracer"
	"github.com/agentcloud/vectordb-proxy/v1/vectordb"
)

// Database is a VectorDatabase that holds a backend connection.
type Database interface {
	vectordb.VectorDatabase
	Close() error
}

// Options carries the optional collaborators of New.
type Options struct {
	Logger   *logger.Logger
	Tracer   *tracer.Tracer
	Observer observability.Observer
}

// New connects to the backend selected by cfg.Type. The result is wrapped
// in a TracedDatabase when a tracer is given.
func New(cfg Config, opts Options) (Database, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var log vectordb.Logger = vectordb.NopLogger{}
	if opts.Logger != nil {
		log = opts.Logger
	}

	var db Database
	switch cfg.Type {
	case TypePinecone:
		client, err := pinecone.NewPineconeClient(pinecone.PineconeParams{Config: cfg.Pinecone})
		if err != nil {
			return nil, err
		}
		db = pinecone.NewAdapter(client,
			pinecone.WithPlacement(cfg.Placement),
			pinecone.WithBatchSize(cfg.Pinecone.BatchSize),
			pinecone.WithLogger(log),
		).WithObserver(opts.Observer)

	case TypeQdrant:
		client, err := qdrant.NewQdrantClient(qdrant.QdrantParams{Config: cfg.Qdrant})
		if err != nil {
			return nil, err
		}
		db = qdrant.NewAdapter(client.API(),
			qdrant.WithCloser(client),
			qdrant.WithBatchSize(cfg.Qdrant.BatchSize),
			qdrant.WithLogger(log),
		).WithObserver(opts.Observer)
	}

	if opts.Tracer != nil {
		return NewTracedDatabase(db, cfg.Type, opts.Tracer, opts.Logger), nil
	}
	return db, nil
}
