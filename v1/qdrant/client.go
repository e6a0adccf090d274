package qdrant

import (
	"context"
	"fmt"
	"log"

	qdrant "github.com/qdrant/go-client/qdrant"
)

//
// ──────────────────────────────────────────────────────────────
//   QDRANT CLIENT WRAPPER
// ──────────────────────────────────────────────────────────────
//
// Thin wrapper around the official Qdrant Go client. It owns the gRPC
// connection, validates connectivity on construction and hands the SDK
// to the Adapter through the narrow API interface.
//

// API is the subset of *qdrant.Client the adapter calls. The SDK client
// satisfies it as is.
type API interface {
	ListCollections(ctx context.Context) ([]string, error)
	CollectionExists(ctx context.Context, collectionName string) (bool, error)
	GetCollectionInfo(ctx context.Context, collectionName string) (*qdrant.CollectionInfo, error)
	CreateCollection(ctx context.Context, request *qdrant.CreateCollection) error
	DeleteCollection(ctx context.Context, collectionName string) error
	Upsert(ctx context.Context, request *qdrant.UpsertPoints) (*qdrant.UpdateResult, error)
	Query(ctx context.Context, request *qdrant.QueryPoints) ([]*qdrant.ScoredPoint, error)
	Scroll(ctx context.Context, request *qdrant.ScrollPoints) ([]*qdrant.RetrievedPoint, error)
	Count(ctx context.Context, request *qdrant.CountPoints) (uint64, error)
}

var _ API = (*qdrant.Client)(nil)

// QdrantClient wraps the official Qdrant Go client.
type QdrantClient struct {
	api     *qdrant.Client
	cfg     *Config
	started bool
}

// NewQdrantClient constructs a QdrantClient and validates connectivity via
// a health check. The SDK dials lazily, so the check is what fails fast
// when the service is unreachable.
//
// Example:
//
//	client, err := qdrant.NewQdrantClient(qdrant.QdrantParams{Config: cfg})
func NewQdrantClient(p QdrantParams) (*QdrantClient, error) {
	cfg := p.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}
	port := cfg.Port
	if port == 0 {
		port = defaultPort
	}
	log.Printf("[Qdrant] Connecting to endpoint: %s:%d", cfg.Endpoint, port)

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:                   cfg.Endpoint,
		Port:                   port,
		APIKey:                 cfg.ApiKey,
		UseTLS:                 cfg.UseTLS,
		SkipCompatibilityCheck: !cfg.CheckCompatibility,
	})
	if err != nil {
		return nil, fmt.Errorf("[Qdrant] failed to initialize client: %w", err)
	}

	qc := &QdrantClient{
		api:     client,
		cfg:     cfg,
		started: true,
	}

	if err := qc.healthCheck(); err != nil {
		_ = client.Close()
		return nil, err
	}

	log.Println("[Qdrant] Client connected successfully")
	return qc, nil
}

func (c *QdrantClient) healthCheck() error {
	timeout := c.cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := c.api.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("[Qdrant] health check failed: %w", err)
	}

	log.Printf("[Qdrant] Health check passed (title=%s, version=%s, endpoint=%s)", resp.GetTitle(), resp.GetVersion(), c.cfg.Endpoint)
	return nil
}

// API returns the SDK client as the adapter's API.
func (c *QdrantClient) API() API {
	return c.api
}

// Close closes the gRPC connection. Safe to call more than once.
func (c *QdrantClient) Close() error {
	if !c.started {
		return nil
	}
	c.started = false

	log.Println("[Qdrant] closing client")
	return c.api.Close()
}
