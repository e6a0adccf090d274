package pinecone

import (
	"context"
	"fmt"
	"log"

	pinecone "github.com/pinecone-io/go-pinecone/v3/pinecone"
	"google.golang.org/protobuf/types/known/structpb"
)

//
// ──────────────────────────────────────────────────────────────
//   PINECONE CLIENT WRAPPER
// ──────────────────────────────────────────────────────────────
//
// Thin wrapper around the official Pinecone Go SDK implementing Backend.
// It converts SDK types at the edge so the adapter never sees them, and
// re-resolves index hosts on every data-plane call.
//

// PineconeClient implements Backend over *pinecone.Client.
type PineconeClient struct {
	api *pinecone.Client
	cfg *Config
}

// NewPineconeClient builds the SDK client and, unless disabled, verifies
// the API key by listing indexes.
//
// Example:
//
//	client, err := pinecone.NewPineconeClient(pinecone.PineconeParams{Config: cfg})
func NewPineconeClient(p PineconeParams) (*PineconeClient, error) {
	cfg := p.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.ApiKey == "" {
		return nil, fmt.Errorf("[Pinecone] api key is required")
	}

	params := pinecone.NewClientParams{
		ApiKey:    cfg.ApiKey,
		SourceTag: cfg.SourceTag,
	}
	if cfg.Host != "" {
		params.Host = cfg.Host
	}

	api, err := pinecone.NewClient(params)
	if err != nil {
		return nil, fmt.Errorf("[Pinecone] failed to initialize client: %w", err)
	}

	c := &PineconeClient{api: api, cfg: cfg}
	if cfg.SkipHealthCheck {
		return c, nil
	}
	if err := c.healthCheck(); err != nil {
		return nil, err
	}

	log.Println("[Pinecone] Client connected successfully")
	return c, nil
}

func (c *PineconeClient) healthCheck() error {
	timeout := c.cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	indexes, err := c.api.ListIndexes(ctx)
	if err != nil {
		return fmt.Errorf("[Pinecone] health check failed: %w", err)
	}
	log.Printf("[Pinecone] Health check passed (indexes=%d)", len(indexes))
	return nil
}

// Close is a no-op; the SDK's control plane is plain HTTP.
func (c *PineconeClient) Close() error {
	return nil
}

func (c *PineconeClient) ListIndexes(ctx context.Context) ([]IndexModel, error) {
	indexes, err := c.api.ListIndexes(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]IndexModel, 0, len(indexes))
	for _, idx := range indexes {
		if idx != nil {
			out = append(out, toIndexModel(idx))
		}
	}
	return out, nil
}

func (c *PineconeClient) DescribeIndex(ctx context.Context, name string) (IndexModel, error) {
	idx, err := c.api.DescribeIndex(ctx, name)
	if err != nil {
		return IndexModel{}, err
	}
	return toIndexModel(idx), nil
}

func (c *PineconeClient) CreateServerlessIndex(ctx context.Context, req CreateIndexRequest) (IndexModel, error) {
	protection := pinecone.DeletionProtectionDisabled
	if req.DeletionProtection {
		protection = pinecone.DeletionProtectionEnabled
	}
	metric := req.Metric
	dimension := req.Dimension

	idx, err := c.api.CreateServerlessIndex(ctx, &pinecone.CreateServerlessIndexRequest{
		Name:               req.Name,
		Cloud:              req.Cloud,
		Region:             req.Region,
		Metric:             &metric,
		Dimension:          &dimension,
		DeletionProtection: &protection,
	})
	if err != nil {
		return IndexModel{}, err
	}
	log.Printf("[Pinecone] Create requested for index '%s' (cloud=%s, region=%s)", req.Name, req.Cloud, req.Region)
	return toIndexModel(idx), nil
}

func (c *PineconeClient) Index(ctx context.Context, name, namespace string) (IndexHandle, error) {
	idx, err := c.api.DescribeIndex(ctx, name)
	if err != nil {
		return nil, err
	}
	conn, err := c.api.Index(pinecone.NewIndexConnParams{Host: idx.Host, Namespace: namespace})
	if err != nil {
		return nil, fmt.Errorf("open index '%s': %w", name, err)
	}
	return &indexConnection{conn: conn}, nil
}

func toIndexModel(idx *pinecone.Index) IndexModel {
	m := IndexModel{
		Name:   idx.Name,
		Host:   idx.Host,
		Metric: idx.Metric,
	}
	if idx.Dimension != nil {
		m.Dimension = *idx.Dimension
	}
	if idx.Spec != nil && idx.Spec.Serverless != nil {
		m.Cloud = idx.Spec.Serverless.Cloud
		m.Region = idx.Spec.Serverless.Region
	}
	return m
}

// indexConnection implements IndexHandle over *pinecone.IndexConnection.
type indexConnection struct {
	conn *pinecone.IndexConnection
}

func (h *indexConnection) DescribeStats(ctx context.Context) (IndexStats, error) {
	resp, err := h.conn.DescribeIndexStats(ctx)
	if err != nil {
		return IndexStats{}, err
	}
	stats := IndexStats{
		TotalVectorCount: resp.TotalVectorCount,
		Namespaces:       make(map[string]NamespaceStats, len(resp.Namespaces)),
	}
	for name, ns := range resp.Namespaces {
		if ns != nil {
			stats.Namespaces[name] = NamespaceStats{VectorCount: ns.VectorCount}
		}
	}
	return stats, nil
}

func (h *indexConnection) Upsert(ctx context.Context, vectors []Vector) (uint32, error) {
	batch := make([]*pinecone.Vector, 0, len(vectors))
	for _, v := range vectors {
		values := v.Values
		batch = append(batch, &pinecone.Vector{
			Id:       v.ID,
			Values:   &values,
			Metadata: (*pinecone.Metadata)(v.Metadata),
		})
	}
	return h.conn.UpsertVectors(ctx, batch)
}

func (h *indexConnection) DeleteAll(ctx context.Context) error {
	return h.conn.DeleteAllVectorsInNamespace(ctx)
}

func (h *indexConnection) Query(ctx context.Context, q Query) ([]Match, error) {
	req := &pinecone.QueryByVectorValuesRequest{
		Vector:          q.Vector,
		TopK:            q.TopK,
		IncludeValues:   q.IncludeValues,
		IncludeMetadata: q.IncludeMetadata,
	}
	if q.Filter != nil {
		req.MetadataFilter = (*pinecone.MetadataFilter)(q.Filter)
	}

	resp, err := h.conn.QueryByVectorValues(ctx, req)
	if err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		if m == nil || m.Vector == nil {
			continue
		}
		match := Match{ID: m.Vector.Id, Score: m.Score, Metadata: (*structpb.Struct)(m.Vector.Metadata)}
		if m.Vector.Values != nil {
			match.Values = *m.Vector.Values
		}
		matches = append(matches, match)
	}
	return matches, nil
}

func (h *indexConnection) Close() error {
	return h.conn.Close()
}

var _ Backend = (*PineconeClient)(nil)
