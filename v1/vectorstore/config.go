package vectorstore

import (
	"fmt"

	"github.com/agentcloud/vectordb-proxy/v1/pinecone"
	"github.com/agentcloud/vectordb-proxy/v1/qdrant"
	"github.com/agentcloud/vectordb-proxy/v1/vectordb"
)

const (
	TypePinecone = "pinecone"
	TypeQdrant   = "qdrant"
)

// Config selects and configures the vector database backend.
// Use one of the helper functions (PineconeConfig, QdrantConfig) to create it.
type Config struct {
	// Type is the backend type ("pinecone" or "qdrant").
	Type string `yaml:"type" envconfig:"VECTORDB_TYPE"`

	// Pinecone configuration (used when Type = "pinecone").
	Pinecone *pinecone.Config `yaml:"pinecone"`

	// Qdrant configuration (used when Type = "qdrant").
	Qdrant *qdrant.Config `yaml:"qdrant"`

	// Placement used when a request carries no region or cloud.
	Placement vectordb.PlacementPolicy `yaml:"placement"`
}

// PineconeConfig creates a vectorstore.Config for Pinecone.
//
// Example:
//
//	fx.Provide(func() vectorstore.Config {
//	    return vectorstore.PineconeConfig(pinecone.DefaultConfig().WithApiKey(key))
//	})
func PineconeConfig(cfg *pinecone.Config) Config {
	return Config{
		Type:      TypePinecone,
		Pinecone:  cfg,
		Placement: vectordb.DefaultPlacementPolicy,
	}
}

// QdrantConfig creates a vectorstore.Config for a self-hosted Qdrant.
func QdrantConfig(cfg *qdrant.Config) Config {
	return Config{
		Type:      TypeQdrant,
		Qdrant:    cfg,
		Placement: vectordb.DefaultPlacementPolicy,
	}
}

// Validate reports a missing or mismatched backend section.
func (c Config) Validate() error {
	switch c.Type {
	case TypePinecone:
		if c.Pinecone == nil {
			return fmt.Errorf("pinecone config is required when type=pinecone")
		}
		if c.Pinecone.ApiKey == "" {
			return fmt.Errorf("pinecone api key is required when type=pinecone")
		}
	case TypeQdrant:
		if c.Qdrant == nil {
			return fmt.Errorf("qdrant config is required when type=qdrant")
		}
		if c.Qdrant.Endpoint == "" {
			return fmt.Errorf("qdrant endpoint is required when type=qdrant")
		}
	default:
		return fmt.Errorf("unsupported vector database type: %q (must be 'pinecone' or 'qdrant')", c.Type)
	}
	return nil
}
