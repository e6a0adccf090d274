package ingest

import (
	"encoding/json"

	"github.com/agentcloud/vectordb-proxy/v1/vectordb"
)

// Message is the JSON body of one ingestion delivery: embedded documents
// bound for a single collection.
//
//	{
//	  "collection": "docs",
//	  "region": "EU",
//	  "cloud": "AWS",
//	  "documents": [{"id": "a", "text": "hello", "vector": [0.1, 0.2]}]
//	}
type Message struct {
	Collection string              `json:"collection"`
	Region     *vectordb.Region    `json:"region,omitempty"`
	Cloud      *vectordb.Cloud     `json:"cloud,omitempty"`
	Documents  []vectordb.Document `json:"documents"`
}

// Decode parses body. Malformed JSON is an Other-kind error so the
// delivery is discarded rather than redelivered.
func Decode(body []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(body, &msg); err != nil {
		return Message{}, vectordb.NewOtherError("decode ingest message: %v", err)
	}
	return msg, nil
}

// Validate reports the first structural problem with the message.
func (m Message) Validate() error {
	if m.Collection == "" {
		return vectordb.NewOtherError("ingest message has no collection")
	}
	for i, d := range m.Documents {
		if len(d.Vector) == 0 {
			return vectordb.NewOtherError("ingest document %d has no vector", i)
		}
	}
	return nil
}

func (m Message) request() vectordb.SearchRequest {
	return vectordb.SearchRequest{
		SearchType: vectordb.SearchTypePoint,
		Collection: m.Collection,
		Region:     m.Region,
		Cloud:      m.Cloud,
	}
}
