package ingest

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/agentcloud/vectordb-proxy/v1/vectordb"
)

// documentIDNamespace derives ids for documents that arrive without one.
var documentIDNamespace = uuid.MustParse("a3d5c1e4-7f20-4b8e-9c61-2e4f8b0d7a95")

// Processor writes decoded messages into a vector database.
type Processor struct {
	db        vectordb.VectorDatabase
	batchSize int
	logger    vectordb.Logger
}

// NewProcessor returns a Processor inserting at most batchSize points per
// call. A non-positive batchSize uses the default.
func NewProcessor(db vectordb.VectorDatabase, batchSize int, logger vectordb.Logger) *Processor {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if logger == nil {
		logger = vectordb.NopLogger{}
	}
	return &Processor{db: db, batchSize: batchSize, logger: logger}
}

// Process validates msg and bulk inserts its documents chunk by chunk.
// Documents without an id get one derived from their content, so a
// redelivered message overwrites the points it already wrote.
// The first chunk that fails stops the message; a non-Ok status without
// an error is reported as a Backend error so the delivery is retried.
func (p *Processor) Process(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	if len(msg.Documents) == 0 {
		return nil
	}

	points := make([]vectordb.Point, len(msg.Documents))
	for i, d := range msg.Documents {
		points[i] = d.ToPoint()
		if points[i].Index == nil || *points[i].Index == "" {
			id := documentID(msg.Collection, i, d)
			points[i].Index = &id
		}
	}

	req := msg.request()
	for start := 0; start < len(points); start += p.batchSize {
		end := min(start+p.batchSize, len(points))
		status, err := p.db.BulkInsertPoints(ctx, req, points[start:end])
		if err != nil {
			return err
		}
		if !status.IsOk() {
			if status.Err != nil {
				return status.Err
			}
			return vectordb.NewBackendError("ingest", statusError{status})
		}
	}

	p.logger.Debug("ingested documents", nil, map[string]interface{}{
		"collection": msg.Collection,
		"documents":  len(points),
	})
	return nil
}

type statusError struct{ status vectordb.Status }

func (e statusError) Error() string { return "bulk insert returned status " + e.status.String() }

// documentID is a name-based UUID over the collection, the position of d in
// its message, its text and its sorted metadata.
func documentID(collection string, position int, d vectordb.Document) string {
	keys := make([]string, 0, len(d.Metadata))
	for k := range d.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(collection)
	b.WriteByte(0)
	b.WriteString(strconv.Itoa(position))
	b.WriteByte(0)
	b.WriteString(d.Text)
	for _, k := range keys {
		b.WriteByte(0)
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(d.Metadata[k])
	}
	return uuid.NewSHA1(documentIDNamespace, []byte(b.String())).String()
}
