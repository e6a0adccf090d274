// Package qdrant implements vectordb.VectorDatabase on a self-hosted Qdrant.
//
// The package wraps the official gRPC client (github.com/qdrant/go-client).
// QdrantClient owns the connection and performs a health check on
// construction; Adapter translates the generic contract into Qdrant
// collection and point calls through the narrow API interface, which
// *qdrant.Client satisfies directly.
//
// # Basic Usage
//
//	client, err := qdrant.NewQdrantClient(qdrant.QdrantParams{
//	    Config: qdrant.FromEndpoint("localhost"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	db := qdrant.NewAdapter(client.API(), qdrant.WithCloser(client))
//	defer db.Close()
//
//	status, err := db.CreateCollection(ctx, vectordb.CollectionCreate{
//	    CollectionName: "documents",
//	    Size:           1536,
//	    Distance:       vectordb.DistanceCosine,
//	})
//
//	req := vectordb.NewSearchRequest(vectordb.SearchTypeCollection, "documents")
//	status, err = db.BulkInsertPoints(ctx, req, points)
//
// # Semantics
//
//   - Region and cloud are accepted and ignored; the collection name alone
//     addresses the collection.
//   - CreateCollection is idempotent for an existing collection with the
//     same size and distance. A mismatch is a NotFound-kind error.
//   - Upserts wait for the write to be applied. A chunk not reported as
//     Completed gives a Failure status.
//   - Collection status Green is Ok, Yellow is Failure, anything else is
//     an error status.
//   - ScrollPoints pages in id order (default page size 10) and follows
//     every page when GetAllPages is set.
//
// # Point IDs
//
// Qdrant stores unsigned integers and UUIDs only. Canonical numeric and UUID
// ids are used as they are; any other id is mapped to a name-based UUID and
// the original is kept under the PayloadIDKey payload key, which results
// report as the id again. Payloads may not set that key themselves. Points
// without an id get a random UUID.
//
// # Fx Integration
//
//	app := fx.New(
//	    qdrant.FXModule,
//	    fx.Provide(func() *qdrant.Config { return qdrant.DefaultConfig() }),
//	)
package qdrant
