// Package pinecone implements vectordb.VectorDatabase on Pinecone serverless.
//
// Collections map to namespaces. Each region has one index, named after its
// GCP serverless region (us-central1, europe-west4, australia-southeast1),
// and every collection placed in that region lives in a namespace of it.
// The region an index is created in depends on the cloud; see
// ServerlessRegion for the pairs Pinecone offers.
//
// The SDK is isolated behind two small interfaces, Backend (control plane)
// and IndexHandle (data plane of one namespace). PineconeClient implements
// them over github.com/pinecone-io/go-pinecone; tests use the generated
// gomock doubles in mock_backend.go.
//
// Basic usage:
//
//	cfg := pinecone.DefaultConfig().WithApiKey(os.Getenv("PINECONE_API_KEY"))
//	client, err := pinecone.NewPineconeClient(pinecone.PineconeParams{Config: cfg})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	db := pinecone.NewAdapter(client)
//
//	status, err := db.CreateCollection(ctx, vectordb.CollectionCreate{
//	    CollectionName: "docs",
//	    Size:           1536,
//	    Distance:       vectordb.DistanceCosine,
//	    Region:         vectordb.Ptr(vectordb.RegionEU),
//	    Cloud:          vectordb.Ptr(vectordb.CloudGCP),
//	})
//
// Differences from the self-hosted backend:
//
//   - CreateCollection only ensures the region index; the namespace appears
//     with its first upsert, so CheckCollectionExists reports NotFound until
//     then.
//   - An existing index with another dimension or metric makes
//     CreateCollection fail with a NotFound-kind error.
//   - ScrollPoints is not supported and returns an Unimplemented error.
//   - Metadata filters are translated to Pinecone's $eq/$in/$gte operator
//     documents; time ranges compare unix seconds.
package pinecone
