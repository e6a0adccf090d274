// Package vectordb defines the backend-agnostic contract for vector stores.
//
// # Overview
//
// [VectorDatabase] is implemented by one adapter per engine (see the pinecone
// and qdrant packages). The package also owns the value types that cross the
// contract, the [Status] outcome type, and the [Error] taxonomy.
//
// # Architecture
//
//	┌─────────────────────────────────────────────────────────────┐
//	│             Application / ingest / CLI                      │
//	│      (uses vectordb.VectorDatabase, no engine imports)      │
//	└──────────────────────────┬──────────────────────────────────┘
//	                           │
//	                           ▼
//	┌─────────────────────────────────────────────────────────────┐
//	│                 vectordb.VectorDatabase                     │
//	│        (contract + engine-agnostic types + errors)          │
//	└──────────────────────────┬──────────────────────────────────┘
//	                           │
//	              ┌────────────┴────────────┐
//	              ▼                         ▼
//	      ┌────────────────┐        ┌────────────────┐
//	      │pinecone.Adapter│        │ qdrant.Adapter │
//	      └────────────────┘        └────────────────┘
//
// # Outcomes and errors
//
// Operations that reach the engine report their outcome as a [Status]:
// Ok, Failure (the engine answered but did not do everything asked),
// NotFound, or Error. A returned error means the operation could not be
// carried out at all, and is always an [*Error] whose [ErrorKind] is one of
// NotFound, BackendError, Other or Unimplemented:
//
//	if _, err := db.ScrollPoints(ctx, req); vectordb.IsUnimplementedError(err) {
//	    // fall back to a similarity query
//	}
//
// # Placement
//
// Requests may leave Region and Cloud unset. Adapters resolve them through a
// [PlacementPolicy]; [DefaultPlacementPolicy] is US on GCP.
//
// # Filters
//
// [FilterConditions] is the key/value form carried by requests. It lowers
// into the typed [FilterSet] model, which callers may also set directly via
// SearchRequest.TypedFilters:
//
//	req.TypedFilters = vectordb.NewFilterSet(
//	    vectordb.Must(vectordb.NewMatchAny("lang", "en", "de")),
//	)
package vectordb
