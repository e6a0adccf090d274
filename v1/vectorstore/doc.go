// Package vectorstore selects and wires a vector database backend.
//
// Config.Type chooses Pinecone or a self-hosted Qdrant; New connects, wraps
// the adapter in a TracedDatabase when a tracer is supplied, and returns it
// as a Database (vectordb.VectorDatabase plus Close). FXModule does the
// same through dependency injection and closes the client on shutdown.
//
//	db, err := vectorstore.New(vectorstore.QdrantConfig(qdrant.DefaultConfig()), vectorstore.Options{
//	    Logger: log,
//	    Tracer: t,
//	})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
package vectorstore
