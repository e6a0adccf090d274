// Package ingest consumes embedded documents from a message broker and
// bulk inserts them into a vector database.
//
// Each delivery carries one JSON Message. A Consumer runs a fixed number of
// workers that Receive from a Source (RabbitMQ or Kafka), decode the body
// and hand it to a Processor, which validates the documents and inserts them
// in batches through vectordb.VectorDatabase.BulkInsertPoints.
//
// Settlement follows the error kind:
//
//   - success: Ack
//   - Backend error (engine unreachable, short write): Nack with requeue
//     after Config.RetryDelay
//   - anything else (malformed JSON, missing vector, incompatible
//     collection): Nack without requeue, which dead-letters on RabbitMQ
//     when a dead letter exchange is configured
//
// RabbitMQ deliveries use manual acknowledgement with a prefetch window and
// the connection is re-established when the broker drops it. Kafka offsets
// are committed on settlement; requeued Kafka messages are redelivered from
// a bounded in-process buffer.
//
// Basic usage:
//
//	source, err := ingest.NewSource(cfg, log, nil)
//	if err != nil {
//	    return err
//	}
//	consumer := ingest.NewConsumer(cfg, source, ingest.NewProcessor(db, cfg.BatchSize, log), log)
//	defer consumer.Close()
//	return consumer.Run(ctx)
package ingest
