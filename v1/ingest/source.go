package ingest

import (
	"context"
	"errors"
)

// ErrSourceClosed is returned by Receive once the source has been closed.
var ErrSourceClosed = errors.New("ingest: source closed")

// Source yields deliveries from a message broker. Receive blocks until a
// delivery arrives, ctx is done, or the source is closed. Implementations
// are safe for concurrent Receive calls.
type Source interface {
	Receive(ctx context.Context) (Delivery, error)
	Close() error
}

// Delivery is one broker message awaiting settlement. Exactly one of Ack
// or Nack must be called.
type Delivery interface {
	Body() []byte

	// Ack settles the delivery as processed.
	Ack() error

	// Nack settles the delivery as failed. With requeue the broker offers
	// it again; without, it is dropped or dead-lettered.
	Nack(requeue bool) error
}
