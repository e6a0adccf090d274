package ingest

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agentcloud/vectordb-proxy/v1/observability"
	"github.com/agentcloud/vectordb-proxy/v1/vectordb"
)

// Settlement outcomes reported to a MessageCounter.
const (
	OutcomeAck     = "ack"
	OutcomeRequeue = "requeue"
	OutcomeReject  = "reject"
)

// MessageCounter counts settled deliveries per source and outcome.
// *metrics.Metrics implements it.
type MessageCounter interface {
	IncrementIngestMessages(source, outcome string)
}

// Consumer drains a Source into a Processor with a fixed number of workers.
type Consumer struct {
	source      Source
	sourceName  string
	processor   *Processor
	concurrency int
	retryDelay  time.Duration
	logger      vectordb.Logger
	observer    observability.Observer
	counter     MessageCounter
}

// NewConsumer wires source to processor. Zero values in cfg fall back to
// the defaults; only Concurrency and RetryDelay are read.
func NewConsumer(cfg Config, source Source, processor *Processor, logger vectordb.Logger) *Consumer {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = vectordb.NopLogger{}
	}
	return &Consumer{
		source:      source,
		sourceName:  cfg.Source,
		processor:   processor,
		concurrency: cfg.Concurrency,
		retryDelay:  cfg.RetryDelay,
		logger:      logger,
	}
}

// WithObserver attaches obs and returns the same consumer.
func (c *Consumer) WithObserver(obs observability.Observer) *Consumer {
	c.observer = obs
	return c
}

// WithCounter attaches counter and returns the same consumer.
func (c *Consumer) WithCounter(counter MessageCounter) *Consumer {
	c.counter = counter
	return c
}

// Run processes deliveries until ctx is done or the source is closed, in
// which case it returns nil. A failing Receive stops every worker and is
// returned.
func (c *Consumer) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < c.concurrency; i++ {
		g.Go(func() error { return c.work(gctx) })
	}

	err := g.Wait()
	if errors.Is(err, ErrSourceClosed) || ctx.Err() != nil {
		return nil
	}
	return err
}

func (c *Consumer) work(ctx context.Context) error {
	for {
		d, err := c.source.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		c.handle(ctx, d)
	}
}

// handle settles d: processed deliveries are acked, Backend failures are
// requeued after the retry delay, everything else is rejected.
func (c *Consumer) handle(ctx context.Context, d Delivery) {
	start := time.Now()

	msg, err := Decode(d.Body())
	if err == nil {
		err = c.processor.Process(ctx, msg)
	}

	var settleErr error
	var outcome string
	switch {
	case err == nil:
		outcome = OutcomeAck
		settleErr = d.Ack()
	case vectordb.IsBackendError(err):
		c.logger.Warn("ingest delivery failed, requeueing", err, map[string]interface{}{
			"collection": msg.Collection,
		})
		select {
		case <-ctx.Done():
		case <-time.After(c.retryDelay):
		}
		outcome = OutcomeRequeue
		settleErr = d.Nack(true)
	default:
		c.logger.Error("ingest delivery rejected", err, map[string]interface{}{
			"collection": msg.Collection,
			"kind":       vectordb.KindOf(err).String(),
		})
		outcome = OutcomeReject
		settleErr = d.Nack(false)
	}
	if settleErr != nil {
		c.logger.Error("failed to settle ingest delivery", settleErr, nil)
	} else if c.counter != nil {
		c.counter.IncrementIngestMessages(c.sourceName, outcome)
	}

	c.observe(msg, time.Since(start), err)
}

func (c *Consumer) observe(msg Message, d time.Duration, err error) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveOperation(observability.OperationContext{
		Component: "ingest",
		Operation: "process_message",
		Resource:  msg.Collection,
		Duration:  d,
		Error:     err,
		Size:      int64(len(msg.Documents)),
	})
}

// Close closes the source. Run returns once in-flight deliveries settle.
func (c *Consumer) Close() error {
	return c.source.Close()
}
