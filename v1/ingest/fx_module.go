package ingest

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/fx"

	"github.com/agentcloud/vectordb-proxy/v1/logger"
	"github.com/agentcloud/vectordb-proxy/v1/metrics"
	"github.com/agentcloud/vectordb-proxy/v1/observability"
	"github.com/agentcloud/vectordb-proxy/v1/vectordb"
)

// FXModule provides a *Consumer and runs it for the lifetime of the app.
// With an empty Config.Source the provided consumer is nil and nothing runs.
//
// Usage:
//
//	app := fx.New(
//	    logger.FXModule,
//	    vectorstore.FXModule,
//	    ingest.FXModule,
//	    fx.Provide(func() ingest.Config { return cfg.Ingest }),
//	)
var FXModule = fx.Module("ingest",
	fx.Provide(NewConsumerWithDI),
	fx.Invoke(RegisterIngestLifecycle),
)

// IngestParams groups the dependencies of NewConsumerWithDI.
type IngestParams struct {
	fx.In

	Config   Config
	Database vectordb.VectorDatabase
	Logger   *logger.Logger           `optional:"true"`
	Observer observability.Observer   `optional:"true"`
	Metrics  metrics.MetricsCollector `optional:"true"`
}

// NewConsumerWithDI opens the configured source. It returns a nil consumer
// when ingestion is disabled.
func NewConsumerWithDI(p IngestParams) (*Consumer, error) {
	cfg := p.Config
	if !cfg.Enabled() {
		return nil, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	var log vectordb.Logger = vectordb.NopLogger{}
	if p.Logger != nil {
		log = p.Logger
	}

	source, err := NewSource(cfg, log, p.Observer)
	if err != nil {
		return nil, err
	}
	processor := NewProcessor(p.Database, cfg.BatchSize, log)
	c := NewConsumer(cfg, source, processor, log).WithObserver(p.Observer)
	if p.Metrics != nil {
		c.WithCounter(p.Metrics)
	}
	return c, nil
}

// NewSource opens the source named by cfg.Source.
func NewSource(cfg Config, log vectordb.Logger, obs observability.Observer) (Source, error) {
	switch cfg.Source {
	case SourceRabbit:
		return NewRabbitSource(cfg.Rabbit, log, obs)
	case SourceKafka:
		return NewKafkaSource(cfg.Kafka, log, obs)
	default:
		return nil, errors.New("ingest: no source configured")
	}
}

// IngestLifecycleParams groups the dependencies of the lifecycle hook.
type IngestLifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Consumer  *Consumer      `optional:"true"`
	Logger    *logger.Logger `optional:"true"`
}

// RegisterIngestLifecycle starts the consumer on start. On stop it cancels
// the workers, closes the source and waits for in-flight deliveries.
func RegisterIngestLifecycle(p IngestLifecycleParams) {
	if p.Consumer == nil {
		return
	}

	var (
		wg     sync.WaitGroup
		cancel context.CancelFunc
	)
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			var runCtx context.Context
			runCtx, cancel = context.WithCancel(context.Background())
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := p.Consumer.Run(runCtx); err != nil && p.Logger != nil {
					p.Logger.Error("ingest consumer stopped", err, nil)
				}
			}()
			if p.Logger != nil {
				p.Logger.Info("ingest consumer started", nil, map[string]interface{}{
					"concurrency": p.Consumer.concurrency,
				})
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			err := p.Consumer.Close()

			done := make(chan struct{})
			go func() {
				wg.Wait()
				close(done)
			}()
			select {
			case <-done:
			case <-ctx.Done():
				return ctx.Err()
			}
			return err
		},
	})
}
