package ingest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentcloud/vectordb-proxy/v1/observability"
	"github.com/agentcloud/vectordb-proxy/v1/vectordb"
)

type settlement struct {
	acked   bool
	nacked  bool
	requeue bool
}

type fakeDelivery struct {
	body []byte

	mu      sync.Mutex
	settled *settlement
	done    chan struct{}
}

func newFakeDelivery(body string) *fakeDelivery {
	return &fakeDelivery{body: []byte(body), done: make(chan struct{})}
}

func (d *fakeDelivery) Body() []byte { return d.body }

func (d *fakeDelivery) Ack() error {
	d.settle(settlement{acked: true})
	return nil
}

func (d *fakeDelivery) Nack(requeue bool) error {
	d.settle(settlement{nacked: true, requeue: requeue})
	return nil
}

func (d *fakeDelivery) settle(s settlement) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.settled != nil {
		panic("delivery settled twice")
	}
	d.settled = &s
	close(d.done)
}

func (d *fakeDelivery) wait(t *testing.T) settlement {
	t.Helper()
	select {
	case <-d.done:
	case <-time.After(5 * time.Second):
		t.Fatal("delivery was not settled")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return *d.settled
}

// fakeSource hands out queued deliveries, then blocks until closed.
type fakeSource struct {
	deliveries chan Delivery
	closed     chan struct{}
	closeOnce  sync.Once
	err        error
}

func newFakeSource(ds ...Delivery) *fakeSource {
	s := &fakeSource{deliveries: make(chan Delivery, len(ds)), closed: make(chan struct{})}
	for _, d := range ds {
		s.deliveries <- d
	}
	return s
}

func (s *fakeSource) Receive(ctx context.Context) (Delivery, error) {
	if s.err != nil {
		return nil, s.err
	}
	select {
	case d := <-s.deliveries:
		return d, nil
	case <-s.closed:
		return nil, ErrSourceClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *fakeSource) Close() error {
	s.closeOnce.Do(func() { close(s.closed) })
	return nil
}

func testConsumer(source Source, db vectordb.VectorDatabase) *Consumer {
	cfg := Config{Concurrency: 2, RetryDelay: time.Millisecond}
	return NewConsumer(cfg, source, NewProcessor(db, 10, nil), nil)
}

const validBody = `{"collection":"docs","documents":[{"id":"a","text":"t","vector":[1,2]}]}`

func TestConsumerSettlement(t *testing.T) {
	ok := newFakeDelivery(validBody)
	malformed := newFakeDelivery(`not json`)
	noVector := newFakeDelivery(`{"collection":"docs","documents":[{"text":"t"}]}`)

	db := &fakeDB{}
	source := newFakeSource(ok, malformed, noVector)
	c := testConsumer(source, db)

	errCh := make(chan error, 1)
	go func() { errCh <- c.Run(context.Background()) }()

	assert.Equal(t, settlement{acked: true}, ok.wait(t))
	assert.Equal(t, settlement{nacked: true}, malformed.wait(t))
	assert.Equal(t, settlement{nacked: true}, noVector.wait(t))
	assert.Equal(t, 1, db.calls())

	require.NoError(t, c.Close())
	require.NoError(t, <-errCh)
}

func TestConsumerRequeuesBackendErrors(t *testing.T) {
	d := newFakeDelivery(validBody)
	db := &fakeDB{errs: []error{vectordb.NewBackendError("qdrant", errors.New("connection refused"))}}
	source := newFakeSource(d)
	c := testConsumer(source, db)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- c.Run(ctx) }()

	assert.Equal(t, settlement{nacked: true, requeue: true}, d.wait(t))

	cancel()
	require.NoError(t, <-errCh)
}

func TestConsumerRejectsNotFound(t *testing.T) {
	d := newFakeDelivery(validBody)
	db := &fakeDB{statuses: []vectordb.Status{vectordb.StatusError(vectordb.NewNotFoundError("gone"))}}
	c := testConsumer(newFakeSource(d), db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = c.Run(ctx) }()

	assert.Equal(t, settlement{nacked: true}, d.wait(t))
}

func TestConsumerReturnsReceiveErrors(t *testing.T) {
	source := newFakeSource()
	source.err = errors.New("broker unreachable")

	err := testConsumer(source, &fakeDB{}).Run(context.Background())
	assert.EqualError(t, err, "broker unreachable")
}

func TestConsumerObserver(t *testing.T) {
	d := newFakeDelivery(validBody)
	source := newFakeSource(d)

	var mu sync.Mutex
	var ops []observability.OperationContext
	c := testConsumer(source, &fakeDB{}).WithObserver(observability.ObserverFunc(func(op observability.OperationContext) {
		mu.Lock()
		defer mu.Unlock()
		ops = append(ops, op)
	}))

	errCh := make(chan error, 1)
	go func() { errCh <- c.Run(context.Background()) }()
	d.wait(t)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(ops) == 1
	}, 5*time.Second, 10*time.Millisecond)

	_ = c.Close()
	require.NoError(t, <-errCh)

	assert.Equal(t, "ingest", ops[0].Component)
	assert.Equal(t, "process_message", ops[0].Operation)
	assert.Equal(t, "docs", ops[0].Resource)
	assert.EqualValues(t, 1, ops[0].Size)
	assert.NoError(t, ops[0].Error)
}

type countingCollector struct {
	mu     sync.Mutex
	counts map[string]int
}

func (c *countingCollector) IncrementIngestMessages(source, outcome string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts == nil {
		c.counts = map[string]int{}
	}
	c.counts[source+"/"+outcome]++
}

func (c *countingCollector) snapshot() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out
}

func TestConsumerCountsOutcomes(t *testing.T) {
	ok := newFakeDelivery(validBody)
	retry := newFakeDelivery(validBody)
	malformed := newFakeDelivery(`not json`)

	db := &fakeDB{errs: []error{nil, vectordb.NewBackendError("qdrant", errors.New("timeout"))}}
	counter := &countingCollector{}
	cfg := Config{Source: SourceKafka, Concurrency: 1, RetryDelay: time.Millisecond}
	c := NewConsumer(cfg, newFakeSource(ok, retry, malformed), NewProcessor(db, 10, nil), nil).WithCounter(counter)

	errCh := make(chan error, 1)
	go func() { errCh <- c.Run(context.Background()) }()
	ok.wait(t)
	retry.wait(t)
	malformed.wait(t)

	require.Eventually(t, func() bool {
		return len(counter.snapshot()) == 3
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, map[string]int{
		"kafka/" + OutcomeAck:     1,
		"kafka/" + OutcomeRequeue: 1,
		"kafka/" + OutcomeReject:  1,
	}, counter.snapshot())

	require.NoError(t, c.Close())
	require.NoError(t, <-errCh)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "disabled", cfg: Config{}},
		{name: "rabbit", cfg: Config{Source: SourceRabbit, Rabbit: RabbitConfig{Host: "localhost", QueueName: "ingest"}}},
		{name: "rabbit without host", cfg: Config{Source: SourceRabbit, Rabbit: RabbitConfig{QueueName: "ingest"}}, wantErr: "rabbit host is required"},
		{name: "rabbit without queue", cfg: Config{Source: SourceRabbit, Rabbit: RabbitConfig{Host: "localhost"}}, wantErr: "rabbit queue name is required"},
		{name: "rabbit cert without ssl", cfg: Config{Source: SourceRabbit, Rabbit: RabbitConfig{Host: "h", QueueName: "q", UseCert: true}}, wantErr: "require ssl"},
		{name: "kafka", cfg: Config{Source: SourceKafka, Kafka: KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "ingest"}}},
		{name: "kafka without brokers", cfg: Config{Source: SourceKafka, Kafka: KafkaConfig{Topic: "ingest"}}, wantErr: "kafka brokers are required"},
		{name: "kafka without topic", cfg: Config{Source: SourceKafka, Kafka: KafkaConfig{Brokers: []string{"b"}}}, wantErr: "kafka topic is required"},
		{name: "negative concurrency", cfg: Config{Source: SourceKafka, Concurrency: -1, Kafka: KafkaConfig{Brokers: []string{"b"}, Topic: "t"}}, wantErr: "must not be negative"},
		{name: "unknown source", cfg: Config{Source: "sqs"}, wantErr: `unsupported source "sqs"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{Source: SourceKafka, BatchSize: 7}.withDefaults()
	assert.Equal(t, defaultConcurrency, cfg.Concurrency)
	assert.Equal(t, 7, cfg.BatchSize)
	assert.Equal(t, defaultRetryDelay, cfg.RetryDelay)
	assert.Equal(t, uint(5672), cfg.Rabbit.Port)
	assert.Equal(t, int64(-2), cfg.Kafka.StartOffset)
	assert.False(t, Config{}.Enabled())
}
