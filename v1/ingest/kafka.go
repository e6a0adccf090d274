package ingest

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"sync"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"

	"github.com/agentcloud/vectordb-proxy/v1/observability"
	"github.com/agentcloud/vectordb-proxy/v1/vectordb"
)

// maxInFlight bounds the messages fetched but not yet settled. Requeued
// messages stay in flight, so the retry buffer never overflows.
const maxInFlight = 64

// kafkaReader is the part of *kafka.Reader the source uses.
type kafkaReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSource reads a topic with auto commit disabled. Ack and Nack without
// requeue settle a message; Nack with requeue keeps it in a local buffer
// and returns it from a later Receive. Offsets are committed only up to
// the highest message of a partition whose predecessors are all settled.
type KafkaSource struct {
	reader   kafkaReader
	topic    string
	logger   vectordb.Logger
	observer observability.Observer

	retry    chan kafka.Message
	fetched  chan fetchResult
	inflight chan struct{}
	offsets  *offsetTracker

	ctx       context.Context
	cancel    context.CancelFunc
	startOnce sync.Once
	closeOnce sync.Once
}

type fetchResult struct {
	msg kafka.Message
	err error
}

// NewKafkaSource builds the reader. Connections are opened lazily on the
// first Receive.
func NewKafkaSource(cfg KafkaConfig, logger vectordb.Logger, observer observability.Observer) (*KafkaSource, error) {
	var tlsConfig *tls.Config
	var err error
	if cfg.TLS.Enabled {
		if tlsConfig, err = kafkaTLSConfig(cfg.TLS); err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
	}

	var mechanism sasl.Mechanism
	if cfg.SASL.Enabled {
		if mechanism, err = saslMechanism(cfg.SASL); err != nil {
			return nil, fmt.Errorf("failed to create SASL mechanism: %w", err)
		}
	}

	if logger == nil {
		logger = vectordb.NopLogger{}
	}
	return newKafkaSource(createReader(cfg, tlsConfig, mechanism, logger), cfg.Topic, logger, observer), nil
}

func newKafkaSource(r kafkaReader, topic string, logger vectordb.Logger, observer observability.Observer) *KafkaSource {
	ctx, cancel := context.WithCancel(context.Background())
	return &KafkaSource{
		reader:   r,
		topic:    topic,
		logger:   logger,
		observer: observer,
		retry:    make(chan kafka.Message, maxInFlight),
		fetched:  make(chan fetchResult),
		inflight: make(chan struct{}, maxInFlight),
		offsets:  newOffsetTracker(),
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (s *KafkaSource) Receive(ctx context.Context) (Delivery, error) {
	s.startOnce.Do(func() { go s.fetch() })

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.ctx.Done():
		return nil, ErrSourceClosed
	case m := <-s.retry:
		return &kafkaDelivery{src: s, msg: m}, nil
	case r, ok := <-s.fetched:
		if !ok {
			return nil, ErrSourceClosed
		}
		if r.err != nil {
			return nil, r.err
		}
		s.observe(int64(len(r.msg.Value)))
		return &kafkaDelivery{src: s, msg: r.msg}, nil
	}
}

// fetch pumps the reader into s.fetched until the source is closed or the
// reader fails. It waits for a free in-flight slot before every fetch.
func (s *KafkaSource) fetch() {
	defer close(s.fetched)
	for {
		select {
		case s.inflight <- struct{}{}:
		case <-s.ctx.Done():
			return
		}

		m, err := s.reader.FetchMessage(s.ctx)
		if err != nil {
			<-s.inflight
			if s.ctx.Err() != nil {
				return
			}
			err = fmt.Errorf("fetch from %s: %w", s.topic, err)
			s.logger.Error("[Kafka] fetch failed", err, nil)
		} else {
			s.offsets.track(m)
		}

		select {
		case s.fetched <- fetchResult{msg: m, err: err}:
		case <-s.ctx.Done():
			return
		}
		if err != nil {
			return
		}
	}
}

func (s *KafkaSource) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.cancel()
		err = s.reader.Close()
	})
	return err
}

// settle marks m done, frees its in-flight slot and commits the contiguous
// settled prefix of its partition, if it grew.
func (s *KafkaSource) settle(m kafka.Message) error {
	defer func() {
		select {
		case <-s.inflight:
		default:
		}
	}()
	return s.offsets.settle(m, func(upTo kafka.Message) error {
		return s.reader.CommitMessages(context.Background(), upTo)
	})
}

func (s *KafkaSource) observe(size int64) {
	if s.observer == nil {
		return
	}
	s.observer.ObserveOperation(observability.OperationContext{
		Component: "kafka",
		Operation: "consume",
		Resource:  s.topic,
		Size:      size,
	})
}

type kafkaDelivery struct {
	src *KafkaSource
	msg kafka.Message
}

func (d *kafkaDelivery) Body() []byte { return d.msg.Value }

func (d *kafkaDelivery) Ack() error { return d.src.settle(d.msg) }

func (d *kafkaDelivery) Nack(requeue bool) error {
	if !requeue {
		return d.src.settle(d.msg)
	}
	select {
	case d.src.retry <- d.msg:
		return nil
	case <-d.src.ctx.Done():
		return ErrSourceClosed
	}
}

// offsetTracker keeps, per partition, the fetched offsets in fetch order
// and which of them are settled.
type offsetTracker struct {
	mu         sync.Mutex
	partitions map[int]*partitionOffsets
}

type partitionOffsets struct {
	pending []kafka.Message
	settled map[int64]bool
}

func newOffsetTracker() *offsetTracker {
	return &offsetTracker{partitions: make(map[int]*partitionOffsets)}
}

func (t *offsetTracker) track(m kafka.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.partitions[m.Partition]
	if !ok {
		p = &partitionOffsets{settled: make(map[int64]bool)}
		t.partitions[m.Partition] = p
	}
	p.pending = append(p.pending, m)
}

// settle runs commit, under the tracker lock, with the last message of the
// settled prefix. Commits of a partition are therefore never reordered.
func (t *offsetTracker) settle(m kafka.Message, commit func(kafka.Message) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.partitions[m.Partition]
	if !ok {
		return fmt.Errorf("offset %d of partition %d was never fetched", m.Offset, m.Partition)
	}
	p.settled[m.Offset] = true

	var upTo *kafka.Message
	for len(p.pending) > 0 && p.settled[p.pending[0].Offset] {
		head := p.pending[0]
		delete(p.settled, head.Offset)
		p.pending = p.pending[1:]
		upTo = &head
	}
	if upTo == nil {
		return nil
	}
	return commit(*upTo)
}

// ── reader setup ─────────────────────────────────────────────────────────────

func createReader(cfg KafkaConfig, tlsConfig *tls.Config, mechanism sasl.Mechanism, logger vectordb.Logger) *kafka.Reader {
	readerConfig := kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		GroupID:     cfg.GroupID,
		MinBytes:    cfg.MinBytes,
		MaxBytes:    cfg.MaxBytes,
		MaxWait:     cfg.MaxWait,
		StartOffset: cfg.StartOffset,
		// Offsets are committed by Ack.
		CommitInterval: 0,
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Error("[Kafka] "+fmt.Sprintf(msg, args...), nil, nil)
		}),
		Dialer: &kafka.Dialer{
			TLS:           tlsConfig,
			SASLMechanism: mechanism,
			DualStack:     true,
		},
	}
	if cfg.GroupID == "" {
		readerConfig.Partition = cfg.Partition
	}
	return kafka.NewReader(readerConfig)
}

func kafkaTLSConfig(cfg TLSConfig) (*tls.Config, error) {
	tlsConfig := &tls.Config{InsecureSkipVerify: cfg.InsecureSkipVerify}

	if cfg.CACertPath != "" {
		caCert, err := os.ReadFile(cfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA cert: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse CA cert")
		}
		tlsConfig.RootCAs = pool
	}

	if cfg.ClientCertPath != "" && cfg.ClientKeyPath != "" {
		cert, err := tls.LoadX509KeyPair(cfg.ClientCertPath, cfg.ClientKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load client cert: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}
	return tlsConfig, nil
}

func saslMechanism(cfg SASLConfig) (sasl.Mechanism, error) {
	switch cfg.Mechanism {
	case "PLAIN":
		return plain.Mechanism{Username: cfg.Username, Password: cfg.Password}, nil
	case "SCRAM-SHA-256":
		return scram.Mechanism(scram.SHA256, cfg.Username, cfg.Password)
	case "SCRAM-SHA-512":
		return scram.Mechanism(scram.SHA512, cfg.Username, cfg.Password)
	default:
		return nil, fmt.Errorf("unsupported SASL mechanism: %s", cfg.Mechanism)
	}
}
