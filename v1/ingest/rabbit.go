package ingest

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/agentcloud/vectordb-proxy/v1/observability"
	"github.com/agentcloud/vectordb-proxy/v1/vectordb"
)

const heartbeat = 2 * time.Second

// RabbitSource consumes the configured queue with manual acknowledgement
// and reconnects when the broker drops the connection.
type RabbitSource struct {
	cfg      RabbitConfig
	logger   vectordb.Logger
	observer observability.Observer

	mu         sync.RWMutex
	conn       *amqp.Connection
	ch         *amqp.Channel
	deliveries <-chan amqp.Delivery
	closed     bool

	// dial is replaced in tests; nil disables reconnection.
	dial func(RabbitConfig) (*amqp.Connection, *amqp.Channel, <-chan amqp.Delivery, error)
}

// NewRabbitSource connects, declares the topology and starts consuming.
func NewRabbitSource(cfg RabbitConfig, logger vectordb.Logger, observer observability.Observer) (*RabbitSource, error) {
	if logger == nil {
		logger = vectordb.NopLogger{}
	}
	s := &RabbitSource{cfg: cfg, logger: logger, observer: observer, dial: openRabbit}
	conn, ch, deliveries, err := s.dial(cfg)
	if err != nil {
		return nil, err
	}
	s.conn, s.ch, s.deliveries = conn, ch, deliveries
	logger.Info("[Rabbit] consuming", nil, map[string]interface{}{"queue": cfg.QueueName})
	return s, nil
}

func (s *RabbitSource) Receive(ctx context.Context) (Delivery, error) {
	for {
		s.mu.RLock()
		deliveries, closed := s.deliveries, s.closed
		s.mu.RUnlock()
		if closed {
			return nil, ErrSourceClosed
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case d, ok := <-deliveries:
			if ok {
				s.observe(int64(len(d.Body)))
				return &rabbitDelivery{d: d}, nil
			}
			if err := s.reconnect(ctx, deliveries); err != nil {
				return nil, err
			}
		}
	}
}

// reconnect replaces a closed delivery channel. stale is the channel the
// caller saw close; if another worker already replaced it there is nothing
// to do.
func (s *RabbitSource) reconnect(ctx context.Context, stale <-chan amqp.Delivery) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.dial == nil {
		return ErrSourceClosed
	}
	if s.deliveries != stale {
		return nil
	}

	s.logger.Warn("[Rabbit] delivery channel closed, reconnecting", nil, map[string]interface{}{
		"queue": s.cfg.QueueName,
	})
	for {
		conn, ch, deliveries, err := s.dial(s.cfg)
		if err == nil {
			s.conn, s.ch, s.deliveries = conn, ch, deliveries
			s.logger.Info("[Rabbit] reconnected", nil, nil)
			return nil
		}
		s.logger.Error("[Rabbit] reconnection failed", err, nil)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.cfg.DelayToReconnect):
		}
	}
}

// Close stops consumption. Unsettled deliveries are returned to the queue
// by the broker.
func (s *RabbitSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	if s.ch != nil {
		if err := s.ch.Close(); err != nil {
			s.logger.Warn("[Rabbit] failed to close channel", err, nil)
		}
	}
	if s.conn != nil && !s.conn.IsClosed() {
		if err := s.conn.Close(); err != nil {
			return fmt.Errorf("close rabbit connection: %w", err)
		}
	}
	return nil
}

func (s *RabbitSource) observe(size int64) {
	if s.observer == nil {
		return
	}
	s.observer.ObserveOperation(observability.OperationContext{
		Component: "rabbit",
		Operation: "consume",
		Resource:  s.cfg.QueueName,
		Size:      size,
	})
}

type rabbitDelivery struct {
	d amqp.Delivery
}

func (r *rabbitDelivery) Body() []byte { return r.d.Body }

func (r *rabbitDelivery) Ack() error { return r.d.Ack(false) }

func (r *rabbitDelivery) Nack(requeue bool) error { return r.d.Nack(false, requeue) }

// ── connection setup ─────────────────────────────────────────────────────────

func openRabbit(cfg RabbitConfig) (*amqp.Connection, *amqp.Channel, <-chan amqp.Delivery, error) {
	conn, err := dialRabbit(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, nil, fmt.Errorf("failed to create channel: %w", err)
	}

	if err := declareTopology(ch, cfg); err != nil {
		_ = conn.Close()
		return nil, nil, nil, err
	}

	deliveries, err := ch.Consume(
		cfg.QueueName,
		"",    // consumer
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,
	)
	if err != nil {
		_ = conn.Close()
		return nil, nil, nil, fmt.Errorf("failed to consume queue %s: %w", cfg.QueueName, err)
	}
	return conn, ch, deliveries, nil
}

func dialRabbit(cfg RabbitConfig) (*amqp.Connection, error) {
	scheme := "amqp"
	amqpCfg := amqp.Config{Heartbeat: heartbeat}

	if cfg.IsSSLEnabled {
		scheme = "amqps"
		if cfg.UseCert {
			tlsCfg, err := rabbitTLSConfig(cfg)
			if err != nil {
				return nil, err
			}
			amqpCfg.TLSClientConfig = tlsCfg
		}
	}

	url := fmt.Sprintf("%s://%s:%s@%s:%d", scheme, cfg.User, cfg.Password, cfg.Host, cfg.Port)
	conn, err := amqp.DialConfig(url, amqpCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbit at %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return conn, nil
}

func rabbitTLSConfig(cfg RabbitConfig) (*tls.Config, error) {
	caCert, err := os.ReadFile(cfg.CACertPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA cert: %w", err)
	}
	pool := x509.NewCertPool()
	pool.AppendCertsFromPEM(caCert)

	cert, err := tls.LoadX509KeyPair(cfg.ClientCertPath, cfg.ClientKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load client cert: %w", err)
	}
	return &tls.Config{
		RootCAs:      pool,
		Certificates: []tls.Certificate{cert},
		ServerName:   cfg.ServerName,
	}, nil
}

// declareTopology declares the exchange, the queue, its binding, the
// optional dead letter exchange and the prefetch window.
func declareTopology(ch *amqp.Channel, cfg RabbitConfig) error {
	if cfg.ExchangeName != "" {
		if err := ch.ExchangeDeclare(cfg.ExchangeName, cfg.ExchangeType, true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare exchange: %w", err)
		}
	}

	queueArgs := amqp.Table{}
	if dl := cfg.DeadLetter; dl.ExchangeName != "" {
		if err := ch.ExchangeDeclare(dl.ExchangeName, "direct", true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare dead letter exchange: %w", err)
		}
		if _, err := ch.QueueDeclare(dl.QueueName, true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare dead letter queue: %w", err)
		}
		if err := ch.QueueBind(dl.QueueName, dl.RoutingKey, dl.ExchangeName, false, nil); err != nil {
			return fmt.Errorf("failed to bind dead letter queue: %w", err)
		}
		queueArgs["x-dead-letter-exchange"] = dl.ExchangeName
		queueArgs["x-dead-letter-routing-key"] = dl.RoutingKey
		if dl.Ttl > 0 {
			queueArgs["x-message-ttl"] = dl.Ttl * 1000
		}
	}

	if _, err := ch.QueueDeclare(cfg.QueueName, true, false, false, false, queueArgs); err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}
	if cfg.ExchangeName != "" {
		if err := ch.QueueBind(cfg.QueueName, cfg.RoutingKey, cfg.ExchangeName, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue: %w", err)
		}
	}

	if cfg.PrefetchCount > 0 {
		if err := ch.Qos(cfg.PrefetchCount, 0, false); err != nil {
			return fmt.Errorf("failed to set QoS: %w", err)
		}
	}
	return nil
}
