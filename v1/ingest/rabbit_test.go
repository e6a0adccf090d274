package ingest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentcloud/vectordb-proxy/v1/vectordb"
)

// recordingAcknowledger stands in for the AMQP channel behind a delivery.
type recordingAcknowledger struct {
	mu      sync.Mutex
	acks    []uint64
	nacks   []uint64
	requeue []bool
}

func (a *recordingAcknowledger) Ack(tag uint64, _ bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acks = append(a.acks, tag)
	return nil
}

func (a *recordingAcknowledger) Nack(tag uint64, _ bool, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nacks = append(a.nacks, tag)
	a.requeue = append(a.requeue, requeue)
	return nil
}

func (a *recordingAcknowledger) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func testRabbitSource(deliveries <-chan amqp.Delivery) *RabbitSource {
	return &RabbitSource{
		cfg:        RabbitConfig{QueueName: "ingest", DelayToReconnect: time.Millisecond},
		logger:     vectordb.NopLogger{},
		deliveries: deliveries,
	}
}

func TestRabbitSourceSettlement(t *testing.T) {
	ack := &recordingAcknowledger{}
	ch := make(chan amqp.Delivery, 2)
	ch <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: []byte("one")}
	ch <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 2, Body: []byte("two")}
	s := testRabbitSource(ch)

	d1, err := s.Receive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), d1.Body())
	require.NoError(t, d1.Ack())

	d2, err := s.Receive(context.Background())
	require.NoError(t, err)
	require.NoError(t, d2.Nack(true))

	assert.Equal(t, []uint64{1}, ack.acks)
	assert.Equal(t, []uint64{2}, ack.nacks)
	assert.Equal(t, []bool{true}, ack.requeue)
}

func TestRabbitSourceHonoursContext(t *testing.T) {
	s := testRabbitSource(make(chan amqp.Delivery))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := s.Receive(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRabbitSourceReconnects(t *testing.T) {
	stale := make(chan amqp.Delivery)
	close(stale)

	fresh := make(chan amqp.Delivery, 1)
	fresh <- amqp.Delivery{Acknowledger: &recordingAcknowledger{}, DeliveryTag: 7, Body: []byte("after")}

	attempts := 0
	s := testRabbitSource(stale)
	s.dial = func(RabbitConfig) (*amqp.Connection, *amqp.Channel, <-chan amqp.Delivery, error) {
		attempts++
		if attempts == 1 {
			return nil, nil, nil, errors.New("connection refused")
		}
		return nil, nil, fresh, nil
	}

	d, err := s.Receive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("after"), d.Body())
	assert.Equal(t, 2, attempts)
}

func TestRabbitSourceClosed(t *testing.T) {
	stale := make(chan amqp.Delivery)
	close(stale)

	// Without a dialer a closed delivery channel ends the source.
	_, err := testRabbitSource(stale).Receive(context.Background())
	assert.ErrorIs(t, err, ErrSourceClosed)

	s := testRabbitSource(make(chan amqp.Delivery))
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	_, err = s.Receive(context.Background())
	assert.ErrorIs(t, err, ErrSourceClosed)
}
