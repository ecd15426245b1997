package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"medimarket/config"
	"medimarket/internal/domain/entity"
	"medimarket/internal/domain/port"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_PublishOrderEvent(t *testing.T) {
	writer := &recordingWriter{}
	publisher := NewKafkaPublisher(writer)
	event := port.OrderEvent{
		Type:        port.OrderEventPaid,
		OrderID:     uuid.New(),
		OrderNumber: "ORD-20240405-ABC123",
		UserID:      uuid.New(),
		Status:      entity.OrderStatusPendingDelivery,
		TotalAmount: decimal.RequireFromString("250"),
		OccurredAt:  time.Date(2024, 4, 5, 10, 0, 0, 0, time.UTC),
	}

	require.NoError(t, publisher.PublishOrderEvent(context.Background(), event))
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, event.OrderID.String(), string(msg.Key))
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, "order.paid", string(msg.Headers[0].Value))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "ORD-20240405-ABC123", decoded["order_number"])
	assert.Equal(t, "PENDING_DELIVERY", decoded["status"])

	require.NoError(t, publisher.Close())
	assert.True(t, writer.closed)
}

func TestKafkaPublisher_WrapsWriteError(t *testing.T) {
	publisher := NewKafkaPublisher(&recordingWriter{err: errors.New("leader not available")})

	err := publisher.PublishOrderEvent(context.Background(), port.OrderEvent{Type: port.OrderEventCreated})

	assert.ErrorContains(t, err, "publish order.created: leader not available")
}

func TestNewKafkaWriter(t *testing.T) {
	writer := NewKafkaWriter(config.KafkaConfig{Brokers: []string{"kafka-1:9092"}, Topic: "medimarket.orders"})

	assert.Equal(t, "medimarket.orders", writer.Topic)
	assert.Equal(t, "kafka-1:9092", writer.Addr.String())
}
