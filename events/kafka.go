package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	"fuko-store/models"
)

// envelope is the message value published for every order event
type envelope struct {
	Type       string       `json:"type"`
	OrderID    string       `json:"order_id"`
	OccurredAt time.Time    `json:"occurred_at"`
	Payload    models.Event `json:"payload"`
}

// kafkaMessageWriter abstracts kafka.Writer for testability
type kafkaMessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaDispatcher publishes order events keyed by order id
type KafkaDispatcher struct {
	writer  kafkaMessageWriter
	timeout time.Duration
	now     func() time.Time
}

func NewKafkaDispatcher(brokers []string, topic string) *KafkaDispatcher {
	return NewKafkaDispatcherWith(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		// WriteMessages only enqueues; delivery errors surface in Completion
		Async:        true,
		BatchTimeout: 50 * time.Millisecond,
		Completion:   logDeliveryFailure,
	})
}

func logDeliveryFailure(messages []kafka.Message, err error) {
	if err != nil {
		log.WithError(err).WithField("messages", len(messages)).Error("Failed to publish order events")
	}
}

// NewKafkaDispatcherWith wraps an existing writer
func NewKafkaDispatcherWith(w kafkaMessageWriter) *KafkaDispatcher {
	return &KafkaDispatcher{writer: w, timeout: 5 * time.Second, now: time.Now}
}

func (k *KafkaDispatcher) Dispatch(event models.Event) error {
	orderID := models.EventOrderID(event)
	b, err := json.Marshal(envelope{
		Type:       event.Type(),
		OrderID:    orderID,
		OccurredAt: k.now().UTC(),
		Payload:    event,
	})
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}

	ctx, cancel := context.WithTimeout(context.Background(), k.timeout)
	defer cancel()
	err = k.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(orderID),
		Value:   b,
		Headers: []kafka.Header{{Key: "event_type", Value: []byte(event.Type())}},
	})
	return errors.Wrap(err, "publish event")
}

func (k *KafkaDispatcher) Close() error { return k.writer.Close() }
