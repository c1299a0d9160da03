package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/altmarkets/limitbook/pkg/messaging"
)

// EventSender implements messaging.MessageSender using Kafka
type EventSender struct {
	writer *kafka.Writer
	topic  string
}

// NewEventSender creates a new Kafka event sender
func NewEventSender(brokerAddr, topic string) (*EventSender, error) {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokerAddr),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}

	return &EventSender{
		writer: writer,
		topic:  topic,
	}, nil
}

// SendEvents writes one Kafka message per event, keyed by order id so that
// all events of an order land on the same partition in order
func (k *EventSender) SendEvents(ctx context.Context, events []messaging.Event) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		data, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("failed to marshal event: %w", err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(event.OrderID),
			Value: data,
			Time:  time.Now(),
		})
	}

	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := k.writer.WriteMessages(writeCtx, msgs...); err != nil {
		return fmt.Errorf("failed to send events to Kafka: %w", err)
	}

	return nil
}

// Close closes the Kafka writer
func (k *EventSender) Close() error {
	return k.writer.Close()
}

// Ensure EventSender implements MessageSender
var _ messaging.MessageSender = (*EventSender)(nil)
