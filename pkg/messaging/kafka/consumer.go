package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"

	"github.com/altmarkets/limitbook/pkg/messaging"
)

// EventHandler processes one decoded engine event
type EventHandler func(event *messaging.Event) error

// EventConsumer reads the engine's event stream from Kafka
type EventConsumer struct {
	consumer sarama.Consumer
	topic    string
}

// NewEventConsumer creates a consumer for the given broker and topic
func NewEventConsumer(brokerAddr, topic string) (*EventConsumer, error) {
	config := sarama.NewConfig()
	config.Consumer.Return.Errors = true

	consumer, err := sarama.NewConsumer([]string{brokerAddr}, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka consumer: %w", err)
	}

	return &EventConsumer{
		consumer: consumer,
		topic:    topic,
	}, nil
}

// ConsumeEvents reads events from the newest offset of every partition and
// dispatches them to the handler until the context is done
func (c *EventConsumer) ConsumeEvents(ctx context.Context, handler EventHandler) error {
	partitions, err := c.consumer.Partitions(c.topic)
	if err != nil {
		return fmt.Errorf("failed to list partitions: %w", err)
	}

	messages := make(chan *sarama.ConsumerMessage)
	for _, partition := range partitions {
		pc, err := c.consumer.ConsumePartition(c.topic, partition, sarama.OffsetNewest)
		if err != nil {
			return fmt.Errorf("failed to consume partition %d: %w", partition, err)
		}
		go func(pc sarama.PartitionConsumer) {
			defer pc.Close()
			for {
				select {
				case msg := <-pc.Messages():
					select {
					case messages <- msg:
					case <-ctx.Done():
						return
					}
				case <-ctx.Done():
					return
				}
			}
		}(pc)
	}

	for {
		select {
		case msg := <-messages:
			var event messaging.Event
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to decode event: %w", err)
			}
			if err := handler(&event); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close closes the underlying consumer
func (c *EventConsumer) Close() error {
	return c.consumer.Close()
}
