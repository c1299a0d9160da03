package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"

	"github.com/altmarkets/limitbook/config"
	"github.com/altmarkets/limitbook/pkg/logging"
	"github.com/altmarkets/limitbook/pkg/messaging"
	"github.com/altmarkets/limitbook/pkg/messaging/kafka"
)

func main() {
	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "eventsink: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Setup(logging.Config{
		Level:  cfg.Server.LogLevel,
		Pretty: cfg.Server.LogFormat == "pretty",
	})
	logger := log.With().Str("component", "eventsink").Logger()

	consumer, err := kafka.NewEventConsumer(cfg.Kafka.BrokerAddr, cfg.Kafka.Topic)
	if err != nil {
		return fmt.Errorf("create consumer: %w", err)
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info().
		Str("broker", cfg.Kafka.BrokerAddr).
		Str("topic", cfg.Kafka.Topic).
		Msg("Consuming engine events")

	return consumer.ConsumeEvents(ctx, func(event *messaging.Event) error {
		evt := logger.Info().
			Str("kind", string(event.Kind)).
			Str("order_id", event.OrderID)
		if event.RestingID != "" {
			evt = evt.Str("resting_id", event.RestingID)
		}
		if event.Price != "" {
			evt = evt.Str("price", event.Price)
		}
		if event.Quantity != "" {
			evt = evt.Str("quantity", event.Quantity)
		}
		if event.Reason != "" {
			evt = evt.Str("reason", event.Reason)
		}
		evt.Msg("Engine event")
		return nil
	})
}
