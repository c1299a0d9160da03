package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"

	"github.com/altmarkets/limitbook/config"
	"github.com/altmarkets/limitbook/pkg/backend/memory"
	"github.com/altmarkets/limitbook/pkg/core"
	"github.com/altmarkets/limitbook/pkg/feeder"
	"github.com/altmarkets/limitbook/pkg/logging"
	"github.com/altmarkets/limitbook/pkg/messaging"
	"github.com/altmarkets/limitbook/pkg/messaging/kafka"
	"github.com/altmarkets/limitbook/pkg/otel"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "feeder: %v\n", err)
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
	logger := log.With().Str("component", "feeder").Logger()

	shutdown, err := otel.Init(otel.Config{
		Endpoint:         cfg.Otel.Endpoint,
		CollectorEnabled: cfg.Otel.Enabled,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var sender messaging.MessageSender = messaging.NoopSender{}
	if cfg.Kafka.Enabled {
		kafkaSender, err := kafka.NewEventSender(cfg.Kafka.BrokerAddr, cfg.Kafka.Topic)
		if err != nil {
			return fmt.Errorf("create kafka sender: %w", err)
		}
		sender = kafkaSender
		logger.Info().Str("broker", cfg.Kafka.BrokerAddr).Str("topic", cfg.Kafka.Topic).Msg("Publishing events to Kafka")
	}
	defer sender.Close()

	book := core.NewOrderBook(memory.NewMemoryBackend(), core.WithMessageSender(sender))

	feedCfg, err := feeder.LoadConfig()
	if err != nil {
		return fmt.Errorf("load feeder config: %w", err)
	}

	commands := feeder.DefaultSequence()
	if cfg.Feed.File != "" {
		commands, err = feeder.LoadCommands(cfg.Feed.File)
		if err != nil {
			return fmt.Errorf("load feed: %w", err)
		}
		logger.Info().Str("file", cfg.Feed.File).Int("commands", len(commands)).Msg("Loaded feed file")
	}

	if err := feeder.New(book, feedCfg, logger).Run(ctx, commands); err != nil {
		return fmt.Errorf("run feed: %w", err)
	}

	fmt.Print(book)
	return nil
}
