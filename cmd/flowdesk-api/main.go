package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dukex/flowdesk/pkg/channels/kafka"
	"github.com/dukex/flowdesk/pkg/cmd"
	"github.com/dukex/flowdesk/pkg/config"
	"github.com/dukex/flowdesk/pkg/log"
	"github.com/dukex/flowdesk/pkg/otelhelper"
	cli "github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel/trace"
)

func main() {
	logger := log.WithModule("api")

	command := &cli.Command{
		Name:                  "flowdesk-api",
		Usage:                 "Serve the workflow builder API",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML settings file; flags and environment variables override it",
				Sources: cli.EnvVars("FLOWDESK_CONFIG"),
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   config.DefaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "Storage URL (memory://, file://dir, postgres://..., redis://...)",
				Value:   config.DefaultDatabaseURL,
				Sources: cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus type (gochannel, kafka)",
				Value:   config.DefaultEventBus,
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "kafka-brokers",
				Usage:   "Comma separated Kafka brokers",
				Sources: cli.EnvVars("KAFKA_BROKERS"),
			},
			&cli.BoolFlag{
				Name:    "otel-enabled",
				Usage:   "Export traces over OTLP HTTP",
				Sources: cli.EnvVars("OTEL_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   config.DefaultLogLevel,
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			cfg, err := loadConfig(command)
			if err != nil {
				return err
			}

			log.Setup(cfg.LogLevel)

			logger.InfoContext(ctx, "Initializing Flowdesk API", "event_bus", cfg.EventBus, "port", cfg.Port)

			tracer := otelhelper.NoopTracer()

			if cfg.OtelEnabled {
				var shutdown otelhelper.ShutdownFunc

				tracer, shutdown, err = otelhelper.NewTracer(ctx, "flowdesk-api")
				if err != nil {
					return fmt.Errorf("failed to initialize tracer: %w", err)
				}

				defer func() {
					if err := shutdown(context.Background()); err != nil {
						logger.ErrorContext(ctx, "Failed to shutdown tracer provider", "error", err)
					}
				}()
			}

			return run(ctx, cfg, tracer)
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		logger.Error("Flowdesk API stopped", "error", err)
		os.Exit(1)
	}
}

// loadConfig reads the optional settings file and applies every flag that
// was set explicitly or through its environment variable.
func loadConfig(command *cli.Command) (config.Config, error) {
	cfg := config.Default()

	if path := command.String("config"); path != "" {
		var err error

		cfg, err = config.Load(path)
		if err != nil {
			return cfg, err
		}
	}

	if command.IsSet("port") {
		cfg.Port = int(command.Int("port"))
	}

	if command.IsSet("database-url") {
		cfg.DatabaseURL = command.String("database-url")
	}

	if command.IsSet("event-bus") {
		cfg.EventBus = command.String("event-bus")
	}

	if command.IsSet("kafka-brokers") {
		cfg.KafkaBrokers = kafka.ParseBrokers(command.String("kafka-brokers"))
	}

	if command.IsSet("otel-enabled") {
		cfg.OtelEnabled = command.Bool("otel-enabled")
	}

	if command.IsSet("log-level") {
		cfg.LogLevel = command.String("log-level")
	}

	return cfg, cfg.Validate()
}

func run(ctx context.Context, cfg config.Config, tracer trace.Tracer) error {
	logger := log.WithModule("api")

	store, err := cmd.NewPersistence(ctx, logger, cfg.DatabaseURL)
	if err != nil {
		return err
	}

	bus, err := cmd.NewEventBus(cfg.EventBus, logger, cfg.KafkaBrokers, cfg.OtelEnabled)
	if err != nil {
		_ = store.Close(ctx)

		return err
	}

	components, err := cmd.NewComponents(ctx, logger, store, bus, tracer)
	if err != nil {
		_ = bus.Close()
		_ = store.Close(ctx)

		return err
	}

	defer func() {
		err := components.Close(context.Background())
		if err != nil {
			logger.ErrorContext(ctx, "Failed to close components", "error", err)
		}
	}()

	return NewAPI(logger, components).Start(cfg.Port)
}
