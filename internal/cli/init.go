// Package cli provides the startup wiring shared by every fintrack command:
// environment loading, configuration, logging, the ledger and event sinks.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"fintrack/internal/amqp"
	"fintrack/internal/backend"
	"fintrack/internal/config"
	"fintrack/internal/events"
	"fintrack/internal/events/kafka"
	"fintrack/internal/ledger"
	"fintrack/internal/log"
	"fintrack/internal/services"

	"github.com/joho/godotenv"
	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupLogger initializes structured logging from the configuration and sets
// it as the default logger. Records go to LOG_FILE through a rotating writer
// when one is configured, otherwise to stderr.
func SetupLogger(cfg *config.Config) (*log.Logger, io.Closer, error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	var (
		out    io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
	)
	if cfg.LogFile != "" {
		rotating := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		out, closer = rotating, rotating
	}

	logger := log.New(log.Config{
		Level:     level,
		Component: log.ComponentApp,
		Output:    out,
	})
	log.SetDefault(logger)
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as the file is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration from the environment, applies
// overrides and validates the result.
func LoadAndValidateConfig(overrides ...func(*config.Config)) (*config.Config, error) {
	cfg := config.Load()
	for _, o := range overrides {
		o(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// OpenLedger opens the configured storage backend, loads the ledger and
// wraps it in a LedgerService publishing to the configured event sinks.
func OpenLedger(ctx context.Context, cfg *config.Config, logger *log.Logger, opts ...ledger.Option) (*services.LedgerService, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}

	b, err := backend.NewFactory(logger.WithComponent(log.ComponentBackend)).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ledger.ErrLoad, err)
	}

	opts = append([]ledger.Option{ledger.WithLogger(logger.WithComponent(log.ComponentLedger))}, opts...)
	store, err := ledger.Open(ctx, b, opts...)
	if err != nil {
		b.Close()
		return nil, err
	}

	publisher := NewPublisher(cfg, logger)
	return services.NewLedgerService(store, publisher, logger.WithComponent(log.ComponentEvents)), nil
}

// NewPublisher builds the event publisher for the configured sinks. A sink
// that cannot be reached is skipped with a warning; the ledger works without
// events.
func NewPublisher(cfg *config.Config, logger *log.Logger) events.Publisher {
	var sinks events.Multi

	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey)
		if err != nil {
			logger.WithComponent(log.ComponentAMQP).Warn("Failed to initialize AMQP client, continuing without it", log.FieldError, err)
		} else {
			logger.WithComponent(log.ComponentAMQP).Info("Initialized AMQP client",
				"exchange", cfg.AMQPExchange,
				"routing_key", cfg.AMQPRoutingKey)
			sinks = append(sinks, client)
		}
	}

	if len(cfg.KafkaBrokers) > 0 {
		sinks = append(sinks, kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic))
		logger.WithComponent(log.ComponentKafka).Info("Initialized Kafka publisher",
			"brokers", cfg.KafkaBrokers,
			"topic", cfg.KafkaTopic)
	}

	switch len(sinks) {
	case 0:
		return events.Nop{}
	case 1:
		return sinks[0]
	default:
		return sinks
	}
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		logger.Debug("Shutdown signal received", log.FieldOperation, log.OpShutdown)
	}()
	return ctx, stop
}
