package events

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"go.uber.org/fx"

	"github.com/schoolofsharks/trainingcal/internal/observability"
	"github.com/schoolofsharks/trainingcal/internal/shared/config"
)

// Reader is the part of kafka.Reader the consumer needs.
type Reader interface {
	FetchMessage(context.Context) (kafka.Message, error)
	CommitMessages(context.Context, ...kafka.Message) error
	Close() error
}

// Handler reacts to a decoded assignment change.
type Handler interface {
	HandleAssignmentChanged(context.Context, AssignmentChanged) error
}

const handleAttempts = 3

// Consumer pulls assignment events and hands them to a Handler. A record is retried in place a few
// times; after that it is logged, dropped and committed. The reader has already moved past it, so
// leaving it uncommitted would not bring it back.
type Consumer struct {
	reader        Reader
	handler       Handler
	logger        zerolog.Logger
	fetchBackoff  time.Duration
	handleBackoff time.Duration
}

func NewConsumer(reader Reader, handler Handler, logger zerolog.Logger) *Consumer {
	return &Consumer{
		reader:        reader,
		handler:       handler,
		logger:        logger,
		fetchBackoff:  time.Second,
		handleBackoff: 200 * time.Millisecond,
	}
}

// Run blocks until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return context.Canceled
			}
			c.logger.Error().Err(err).Msg("Failed to fetch assignment event")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.fetchBackoff):
			}
			continue
		}

		var evt AssignmentChanged
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			c.logger.Warn().Err(err).Int("partition", msg.Partition).Int64("offset", msg.Offset).Msg("Dropping undecodable assignment event")
			observability.RecordEventConsumed("decode_error")
			// Commit so a poison record does not block the partition.
			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				c.logger.Error().Err(err).Msg("Failed to commit undecodable event")
			}
			continue
		}

		result := observability.ResultOK
		if err := c.handle(ctx, evt); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Error().Err(err).Str("event_id", evt.EventID).Int64("user_id", evt.UserID).Msg("Dropping assignment event after retries")
			result = "handler_error"
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error().Err(err).Str("event_id", evt.EventID).Msg("Failed to commit assignment event")
			continue
		}
		observability.RecordEventConsumed(result)
	}
}

func (c *Consumer) handle(ctx context.Context, evt AssignmentChanged) error {
	var err error
	for attempt := 1; attempt <= handleAttempts; attempt++ {
		if err = c.handler.HandleAssignmentChanged(ctx, evt); err == nil {
			return nil
		}
		c.logger.Warn().Err(err).Str("event_id", evt.EventID).Int("attempt", attempt).Msg("Failed to handle assignment event")
		if attempt == handleAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.handleBackoff):
		}
	}
	return err
}

// RegisterConsumer runs a Consumer for the lifetime of the fx application when Kafka is configured.
func RegisterConsumer(lc fx.Lifecycle, cfg *config.Config, handler Handler, logger zerolog.Logger) {
	logger = logger.With().Str("component", "events").Logger()
	if !cfg.KafkaEnabled() {
		return
	}

	groupID := instanceGroupID(cfg.KafkaGroupID)
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.KafkaBrokers,
		GroupID:  groupID,
		Topic:    cfg.KafkaTopic,
		MinBytes: 1,
		MaxBytes: 1 << 20,
	})
	consumer := NewConsumer(reader, handler, logger)

	var (
		cancel context.CancelFunc
		done   = make(chan struct{})
	)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			var ctx context.Context
			ctx, cancel = context.WithCancel(context.Background())
			go func() {
				defer close(done)
				if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error().Err(err).Msg("Assignment event consumer stopped")
				}
			}()
			logger.Info().Str("topic", cfg.KafkaTopic).Str("group_id", groupID).Msg("Assignment event consumer started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-ctx.Done():
			}
			return reader.Close()
		},
	})
}

// instanceGroupID gives every instance its own consumer group so each one sees every event and
// can drop its own cached months.
func instanceGroupID(prefix string) string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = uuid.NewString()
	}
	return prefix + "-" + host
}
