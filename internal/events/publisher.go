package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"go.uber.org/fx"

	"github.com/schoolofsharks/trainingcal/internal/observability"
	"github.com/schoolofsharks/trainingcal/internal/shared/config"
)

type messageWriter interface {
	WriteMessages(context.Context, ...kafka.Message) error
	Close() error
}

// Publisher writes AssignmentChanged events to Kafka. Without configured brokers it only logs.
type Publisher struct {
	writer messageWriter
	logger zerolog.Logger
}

// NewPublisher builds the publisher and closes its writer when the application stops.
func NewPublisher(lc fx.Lifecycle, cfg *config.Config, logger zerolog.Logger) *Publisher {
	logger = logger.With().Str("component", "events").Logger()
	if !cfg.KafkaEnabled() {
		logger.Info().Msg("Kafka brokers not configured, assignment events stay local")
		return newPublisher(nil, logger)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Compression:  kafka.Snappy,
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return writer.Close()
		},
	})

	logger.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("Kafka publisher configured")
	return newPublisher(writer, logger)
}

func newPublisher(writer messageWriter, logger zerolog.Logger) *Publisher {
	return &Publisher{writer: writer, logger: logger}
}

// PublishAssignmentChanged writes evt keyed by athlete.
func (p *Publisher) PublishAssignmentChanged(ctx context.Context, evt AssignmentChanged) error {
	if p.writer == nil {
		p.logger.Debug().Str("event_id", evt.EventID).Str("action", string(evt.Action)).Msg("Skipping publish, Kafka disabled")
		return nil
	}

	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal assignment event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.PartitionKey()),
		Value: body,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventType)},
			{Key: "event_id", Value: []byte(evt.EventID)},
		},
		Time: evt.OccurredAt,
	})
	observability.RecordEventPublished(string(evt.Action), err)
	if err != nil {
		return fmt.Errorf("publish assignment event %s: %w", evt.EventID, err)
	}
	return nil
}
