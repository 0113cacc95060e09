package audit

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/artsapp/builder/internal/config"
	"github.com/artsapp/builder/internal/domain/models"
	"github.com/artsapp/builder/internal/domain/service"
	"github.com/artsapp/builder/pkg/logger"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaProducer publishes builder events to a Kafka topic. Messages are keyed by
// key id so the events of one key land on one partition.
type KafkaProducer struct {
	writer messageWriter
	logger logger.Logger
}

var (
	_ service.AuditService   = (*KafkaProducer)(nil)
	_ service.EventPublisher = (*KafkaProducer)(nil)
)

// NewKafkaProducer creates a new KafkaProducer.
func NewKafkaProducer(cfg config.KafkaConfig, log logger.Logger) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: cfg.BatchTimeout,
	}
	return newKafkaProducer(writer, log)
}

func newKafkaProducer(w messageWriter, log logger.Logger) *KafkaProducer {
	return &KafkaProducer{writer: w, logger: log.WithComponent("KafkaProducer")}
}

// Publish sends an event to the topic.
func (p *KafkaProducer) Publish(ctx context.Context, key string, event models.AuditEvent) error {
	bytes, err := json.Marshal(event)
	if err != nil {
		p.logger.Error(ctx, "failed to marshal builder event", err)
		return err
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: bytes,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error(ctx, "failed to write message to Kafka", err,
			logger.String("event_type", string(event.EventType)),
			logger.String("key_id", key),
		)
		return err
	}
	return nil
}

// LogEvent publishes an audit event keyed by its key id, or its entity id for
// events outside a key.
func (p *KafkaProducer) LogEvent(ctx context.Context, event models.AuditEvent) error {
	key := event.KeyID
	if key == "" {
		key = event.EntityID
	}
	return p.Publish(ctx, key, event)
}

// Close closes the underlying Kafka writer.
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
