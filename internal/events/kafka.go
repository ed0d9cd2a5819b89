package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/erazemk/izposoja/internal/model"
)

// DefaultTopic is the Kafka topic notification events are written to.
const DefaultTopic = "izposoja.notifications"

// Kafka publishes events to a Kafka topic, keyed by recipient so that one
// user's events stay ordered within a partition.
type Kafka struct {
	producer sarama.SyncProducer
	topic    string
	logger   *zap.Logger
	now      func() time.Time
}

// NewKafka connects a synchronous producer to brokers.
func NewKafka(brokers []string, topic string, logger *zap.Logger) (*Kafka, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Retry.Backoff = 100 * time.Millisecond
	cfg.Net.DialTimeout = 10 * time.Second
	cfg.Net.ReadTimeout = 10 * time.Second
	cfg.Net.WriteTimeout = 10 * time.Second

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating kafka producer: %w", err)
	}

	logger.Info("kafka producer connected", zap.Strings("brokers", brokers), zap.String("topic", topic))
	return NewKafkaWithProducer(producer, topic, logger), nil
}

// NewKafkaWithProducer wraps an existing producer.
func NewKafkaWithProducer(producer sarama.SyncProducer, topic string, logger *zap.Logger) *Kafka {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Kafka{
		producer: producer,
		topic:    topic,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Publish implements Publisher.
func (k *Kafka) Publish(ctx context.Context, e model.Event) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("publishing event: %w", err)
	}

	msg, err := k.message(e)
	if err != nil {
		return err
	}

	partition, offset, err := k.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("publishing event: %w", err)
	}

	k.logger.Debug("event published",
		zap.String("topic", k.topic),
		zap.String("type", string(e.Type)),
		zap.String("user_id", e.UserID),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
	)
	return nil
}

func (k *Kafka) message(e model.Event) (*sarama.ProducerMessage, error) {
	env := Envelope{
		EventID:    uuid.NewString(),
		OccurredAt: k.now(),
		Event:      e,
	}
	value, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshaling event: %w", err)
	}

	return &sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(e.UserID),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-type"), Value: []byte(e.Type)},
			{Key: []byte("event-id"), Value: []byte(env.EventID)},
		},
	}, nil
}

// Close implements Publisher.
func (k *Kafka) Close() error {
	return k.producer.Close()
}
