package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"whisperstudio/types"

	"github.com/IBM/sarama"
)

// Publisher sends run events somewhere
type Publisher interface {
	Publish(ctx context.Context, event types.RunEvent) error
	Close() error
}

// ProducerConfig holds Kafka producer configuration
type ProducerConfig struct {
	Brokers []string
	Topic   string
}

// KafkaPublisher publishes run events keyed by run ID, so all events of a
// run land on one partition in order
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaPublisher creates a synchronous Kafka producer
func NewKafkaPublisher(config ProducerConfig) (*KafkaPublisher, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Producer.RequiredAcks = sarama.WaitForLocal
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Retry.Max = 3

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	return NewKafkaPublisherFromProducer(producer, config.Topic), nil
}

// NewKafkaPublisherFromProducer wraps an existing producer
func NewKafkaPublisherFromProducer(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

// Publish sends one event
func (p *KafkaPublisher) Publish(ctx context.Context, event types.RunEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.RunID),
		Value: sarama.ByteEncoder(value),
	})
	if err != nil {
		return fmt.Errorf("send event: %w", err)
	}

	log.Printf("📤 Run event %s/%s sent: partition=%d, offset=%d", event.RunID, event.State, partition, offset)
	return nil
}

// Close flushes and closes the producer
func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// NopPublisher drops every event; used when Kafka is not configured
type NopPublisher struct{}

// Publish implements Publisher
func (NopPublisher) Publish(context.Context, types.RunEvent) error { return nil }

// Close implements Publisher
func (NopPublisher) Close() error { return nil }

// NewPublisher returns a Kafka publisher when brokers are configured and a
// no-op publisher otherwise. Connection failures fall back to the no-op.
func NewPublisher(config ProducerConfig) Publisher {
	if len(config.Brokers) == 0 {
		log.Printf("Kafka not configured; run events disabled")
		return NopPublisher{}
	}
	p, err := NewKafkaPublisher(config)
	if err != nil {
		log.Printf("Warning: %v (run events disabled)", err)
		return NopPublisher{}
	}
	log.Printf("✅ Publishing run events to %s on %v", config.Topic, config.Brokers)
	return p
}
