package pkg

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

type KafkaConfig struct {
	Brokers      []string
	Topic        string
	Async        bool
	BatchTimeout time.Duration
}

// KafkaProducer wraps a hash-balanced writer. Messages sharing a key land in
// one partition, which keeps per-recipient delivery ordered.
type KafkaProducer struct {
	writer *kafka.Writer
}

func NewKafkaProducer(cfg KafkaConfig) *KafkaProducer {
	batch := cfg.BatchTimeout
	if batch <= 0 {
		batch = 50 * time.Millisecond
	}
	return &KafkaProducer{writer: &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        cfg.Async,
		BatchTimeout: batch,
	}}
}

func (p *KafkaProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

func (p *KafkaProducer) Send(ctx context.Context, key, value []byte) error {
	return p.writer.WriteMessages(ctx, kafka.Message{Key: key, Value: value})
}
