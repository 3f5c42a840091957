package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
)

var newSyncProducer = sarama.NewSyncProducer

// Producer publishes JSON messages with a sarama SyncProducer.
type Producer struct {
	sp sarama.SyncProducer
}

// NewProducer creates a Producer. It returns nil when no brokers are configured.
func NewProducer(brokers []string) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, nil
	}
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Net.MaxOpenRequests = 1
	cfg.Producer.Retry.Max = 3

	sp, err := newSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}
	return NewProducerFrom(sp), nil
}

// NewProducerFrom wraps an already connected SyncProducer.
func NewProducerFrom(sp sarama.SyncProducer) *Producer {
	return &Producer{sp: sp}
}

// Send marshals v and publishes it to topic, keyed for per-key ordering.
func (p *Producer) Send(ctx context.Context, topic, key string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(v)
	if err != nil {
		return Permanent(fmt.Errorf("marshal %s message: %w", topic, err))
	}
	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(body),
	}
	if _, _, err := p.sp.SendMessage(msg); err != nil {
		return fmt.Errorf("send to %s: %w", topic, err)
	}
	return nil
}

// Close flushes and closes the producer.
func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.sp.Close()
}
