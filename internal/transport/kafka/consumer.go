package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/IBM/sarama"

	"food-rescue-matching/internal/logx"
	"food-rescue-matching/internal/service/matching"
)

// HandleFunc processes a single matching.Event from Kafka
type HandleFunc func(context.Context, matching.Event) error

var newConsumerGroup = sarama.NewConsumerGroup

const consumeRetryDelay = time.Second

// Consumer wraps a Sarama consumer group and dispatches events to a handler.
// Each subscribed topic carries one event type.
type Consumer struct {
	group   sarama.ConsumerGroup
	types   map[string]string
	handler HandleFunc
	logger  logx.Logger
}

// NewConsumer creates a new Kafka consumer for topics (topic -> event type).
// It returns nil when Kafka is not configured.
func NewConsumer(logger logx.Logger, brokers []string, groupID string, topics map[string]string, h HandleFunc) (*Consumer, error) {
	types := make(map[string]string, len(topics))
	for topic, eventType := range topics {
		if topic = strings.TrimSpace(topic); topic != "" {
			types[topic] = eventType
		}
	}
	if len(brokers) == 0 || len(types) == 0 || strings.TrimSpace(groupID) == "" {
		return nil, nil
	}

	cfg := sarama.NewConfig()
	cfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	cfg.Consumer.Return.Errors = false

	group, err := newConsumerGroup(brokers, groupID, cfg)
	if err != nil {
		return nil, err
	}

	return &Consumer{
		group:   group,
		types:   types,
		handler: h,
		logger:  logger,
	}, nil
}

// Topics returns the subscribed topics in a stable order.
func (c *Consumer) Topics() []string {
	out := make([]string, 0, len(c.types))
	for t := range c.types {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Run consumes until ctx is done.
func (c *Consumer) Run(ctx context.Context) error {
	if c == nil {
		return nil
	}

	h := &groupHandler{c: c}
	topics := c.Topics()

	for {
		if err := c.group.Consume(ctx, topics, h); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			c.logger.Error("kafka consume error", logx.Err(err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(consumeRetryDelay):
			}
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// Close closes the consumer group.
func (c *Consumer) Close() error {
	if c == nil {
		return nil
	}
	return c.group.Close()
}

type groupHandler struct{ c *Consumer }

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim marks a message only after it was handled or found permanently broken,
// so a failed trigger is redelivered.
func (h *groupHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		log := h.c.logger.With(
			logx.String("topic", msg.Topic),
			logx.Int("partition", int(msg.Partition)),
			logx.Any("offset", msg.Offset),
		)

		topic := msg.Topic
		if topic == "" {
			topic = claim.Topic()
		}
		eventType := h.c.types[topic]

		var dto EventDTO
		if err := json.Unmarshal(msg.Value, &dto); err != nil {
			log.Warn("kafka bad json", logx.Err(err))
			sess.MarkMessage(msg, "")
			continue
		}
		ev, err := ToDomain(eventType, dto)
		if err != nil {
			log.Warn("kafka invalid event", logx.Err(err))
			sess.MarkMessage(msg, "")
			continue
		}

		if err := h.c.handler(sess.Context(), ev); err != nil {
			if IsPermanent(err) {
				log.Warn("kafka permanent failure, skipping message",
					logx.DonationID(ev.DonationID),
					logx.AssignmentID(ev.AssignmentID),
					logx.Err(err),
				)
				sess.MarkMessage(msg, "")
				continue
			}
			log.Error("kafka handle failed, will retry",
				logx.String("event", ev.Type),
				logx.DonationID(ev.DonationID),
				logx.AssignmentID(ev.AssignmentID),
				logx.Err(err),
			)
			return err
		}

		sess.MarkMessage(msg, "")
	}
	return nil
}
