package app

import (
	"context"
	"errors"
	"time"

	"food-rescue-matching/internal/apperr"
	"food-rescue-matching/internal/config"
	"food-rescue-matching/internal/domain"
	"food-rescue-matching/internal/gateway/notify"
	"food-rescue-matching/internal/logx"
	"food-rescue-matching/internal/metrics"
	"food-rescue-matching/internal/service/matching"
	"food-rescue-matching/internal/service/offers"
	"food-rescue-matching/internal/transport/kafka"
)

var publishRetry = kafka.RetryConfig{
	MaxAttempts: 3,
	BaseDelay:   100 * time.Millisecond,
	MaxDelay:    time.Second,
}

type eventHandler interface {
	Handle(ctx context.Context, e matching.Event) error
}

// kafkaHandler adapts the trigger processor to the consumer; invalid events are never retried.
func kafkaHandler(h eventHandler) kafka.HandleFunc {
	return func(ctx context.Context, e matching.Event) error {
		err := h.Handle(ctx, e)
		if err != nil && errors.Is(err, apperr.ErrInvalid) {
			return kafka.Permanent(err)
		}
		return err
	}
}

func eventTopics(k config.Kafka) map[string]string {
	return map[string]string{
		k.TopicDonationCreated:   matching.EventDonationCreated,
		k.TopicAssignmentCreated: matching.EventAssignmentCreated,
		k.TopicAssignmentUpdated: matching.EventAssignmentUpdated,
	}
}

func newConsumer(cfg *config.Config, logger logx.Logger, p *matching.Processor) (*kafka.Consumer, error) {
	return kafka.NewConsumer(logger, cfg.Kafka.Brokers, cfg.Kafka.GroupID, eventTopics(cfg.Kafka), kafkaHandler(p))
}

func newProducer(cfg *config.Config) (*kafka.Producer, error) {
	return kafka.NewProducer(cfg.Kafka.Brokers)
}

func newPublisher(cfg *config.Config, p *kafka.Producer, m *metrics.Matching, logger logx.Logger) offers.Publisher {
	if p == nil || cfg.Kafka.TopicAssignmentUpdated == "" {
		return disabledPublisher{logger: logger}
	}
	sender := kafka.NewRetryingSender(p, logger, m.PublishRetries, publishRetry)
	return kafka.NewTransitionPublisher(sender, cfg.Kafka.TopicAssignmentUpdated)
}

func newNotifier(cfg *config.Config, p *kafka.Producer, logger logx.Logger) offers.Notifier {
	if p == nil {
		return notify.NewLogNotifier(logger)
	}
	if n := notify.NewKafkaNotifier(p, cfg.Kafka.TopicNotifications); n != nil {
		return n
	}
	return notify.NewLogNotifier(logger)
}

// disabledPublisher stands in when Kafka is not configured; the triggers then never see API answers.
type disabledPublisher struct {
	logger logx.Logger
}

func (d disabledPublisher) PublishTransition(_ context.Context, t domain.Transition) error {
	d.logger.Warn("kafka disabled, assignment update not published",
		logx.DonationID(t.DonationID),
		logx.AssignmentID(t.AssignmentID),
		logx.String("status", string(t.To)),
	)
	return nil
}
