package notify

import (
	"context"
	"fmt"
	"strings"

	"food-rescue-matching/internal/domain"
	"food-rescue-matching/internal/logx"
)

type sender interface {
	Send(ctx context.Context, topic, key string, v any) error
}

// Message is the wire form of a push notification.
type Message struct {
	RecipientID string            `json:"recipient_id"`
	Title       string            `json:"title"`
	Body        string            `json:"body"`
	Data        map[string]string `json:"data,omitempty"`
}

func toMessage(n domain.Notification) Message {
	return Message{
		RecipientID: n.RecipientID,
		Title:       n.Title,
		Body:        n.Body,
		Data:        n.Data,
	}
}

// KafkaNotifier hands notifications to the push channel topic.
type KafkaNotifier struct {
	sender sender
	topic  string
}

// NewKafkaNotifier returns nil when there is no sender or topic.
func NewKafkaNotifier(s sender, topic string) *KafkaNotifier {
	topic = strings.TrimSpace(topic)
	if s == nil || topic == "" {
		return nil
	}
	return &KafkaNotifier{sender: s, topic: topic}
}

// Notify publishes n keyed by recipient.
func (k *KafkaNotifier) Notify(ctx context.Context, n domain.Notification) error {
	if strings.TrimSpace(n.RecipientID) == "" {
		return fmt.Errorf("notify: empty recipient")
	}
	if err := k.sender.Send(ctx, k.topic, n.RecipientID, toMessage(n)); err != nil {
		return fmt.Errorf("notify %s: %w", n.RecipientID, err)
	}
	return nil
}

// LogNotifier writes notifications to the log. Used when Kafka is not configured.
type LogNotifier struct {
	logger logx.Logger
}

// NewLogNotifier creates a LogNotifier; a nil logger discards everything.
func NewLogNotifier(logger logx.Logger) *LogNotifier {
	if logger == nil {
		logger = logx.Nop()
	}
	return &LogNotifier{logger: logger}
}

// Notify logs n at info level and never fails.
func (l *LogNotifier) Notify(_ context.Context, n domain.Notification) error {
	l.logger.Info("notification",
		logx.String("recipient_id", n.RecipientID),
		logx.String("title", n.Title),
		logx.DonationID(n.Data["donationId"]),
		logx.String("assignment_type", n.Data["assignmentType"]),
	)
	return nil
}
