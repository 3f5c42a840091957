package kafka

import (
	"context"
	"time"

	"food-rescue-matching/internal/domain"
)

type sender interface {
	Send(ctx context.Context, topic, key string, v any) error
}

// TransitionPublisher announces assignment status changes on the assignment-updated topic.
// Messages are keyed by donation so that all changes of one donation stay ordered.
type TransitionPublisher struct {
	sender sender
	topic  string
	now    func() time.Time
}

// NewTransitionPublisher creates a new TransitionPublisher.
func NewTransitionPublisher(s sender, topic string) *TransitionPublisher {
	return &TransitionPublisher{sender: s, topic: topic, now: func() time.Time { return time.Now().UTC() }}
}

// PublishTransition implements offers.Publisher.
func (p *TransitionPublisher) PublishTransition(ctx context.Context, t domain.Transition) error {
	return p.sender.Send(ctx, p.topic, t.DonationID, FromTransition(t, p.now()))
}
