package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"food-rescue-matching/internal/domain"
	testlog "food-rescue-matching/internal/testutil"
)

type sentMessage struct {
	topic string
	key   string
	value any
}

type senderStub struct {
	mu     sync.Mutex
	sendFn func(attempt int) error
	sent   []sentMessage
}

func (s *senderStub) Send(_ context.Context, topic, key string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentMessage{topic: topic, key: key, value: v})
	if s.sendFn == nil {
		return nil
	}
	return s.sendFn(len(s.sent))
}

func (s *senderStub) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

type counterStub struct {
	mu sync.Mutex
	n  int
}

func (c *counterStub) Inc() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
}

func (c *counterStub) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

func TestTransitionPublisher_KeysByDonation(t *testing.T) {
	t.Parallel()

	s := &senderStub{}
	at := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)
	p := NewTransitionPublisher(s, "assignments.updated")
	p.now = func() time.Time { return at }

	err := p.PublishTransition(context.Background(), domain.Transition{
		AssignmentID: "a1",
		DonationID:   "d1",
		Kind:         domain.KindOrgOffer,
		From:         domain.AssignmentPending,
		To:           domain.AssignmentRejected,
	})
	require.NoError(t, err)
	require.Len(t, s.sent, 1)
	require.Equal(t, "assignments.updated", s.sent[0].topic)
	require.Equal(t, "d1", s.sent[0].key)
	require.Equal(t, EventDTO{
		DonationID:   "d1",
		AssignmentID: "a1",
		Kind:         "ORG_OFFER",
		PrevStatus:   "pending",
		Status:       "rejected",
		OccurredAt:   at,
	}, s.sent[0].value)
}

func TestRetryingSender_RetriesThenSucceeds(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	next := &senderStub{sendFn: func(attempt int) error {
		if attempt < 3 {
			return errors.New("leader not available")
		}
		return nil
	}}
	ctr := &counterStub{}

	s := NewRetryingSender(next, rec.Logger(), ctr, RetryConfig{MaxAttempts: 5})
	require.NotNil(t, s)
	require.NoError(t, s.Send(context.Background(), "t", "k", "v"))
	require.Equal(t, 3, next.calls())
	require.Equal(t, 2, ctr.count())
	require.True(t, rec.Has("warn", "kafka send retry"))
}

func TestRetryingSender_NoRetryOnPermanent(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	next := &senderStub{sendFn: func(int) error {
		return Permanent(errors.New("bad payload"))
	}}
	ctr := &counterStub{}

	s := NewRetryingSender(next, rec.Logger(), ctr, RetryConfig{MaxAttempts: 5})
	err := s.Send(context.Background(), "t", "k", "v")
	require.ErrorAs(t, err, new(PermanentError))
	require.Equal(t, 1, next.calls())
	require.Equal(t, 0, ctr.count())
}

func TestRetryingSender_GivesUpAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	sentinel := errors.New("broker down")
	next := &senderStub{sendFn: func(int) error { return sentinel }}

	s := NewRetryingSender(next, rec.Logger(), nil, RetryConfig{MaxAttempts: 3})
	require.ErrorIs(t, s.Send(context.Background(), "t", "k", "v"), sentinel)
	require.Equal(t, 3, next.calls())
}

func TestRetryingSender_StopsWhenContextDone(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	ctx, cancel := context.WithCancel(context.Background())
	next := &senderStub{sendFn: func(int) error {
		cancel()
		return errors.New("broker down")
	}}

	s := NewRetryingSender(next, rec.Logger(), nil, RetryConfig{MaxAttempts: 5, BaseDelay: time.Hour, MaxDelay: time.Hour})
	require.Error(t, s.Send(ctx, "t", "k", "v"))
	require.Equal(t, 1, next.calls())
}

func TestNewRetryingSender_NilNext(t *testing.T) {
	t.Parallel()

	require.Nil(t, NewRetryingSender(nil, testlog.New().Logger(), nil, RetryConfig{}))
}

func TestBackoff_Caps(t *testing.T) {
	t.Parallel()

	require.Equal(t, 100*time.Millisecond, backoff(100*time.Millisecond, time.Second, 1))
	require.Equal(t, 400*time.Millisecond, backoff(100*time.Millisecond, time.Second, 3))
	require.Equal(t, time.Second, backoff(100*time.Millisecond, time.Second, 5))
}

func TestPermanent(t *testing.T) {
	t.Parallel()

	require.NoError(t, Permanent(nil))

	base := errors.New("bad payload")
	err := fmt.Errorf("send: %w", Permanent(base))
	require.True(t, IsPermanent(err))
	require.ErrorIs(t, err, base)
	require.Equal(t, "send: kafka: permanent failure: bad payload", err.Error())
	require.False(t, IsPermanent(base))
}
