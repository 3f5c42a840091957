package kafka

import (
	"context"
	"errors"
	"time"

	"food-rescue-matching/internal/logx"
)

type counter interface {
	Inc()
}

// RetryConfig describes how RetryingSender backs off.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// RetryingSender retries transient send failures with exponential backoff.
type RetryingSender struct {
	next    sender
	logger  logx.Logger
	retries counter
	cfg     RetryConfig
}

// NewRetryingSender wraps next; it returns nil if next is nil.
func NewRetryingSender(next sender, logger logx.Logger, retries counter, cfg RetryConfig) *RetryingSender {
	if next == nil {
		return nil
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetryingSender{next: next, logger: logger, retries: retries, cfg: cfg}
}

// Send implements sender.
func (s *RetryingSender) Send(ctx context.Context, topic, key string, v any) error {
	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		err := s.next.Send(ctx, topic, key, v)
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil || attempt == s.cfg.MaxAttempts || !isRetryable(err) {
			break
		}

		delay := backoff(s.cfg.BaseDelay, s.cfg.MaxDelay, attempt)
		if s.retries != nil {
			s.retries.Inc()
		}
		s.logger.Warn("kafka send retry",
			logx.String("topic", topic),
			logx.Int("attempt", attempt),
			logx.Duration("delay", delay),
			logx.Err(err),
		)
		if !sleepWithContext(ctx, delay) {
			break
		}
	}
	return lastErr
}

func isRetryable(err error) bool {
	if IsPermanent(err) {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func backoff(base, limit time.Duration, attempt int) time.Duration {
	d := base << (attempt - 1)
	if d > limit {
		return limit
	}
	return d
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
