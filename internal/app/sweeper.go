package app

import (
	"context"
	"time"

	"food-rescue-matching/internal/logx"
)

type expirer interface {
	ExpireDue(ctx context.Context) (int, error)
}

// startExpirySweep runs svc.ExpireDue every interval until ctx is done.
func startExpirySweep(ctx context.Context, logger logx.Logger, svc expirer, interval time.Duration) {
	if svc == nil || interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := svc.ExpireDue(ctx)
				if err != nil {
					logger.Error("expiry sweep failed", logx.Int("expired", n), logx.Err(err))
					continue
				}
				if n > 0 {
					logger.Info("expiry sweep", logx.Int("expired", n))
				}
			}
		}
	}()
}
