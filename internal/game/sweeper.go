package game

import (
	"context"
	"time"
)

// StartSweeper runs SweepExpired on a ticker so timed-out games complete
// even when nobody is polling the list endpoint.
func (s *Service) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				closed, err := s.SweepExpired(ctx)
				if err != nil {
					s.Logger.Warnw("expiry sweep failed", "error", err)
					continue
				}
				if closed > 0 {
					s.Logger.Infow("expired games closed", "count", closed)
				}
			}
		}
	}()
}
