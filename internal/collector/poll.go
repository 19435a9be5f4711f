package collector

import (
	"context"
	"time"
)

// Poller retries a check a bounded number of times with a fixed pause
type Poller struct {
	Attempts int
	Interval time.Duration
}

// NewPoller creates a new Poller, at least one attempt is always made
func NewPoller(attempts int, interval time.Duration) *Poller {
	if attempts < 1 {
		attempts = 1
	}
	return &Poller{Attempts: attempts, Interval: interval}
}

// Until calls check until it reports done, returns an error or the attempts
// run out. It returns whether check reported done and how many attempts were made.
func (p *Poller) Until(ctx context.Context, check func(ctx context.Context) (bool, error)) (bool, int, error) {
	for attempt := 1; attempt <= p.Attempts; attempt++ {
		done, err := check(ctx)
		if err != nil {
			return false, attempt, err
		}
		if done {
			return true, attempt, nil
		}
		if attempt == p.Attempts {
			return false, attempt, nil
		}

		timer := time.NewTimer(p.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false, attempt, ctx.Err()
		case <-timer.C:
		}
	}
	return false, p.Attempts, nil
}
