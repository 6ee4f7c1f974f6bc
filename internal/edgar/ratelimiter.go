package edgar

import (
	"sync"
	"time"
)

// RateLimiter enforces a minimum interval between outbound requests. The
// last-request timestamp is shared by every caller, so the interval holds
// across all concurrent workers combined, not per worker.
type RateLimiter struct {
	mu       sync.Mutex
	last     time.Time
	interval time.Duration

	// Injectable for tests.
	now   func() time.Time
	sleep func(time.Duration)
}

// NewRateLimiter creates a limiter with the given minimum interval between
// requests. A zero or negative interval disables throttling.
func NewRateLimiter(interval time.Duration) *RateLimiter {
	return &RateLimiter{
		interval: interval,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// Wait blocks until the configured interval has elapsed since the previous
// request, then records a new last-request timestamp. The lock is held
// through the sleep: the next waiter computes its wait from the updated
// timestamp once this one has been admitted.
func (r *RateLimiter) Wait() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.last.IsZero() && r.interval > 0 {
		if elapsed := r.now().Sub(r.last); elapsed < r.interval {
			r.sleep(r.interval - elapsed)
		}
	}
	r.last = r.now()
}
