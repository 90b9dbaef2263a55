package bot

import (
	"sync"
	"time"
)

const (
	rateLimitMaxCommands = 5
	rateLimitWindow      = 60 * time.Second
)

// RateLimiter allows each user rateLimitMaxCommands commands per
// rateLimitWindow.
type RateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	now      func() time.Time
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		requests: make(map[string][]time.Time),
		now:      time.Now,
	}
}

func (r *RateLimiter) Allow(userID string) bool {
	_, ok := r.Reserve(userID)
	return ok
}

// Reserve records a command for userID if the user is under the limit.
// Otherwise it reports how long until the oldest command leaves the window.
func (r *RateLimiter) Reserve(userID string) (time.Duration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	cutoff := now.Add(-rateLimitWindow)

	timestamps := r.requests[userID]
	pruned := timestamps[:0]
	for _, t := range timestamps {
		if t.After(cutoff) {
			pruned = append(pruned, t)
		}
	}

	if len(pruned) >= rateLimitMaxCommands {
		r.requests[userID] = pruned
		return pruned[0].Sub(cutoff), false
	}

	r.requests[userID] = append(pruned, now)
	return 0, true
}
