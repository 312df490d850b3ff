package webserver

import (
	"sync"
	"time"
)

// RateLimiter throttles submissions per caller. One verification fans out
// into many engine-side searches, so the limit is deliberately coarse.
type RateLimiter struct {
	callers map[string]time.Time
	mu      sync.Mutex
	limit   time.Duration
}

func NewRateLimiter(limit time.Duration) *RateLimiter {
	return &RateLimiter{
		callers: make(map[string]time.Time),
		limit:   limit,
	}
}

func (rl *RateLimiter) CanUse(callerID string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	lastUse, exists := rl.callers[callerID]
	if !exists || time.Since(lastUse) >= rl.limit {
		rl.callers[callerID] = time.Now()
		return true
	}
	return false
}

func (rl *RateLimiter) TimeUntilNext(callerID string) time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	lastUse, exists := rl.callers[callerID]
	if !exists {
		return 0
	}

	elapsed := time.Since(lastUse)
	if elapsed >= rl.limit {
		return 0
	}
	return rl.limit - elapsed
}

// sweep drops stale entries so the map does not grow with one entry per
// client forever.
func (rl *RateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for id, last := range rl.callers {
		if time.Since(last) >= rl.limit {
			delete(rl.callers, id)
		}
	}
}
