package providers

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a token bucket refilled at a fixed requests-per-second rate.
// The bucket holds at most burst tokens.
type RateLimiter struct {
	mu sync.Mutex

	rps   float64
	burst float64

	tokens     float64
	lastUpdate time.Time

	totalConsumed int64
	totalWaited   time.Duration
	last429       time.Time
}

// RateLimiterStatus reports current limiter state.
type RateLimiterStatus struct {
	RequestsPerSecond float64       `json:"requests_per_second"`
	TokensAvailable   float64       `json:"tokens_available"`
	TotalConsumed     int64         `json:"total_consumed"`
	TotalWaited       time.Duration `json:"total_waited"`
	Last429           time.Time     `json:"last_429,omitempty"`
}

// NewRateLimiter creates a limiter allowing rps requests per second with a
// burst of max(1, rps).
func NewRateLimiter(rps float64) *RateLimiter {
	if rps <= 0 {
		rps = 1
	}
	burst := rps
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		rps:        rps,
		burst:      burst,
		tokens:     burst,
		lastUpdate: time.Now(),
	}
}

// Wait blocks until a token is available or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		r.mu.Lock()
		r.refill()
		if r.tokens >= 1 {
			r.tokens--
			r.totalConsumed++
			r.mu.Unlock()
			return nil
		}
		wait := time.Duration((1 - r.tokens) / r.rps * float64(time.Second))
		r.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			r.mu.Lock()
			r.totalWaited += wait
			r.mu.Unlock()
		}
	}
}

// TryConsume takes a token without blocking.
func (r *RateLimiter) TryConsume() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refill()
	if r.tokens >= 1 {
		r.tokens--
		r.totalConsumed++
		return true
	}
	return false
}

// Record429 drains the bucket so that callers back off after a rate limit
// response.
func (r *RateLimiter) Record429() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last429 = time.Now()
	r.tokens = 0
	r.lastUpdate = r.last429
}

// Status returns current limiter state.
func (r *RateLimiter) Status() RateLimiterStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refill()
	return RateLimiterStatus{
		RequestsPerSecond: r.rps,
		TokensAvailable:   r.tokens,
		TotalConsumed:     r.totalConsumed,
		TotalWaited:       r.totalWaited,
		Last429:           r.last429,
	}
}

// refill must be called with mu held.
func (r *RateLimiter) refill() {
	now := time.Now()
	r.tokens += now.Sub(r.lastUpdate).Seconds() * r.rps
	r.lastUpdate = now
	if r.tokens > r.burst {
		r.tokens = r.burst
	}
}
