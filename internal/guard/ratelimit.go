package guard

import (
	"fmt"
	"sync"
	"time"

	"github.com/10botics/cantonese-speech-to-text/internal/apperr"
)

// Namespaces keep the two relay call types on independent budgets.
const (
	NamespaceTranscribe = "transcribe"
	NamespaceSpeaker    = "speaker"
)

// RateLimitConfig shapes the fixed window.
type RateLimitConfig struct {
	Window      time.Duration
	MaxRequests int
}

// DefaultRateLimitConfig returns the shipped window: 10 requests per client
// per 24 hours.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Window:      24 * time.Hour,
		MaxRequests: 10,
	}
}

// RateResult reports the outcome of a rate-limit check.
type RateResult struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetTime time.Time
}

// RetryAfter returns how long until the window resets, measured from now.
func (r RateResult) RetryAfter(now time.Time) time.Duration {
	d := r.ResetTime.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

type rateWindow struct {
	count     int
	resetTime time.Time
}

// RateLimiter is a fixed-window request counter keyed by client identifier.
// It is an explicitly constructed component, handed to request-handling code
// by reference; it owns its own in-memory storage and is safe for concurrent
// use. Expired windows are replaced lazily on the next request, so the map
// is bounded by the number of distinct clients between restarts.
type RateLimiter struct {
	mu      sync.Mutex
	cfg     RateLimitConfig
	windows map[string]*rateWindow
	now     func() time.Time
}

// NewRateLimiter creates a rate limiter with the given window shape.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		cfg:     cfg,
		windows: make(map[string]*rateWindow),
		now:     time.Now,
	}
}

// WithClock overrides the limiter's clock. Test hook.
func (rl *RateLimiter) WithClock(now func() time.Time) *RateLimiter {
	rl.now = now
	return rl
}

// Check counts one request for the client under the given namespace.
// The first request in a fresh or expired window initializes the window and
// counts as request #1; requests beyond the limit are rejected with the
// window's reset time.
func (rl *RateLimiter) Check(namespace, clientID string) RateResult {
	key := namespace + ":" + clientID
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.windows[key]
	if !ok || now.After(w.resetTime) {
		w = &rateWindow{count: 1, resetTime: now.Add(rl.cfg.Window)}
		rl.windows[key] = w
		return RateResult{
			Allowed:   true,
			Limit:     rl.cfg.MaxRequests,
			Remaining: rl.cfg.MaxRequests - 1,
			ResetTime: w.resetTime,
		}
	}

	if w.count >= rl.cfg.MaxRequests {
		return RateResult{
			Allowed:   false,
			Limit:     rl.cfg.MaxRequests,
			Remaining: 0,
			ResetTime: w.resetTime,
		}
	}

	w.count++
	return RateResult{
		Allowed:   true,
		Limit:     rl.cfg.MaxRequests,
		Remaining: rl.cfg.MaxRequests - w.count,
		ResetTime: w.resetTime,
	}
}

// Allow runs Check and converts a rejection into a RateLimited error with
// the remaining time surfaced for the caller.
func (rl *RateLimiter) Allow(namespace, clientID string) (RateResult, error) {
	res := rl.Check(namespace, clientID)
	if res.Allowed {
		return res, nil
	}
	retryAfter := res.RetryAfter(rl.now())
	return res, apperr.RateLimited(
		fmt.Sprintf("you have exceeded the limit of %d requests per %s, please try again in %s",
			res.Limit, formatWindow(rl.cfg.Window), formatWindow(retryAfter)),
		retryAfter, res.ResetTime,
	)
}

// formatWindow renders a duration in whole hours when possible, matching the
// user-facing "try again in N hours" phrasing.
func formatWindow(d time.Duration) string {
	if d >= time.Hour {
		hours := int((d + time.Hour - 1) / time.Hour)
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	return d.Round(time.Second).String()
}
