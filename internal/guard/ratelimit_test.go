package guard

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/10botics/cantonese-speech-to-text/internal/apperr"
)

// fakeClock is a settable clock for driving window expiry.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestRateLimiter_WindowWalkthrough(t *testing.T) {
	clock := newFakeClock()
	rl := NewRateLimiter(RateLimitConfig{Window: time.Second, MaxRequests: 10}).WithClock(clock.Now)

	// 10 calls succeed with remaining counting down 9..0.
	for i := 0; i < 10; i++ {
		res := rl.Check(NamespaceTranscribe, "client-a")
		if !res.Allowed {
			t.Fatalf("call %d: expected allowed", i+1)
		}
		if want := 9 - i; res.Remaining != want {
			t.Errorf("call %d: expected remaining %d, got %d", i+1, want, res.Remaining)
		}
	}

	// 11th call is rejected.
	res := rl.Check(NamespaceTranscribe, "client-a")
	if res.Allowed {
		t.Fatal("11th call should be rejected")
	}
	if res.Remaining != 0 {
		t.Errorf("expected remaining 0, got %d", res.Remaining)
	}

	// After the window elapses the client gets a fresh window.
	clock.Advance(time.Second + time.Millisecond)
	res = rl.Check(NamespaceTranscribe, "client-a")
	if !res.Allowed {
		t.Fatal("call after window expiry should be allowed")
	}
	if res.Remaining != 9 {
		t.Errorf("fresh window should report remaining 9, got %d", res.Remaining)
	}
}

func TestRateLimiter_NamespacesIndependent(t *testing.T) {
	clock := newFakeClock()
	rl := NewRateLimiter(RateLimitConfig{Window: time.Hour, MaxRequests: 2}).WithClock(clock.Now)

	rl.Check(NamespaceTranscribe, "client-a")
	rl.Check(NamespaceTranscribe, "client-a")
	if res := rl.Check(NamespaceTranscribe, "client-a"); res.Allowed {
		t.Error("transcribe budget should be exhausted")
	}

	// The speaker namespace still has its full budget for the same client.
	if res := rl.Check(NamespaceSpeaker, "client-a"); !res.Allowed || res.Remaining != 1 {
		t.Errorf("speaker namespace should be untouched, got %+v", res)
	}
}

func TestRateLimiter_ClientsIndependent(t *testing.T) {
	clock := newFakeClock()
	rl := NewRateLimiter(RateLimitConfig{Window: time.Hour, MaxRequests: 1}).WithClock(clock.Now)

	rl.Check(NamespaceTranscribe, "client-a")
	if res := rl.Check(NamespaceTranscribe, "client-b"); !res.Allowed {
		t.Error("client-b should not share client-a's window")
	}
}

func TestRateLimiter_AllowReturnsRateLimitedError(t *testing.T) {
	clock := newFakeClock()
	rl := NewRateLimiter(RateLimitConfig{Window: 24 * time.Hour, MaxRequests: 1}).WithClock(clock.Now)

	if _, err := rl.Allow(NamespaceSpeaker, "client-a"); err != nil {
		t.Fatalf("first call should pass, got %v", err)
	}

	_, err := rl.Allow(NamespaceSpeaker, "client-a")
	if err == nil {
		t.Fatal("expected rate limited error")
	}
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected *apperr.Error, got %T", err)
	}
	if ae.Kind != apperr.KindRateLimited {
		t.Errorf("expected kind %s, got %s", apperr.KindRateLimited, ae.Kind)
	}
	if ae.RetryAfter <= 0 || ae.RetryAfter > 24*time.Hour {
		t.Errorf("retry-after out of range: %v", ae.RetryAfter)
	}
}

func TestRateLimiter_ConcurrentChecks(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{Window: time.Hour, MaxRequests: 50})

	var wg sync.WaitGroup
	allowed := make(chan bool, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed <- rl.Check(NamespaceTranscribe, "client-a").Allowed
		}()
	}
	wg.Wait()
	close(allowed)

	count := 0
	for ok := range allowed {
		if ok {
			count++
		}
	}
	if count != 50 {
		t.Errorf("expected exactly 50 allowed under concurrency, got %d", count)
	}
}
