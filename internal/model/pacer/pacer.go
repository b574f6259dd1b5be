// Package pacer enforces a minimum interval between consecutive calls to
// each AI backend, keeping the worker inside free-tier request budgets.
package pacer

import (
	"context"
	"log"
	"sync"
	"time"

	"tallerit/repair-intake-worker/internal/model/provider"
)

const (
	// DefaultGeminiInterval matches the Gemini free tier (15 RPM).
	DefaultGeminiInterval = 4 * time.Second
	// DefaultOpenAIInterval is the spacing for OpenAI calls.
	DefaultOpenAIInterval = 1 * time.Second
)

// Pacer tracks the last dispatch instant per backend. Pace reserves the next
// dispatch slot atomically, so two near-simultaneous callers can never both
// observe an elapsed interval and dispatch early.
type Pacer struct {
	mu        sync.Mutex
	intervals map[provider.Backend]time.Duration
	last      map[provider.Backend]time.Time

	// test seams; defaults use the wall clock
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a Pacer with the given per-backend minimum intervals.
// Backends absent from the map are not paced.
func New(intervals map[provider.Backend]time.Duration) *Pacer {
	copied := make(map[provider.Backend]time.Duration, len(intervals))
	for backend, interval := range intervals {
		copied[backend] = interval
	}
	return &Pacer{
		intervals: copied,
		last:      make(map[provider.Backend]time.Time),
		now:       time.Now,
		sleep:     sleepContext,
	}
}

// Pace blocks until at least the backend's minimum interval has passed since
// the previous reserved dispatch, then records the new dispatch instant.
// The reservation happens before sleeping, under the lock.
func (p *Pacer) Pace(ctx context.Context, backend provider.Backend) error {
	interval := p.intervals[backend]

	p.mu.Lock()
	now := p.now()
	target := now
	if last, ok := p.last[backend]; ok {
		if next := last.Add(interval); next.After(now) {
			target = next
		}
	}
	p.last[backend] = target
	p.mu.Unlock()

	if wait := target.Sub(now); wait > 0 {
		log.Printf("[Pacer] Waiting %v before next %s call", wait, backend)
		return p.sleep(ctx, wait)
	}
	return nil
}

// Interval returns the configured minimum interval for a backend.
func (p *Pacer) Interval(backend provider.Backend) time.Duration {
	return p.intervals[backend]
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
