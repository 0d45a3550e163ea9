package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// UnknownKey buckets requests whose client could not be identified.
const UnknownKey = "unknown"

type Decision struct {
	Admitted  bool
	Remaining int
	ResetAt   time.Time
}

// Limiter admits or rejects a request for a client key. Implementations never
// return errors.
type Limiter interface {
	Check(ctx context.Context, key string) Decision
}

type Config struct {
	MaxRequests int
	Window      time.Duration
}

type entry struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter is a fixed-window counter per key kept in process memory.
// Instances do not coordinate with each other.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	max     int
	window  time.Duration
	now     func() time.Time
}

func NewMemoryLimiter(cfg Config) *MemoryLimiter {
	return &MemoryLimiter{
		entries: make(map[string]*entry),
		max:     cfg.MaxRequests,
		window:  cfg.Window,
		now:     time.Now,
	}
}

// SetClock is used only for tests.
func (l *MemoryLimiter) SetClock(now func() time.Time) {
	l.mu.Lock()
	l.now = now
	l.mu.Unlock()
}

func (l *MemoryLimiter) Check(_ context.Context, key string) Decision {
	if key == "" {
		key = UnknownKey
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[key]
	if !ok || now.After(e.resetAt) {
		e = &entry{count: 1, resetAt: now.Add(l.window)}
		l.entries[key] = e
		return Decision{Admitted: true, Remaining: remaining(l.max, 1), ResetAt: e.resetAt}
	}

	e.count++
	return Decision{
		Admitted:  e.count <= l.max,
		Remaining: remaining(l.max, e.count),
		ResetAt:   e.resetAt,
	}
}

// Sweep drops entries whose window has ended and returns how many were removed.
func (l *MemoryLimiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for key, e := range l.entries {
		if now.After(e.resetAt) {
			delete(l.entries, key)
			removed++
		}
	}
	return removed
}

// Len reports the number of tracked keys.
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// StartSweeper runs Sweep on every tick until ctx is cancelled.
func (l *MemoryLimiter) StartSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := l.Sweep(); n > 0 {
				logrus.WithField("removed", n).Debug("rate limiter sweep")
			}
		}
	}
}

func remaining(max, count int) int {
	if count >= max {
		return 0
	}
	return max - count
}
