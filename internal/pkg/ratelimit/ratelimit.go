// Package ratelimit provides token buckets keyed by an arbitrary string,
// typically the client IP.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type clocker interface {
	Now() time.Time
}

// Config describes the bucket applied to every key.
type Config struct {
	// PerMinute is the sustained number of allowed events per key. Zero disables limiting.
	PerMinute int
	// Burst is the bucket size; defaults to PerMinute.
	Burst int
	// IdleTTL is how long an unused key is remembered; defaults to 10 minutes.
	IdleTTL time.Duration
	// Clock provides the current time source.
	Clock clocker
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Keyed keeps one limiter per key and forgets keys that stay idle.
type Keyed struct {
	mu        sync.Mutex
	entries   map[string]*entry
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	clock     clocker
}

// New returns a Keyed limiter. A nil result means limiting is disabled.
func New(cfg Config) *Keyed {
	if cfg.PerMinute <= 0 {
		return nil
	}
	if cfg.Burst <= 0 {
		cfg.Burst = cfg.PerMinute
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 10 * time.Minute
	}

	return &Keyed{
		entries: make(map[string]*entry),
		limit:   rate.Limit(float64(cfg.PerMinute) / 60.0),
		burst:   cfg.Burst,
		idleTTL: cfg.IdleTTL,
		clock:   cfg.Clock,
	}
}

// Allow reports whether one more event for key fits in its bucket.
func (k *Keyed) Allow(key string) bool {
	if k == nil {
		return true
	}

	now := k.clock.Now()

	k.mu.Lock()
	defer k.mu.Unlock()

	if now.Sub(k.lastSweep) >= k.idleTTL {
		k.sweep(now)
	}

	e, ok := k.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(k.limit, k.burst)}
		k.entries[key] = e
	}
	e.lastSeen = now

	return e.limiter.AllowN(now, 1)
}

// RetryAfter is the time needed to refill a single token.
func (k *Keyed) RetryAfter() time.Duration {
	if k == nil || k.limit <= 0 {
		return 0
	}

	return time.Duration(float64(time.Second) / float64(k.limit))
}

// Len returns the number of tracked keys.
func (k *Keyed) Len() int {
	if k == nil {
		return 0
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	return len(k.entries)
}

func (k *Keyed) sweep(now time.Time) {
	for key, e := range k.entries {
		if now.Sub(e.lastSeen) > k.idleTTL {
			delete(k.entries, key)
		}
	}
	k.lastSweep = now
}
