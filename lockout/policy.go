// Package lockout implements the failed-login throttling policy: a
// per-principal failed-attempt counter with a temporary-deny state once
// the counter reaches a threshold.
package lockout

import (
	"context"
	"sync"
	"time"
)

// DefaultThreshold is the number of consecutive failures that engages a
// lockout.
const DefaultThreshold = 3

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// SystemClock is a Clock backed by time.Now.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() time.Time { return time.Now() }

// Config holds lockout policy settings.
type Config struct {
	// Threshold is the failure count that engages a lockout.
	// Zero means DefaultThreshold.
	Threshold int

	// Window is how long a lockout denies authentication attempts.
	Window time.Duration

	// RetainFor is how long inactive entries survive before Sweep removes
	// them. Zero means 24h.
	RetainFor time.Duration
}

func (c Config) threshold() int {
	if c.Threshold <= 0 {
		return DefaultThreshold
	}
	return c.Threshold
}

func (c Config) retainFor() time.Duration {
	if c.RetainFor <= 0 {
		return 24 * time.Hour
	}
	return c.RetainFor
}

type entry struct {
	failures    int
	lastFailure time.Time
	lockedUntil time.Time // zero while in the normal state
}

// Policy tracks failed authentication attempts per principal.
//
// All state transitions for a principal happen under one lock, so two
// simultaneous failing attempts cannot both slip past the threshold
// before the lockout engages.
type Policy struct {
	cfg   Config
	clock Clock

	mu      sync.Mutex
	entries map[string]*entry
}

// Option configures the policy.
type Option func(*Policy)

// WithClock sets the clock, enabling deterministic tests.
func WithClock(c Clock) Option { return func(p *Policy) { p.clock = c } }

// New creates a lockout policy.
func New(cfg Config, opts ...Option) *Policy {
	p := &Policy{
		cfg:     cfg,
		clock:   SystemClock{},
		entries: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// IsPermitted reports whether the principal may attempt authentication.
// An expired lockout resets the failure counter to zero.
func (p *Policy) IsPermitted(principal string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	e, ok := p.entries[principal]
	if !ok {
		return true
	}
	return !p.lockedLocked(e)
}

// Remaining returns how long until the principal may attempt again, zero
// if not locked.
func (p *Policy) Remaining(principal string) time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	e, ok := p.entries[principal]
	if !ok || !p.lockedLocked(e) {
		return 0
	}
	return e.lockedUntil.Sub(p.clock.Now())
}

// lockedLocked reports whether e is in the locked state, lazily resetting
// the counter once the lockout window has elapsed. Caller holds mu.
func (p *Policy) lockedLocked(e *entry) bool {
	if e.lockedUntil.IsZero() {
		return false
	}
	if p.clock.Now().Before(e.lockedUntil) {
		return true
	}
	e.failures = 0
	e.lockedUntil = time.Time{}
	return false
}

// OnFailure records a failed attempt, engaging a lockout once the
// threshold is reached. It returns whether the principal is now locked
// and, when newly locked, the time the lockout expires.
func (p *Policy) OnFailure(principal string) (locked bool, until time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()

	e, ok := p.entries[principal]
	if !ok {
		e = &entry{}
		p.entries[principal] = e
	}
	if p.lockedLocked(e) {
		return true, e.lockedUntil
	}

	now := p.clock.Now()
	e.failures++
	e.lastFailure = now
	if e.failures < p.cfg.threshold() {
		return false, time.Time{}
	}
	e.lockedUntil = now.Add(p.cfg.Window)
	return true, e.lockedUntil
}

// OnSuccess resets the failure counter and clears any lockout.
func (p *Policy) OnSuccess(principal string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.entries, principal)
}

// Sweep removes entries that are neither locked nor recently active and
// returns how many were removed.
func (p *Policy) Sweep() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	cutoff := p.clock.Now().Add(-p.cfg.retainFor())
	removed := 0
	for principal, e := range p.entries {
		if !p.lockedLocked(e) && e.lastFailure.Before(cutoff) {
			delete(p.entries, principal)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked principals.
func (p *Policy) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

// RunSweeper sweeps expired entries at the given interval until ctx is
// canceled.
func (p *Policy) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Sweep()
		}
	}
}
