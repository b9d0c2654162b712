package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"ge-course-scraper/internal/logger"
)

type sessionState int

const (
	stateIdle sessionState = iota
	stateLeased
	stateClosed
)

// PoolStats is a point-in-time view of a Pool.
type PoolStats struct {
	Capacity   int
	Live       int
	Idle       int
	Leased     int
	PeakLeased int
	Created    int
}

// Pool is a bounded set of reusable browsing sessions. Sessions are created
// on demand up to capacity; all bookkeeping happens under one mutex but
// session start-up and teardown run outside it.
type Pool struct {
	factory     Factory
	capacity    int
	acquireWait time.Duration

	mu       sync.Mutex
	idle     []Session
	states   map[Session]sessionState
	live     int
	peak     int
	created  int
	closed   bool
	released chan struct{}
}

type PoolOption func(*Pool)

// WithAcquireWait makes Acquire block up to d for a released session instead
// of failing fast with ErrSessionUnavailable.
func WithAcquireWait(d time.Duration) PoolOption {
	return func(p *Pool) {
		p.acquireWait = d
	}
}

func NewPool(factory Factory, capacity int, opts ...PoolOption) *Pool {
	if capacity < 1 {
		capacity = 1
	}
	pool := &Pool{
		factory:  factory,
		capacity: capacity,
		states:   make(map[Session]sessionState),
		released: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(pool)
	}
	return pool
}

func (p *Pool) Capacity() int {
	return p.capacity
}

// Acquire leases an idle session, or starts a new one while under capacity.
// At capacity it fails with ErrSessionUnavailable unless an acquire wait is
// configured, in which case it waits for a Release up to that duration.
func (p *Pool) Acquire(ctx context.Context) (Session, error) {
	var deadline <-chan time.Time
	if p.acquireWait > 0 {
		timer := time.NewTimer(p.acquireWait)
		defer timer.Stop()
		deadline = timer.C
	}

	for {
		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return nil, ErrPoolClosed
		}
		if n := len(p.idle); n > 0 {
			session := p.idle[n-1]
			p.idle = p.idle[:n-1]
			p.lease(session)
			p.mu.Unlock()
			return session, nil
		}
		if p.live < p.capacity {
			// reserve the slot so concurrent callers cannot overshoot capacity
			p.live++
			p.mu.Unlock()
			return p.start(ctx)
		}
		wake := p.released
		p.mu.Unlock()

		if deadline == nil {
			return nil, ErrSessionUnavailable
		}
		select {
		case <-wake:
		case <-deadline:
			return nil, fmt.Errorf("waited %s: %w", p.acquireWait, ErrSessionUnavailable)
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", ErrSessionUnavailable, ctx.Err())
		}
	}
}

func (p *Pool) start(ctx context.Context) (Session, error) {
	session, err := p.factory(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.live--
		p.broadcast()
		return nil, fmt.Errorf("failed to start browsing session: %w", err)
	}
	p.created++
	if p.closed {
		p.live--
		go session.Close()
		return nil, ErrPoolClosed
	}
	p.lease(session)
	return session, nil
}

// lease must be called with p.mu held.
func (p *Pool) lease(session Session) {
	p.states[session] = stateLeased
	if leased := p.leasedLocked(); leased > p.peak {
		p.peak = leased
	}
}

func (p *Pool) leasedLocked() int {
	return p.live - len(p.idle)
}

// broadcast wakes every waiting Acquire. Must be called with p.mu held.
func (p *Pool) broadcast() {
	close(p.released)
	p.released = make(chan struct{})
}

// Release returns a leased session to the pool. Releasing a session that is
// not currently leased from this pool returns ErrNotLeased.
func (p *Pool) Release(session Session) error {
	p.mu.Lock()
	if state, ok := p.states[session]; !ok || state != stateLeased {
		p.mu.Unlock()
		return ErrNotLeased
	}
	if p.closed {
		p.states[session] = stateClosed
		p.live--
		p.mu.Unlock()
		return session.Close()
	}
	p.states[session] = stateIdle
	p.idle = append(p.idle, session)
	p.broadcast()
	p.mu.Unlock()
	return nil
}

// Discard removes a leased session from the pool and closes it, freeing its
// slot. Used when a session is left in an unknown state.
func (p *Pool) Discard(session Session) error {
	p.mu.Lock()
	if state, ok := p.states[session]; !ok || state != stateLeased {
		p.mu.Unlock()
		return ErrNotLeased
	}
	p.states[session] = stateClosed
	p.live--
	if !p.closed {
		p.broadcast()
	}
	p.mu.Unlock()
	return session.Close()
}

// CloseAll closes every idle session and marks the pool closed; sessions
// still leased are closed when they are released.
func (p *Pool) CloseAll() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	idle := p.idle
	p.idle = nil
	for _, session := range idle {
		p.states[session] = stateClosed
	}
	p.live -= len(idle)
	p.broadcast()
	p.mu.Unlock()

	var errs []error
	for _, session := range idle {
		if err := session.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	logger.Debug().Int("closed", len(idle)).Msg("session pool closed")
	return errors.Join(errs...)
}

func (p *Pool) Stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return PoolStats{
		Capacity:   p.capacity,
		Live:       p.live,
		Idle:       len(p.idle),
		Leased:     p.leasedLocked(),
		PeakLeased: p.peak,
		Created:    p.created,
	}
}
