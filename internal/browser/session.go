package browser

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNavigationTimeout is returned when a bounded wait expires.
	ErrNavigationTimeout  = errors.New("navigation timeout")
	// ErrSessionUnavailable is returned by Pool.Acquire when the pool is at capacity with no idle session.
	ErrSessionUnavailable = errors.New("no browsing session available")
	ErrPoolClosed         = errors.New("session pool closed")
	ErrNotLeased          = errors.New("session is not leased from this pool")
)

// Element is an opaque handle to a node of a session's current document.
// It is only meaningful to the session that produced it and only until the
// next navigation.
type Element struct {
	ref any
}

func NewElement(ref any) Element {
	return Element{ref: ref}
}

func (e Element) Ref() any {
	return e.ref
}

// Session is one controllable browser instance. A Session must not be used
// by two goroutines at once; the Pool enforces that by leasing.
type Session interface {
	Navigate(ctx context.Context, url string) error
	// WaitFor blocks until at least one node matches selector or timeout
	// elapses, in which case the error matches ErrNavigationTimeout.
	WaitFor(ctx context.Context, selector string, timeout time.Duration) ([]Element, error)
	// FindWithin returns the descendants of el matching selector without waiting.
	FindWithin(ctx context.Context, el Element, selector string) ([]Element, error)
	Click(ctx context.Context, selector string) error
	// ClickNavigate clicks the first node matching selector and returns once
	// the document it loads has replaced the current one. An expired timeout
	// matches ErrNavigationTimeout.
	ClickNavigate(ctx context.Context, selector string, timeout time.Duration) error
	SelectOption(ctx context.Context, selector, value string) error
	ReadText(ctx context.Context, el Element) (string, error)
	ReadAttribute(ctx context.Context, el Element, name string) (string, bool, error)
	Close() error
}

// Factory starts a new Session.
type Factory func(ctx context.Context) (Session, error)

// TimeoutError describes which wait expired.
type TimeoutError struct {
	Selector string
	Timeout  time.Duration
}

func (e *TimeoutError) Error() string {
	return "waiting for " + e.Selector + " exceeded " + e.Timeout.String()
}

func (e *TimeoutError) Unwrap() error {
	return ErrNavigationTimeout
}
