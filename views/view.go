// Package views holds the two presentation entry points of the timetable:
// the weekly listing and the single class page. A view owns one fetched
// snapshot and discards fetch results that arrive after it was superseded or closed.
// File: views/view.go
package views

import (
	"time"

	"go-gym-classes/services"
)

// State is the bounded state a view exposes to its renderer.
type State int

const (
	Loading State = iota
	Ready
	Empty
	NotFound
)

// String returns the name used in templates and widget payloads.
func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Empty:
		return "empty"
	case NotFound:
		return "notFound"
	default:
		return "loading"
	}
}

// Option customises a view.
type Option func(*options)

type options struct {
	clock   func() time.Time
	metrics services.MetricsPublisher
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(clock func() time.Time) Option {
	return func(o *options) { o.clock = clock }
}

// WithMetrics records fetch failures and signups.
func WithMetrics(m services.MetricsPublisher) Option {
	return func(o *options) { o.metrics = m }
}

func buildOptions(opts []Option) options {
	o := options{clock: time.Now, metrics: services.NoopMetrics{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
