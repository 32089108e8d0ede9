// Package simulate wraps mutating operations with artificial latency and
// injectable random failure, standing in for a real network round trip.
package simulate

import (
	"context"
	"math/rand"
	"time"
)

// Default tuning, mirroring the simulated API this replaces.
const (
	DefaultFailureRate   = 0.2
	DefaultCreateLatency = 900 * time.Millisecond
	DefaultUpdateLatency = 850 * time.Millisecond
)

// TransientError is a simulated network failure. The caller may retry by
// re-invoking the same operation; no state was touched.
type TransientError struct {
	Op string
}

func (e *TransientError) Error() string {
	return "Simulated network error while " + e.Op + " task."
}

// Simulator injects latency and failure ahead of create/update commits.
// Rand must return values in [0, 1); it defaults to math/rand and is
// swappable for deterministic tests.
type Simulator struct {
	FailureRate   float64
	CreateLatency time.Duration
	UpdateLatency time.Duration
	Rand          func() float64
}

// New returns a simulator with default latency and the given failure rate.
func New(failureRate float64) *Simulator {
	return &Simulator{
		FailureRate:   failureRate,
		CreateLatency: DefaultCreateLatency,
		UpdateLatency: DefaultUpdateLatency,
		Rand:          rand.Float64,
	}
}

// Disabled returns a simulator that never waits and never fails.
func Disabled() *Simulator {
	return &Simulator{Rand: func() float64 { return 1 }}
}

func (s *Simulator) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Simulator) run(ctx context.Context, op string, latency time.Duration) error {
	if err := s.wait(ctx, latency); err != nil {
		return err
	}
	rnd := s.Rand
	if rnd == nil {
		rnd = rand.Float64
	}
	if rnd() < s.FailureRate {
		return &TransientError{Op: op}
	}
	return nil
}

// RunCreate gates a task creation. It returns before any state mutation.
func (s *Simulator) RunCreate(ctx context.Context) error {
	return s.run(ctx, "creating", s.CreateLatency)
}

// RunUpdate gates a task update.
func (s *Simulator) RunUpdate(ctx context.Context) error {
	return s.run(ctx, "updating", s.UpdateLatency)
}
