// Package clock abstracts the time source so the timer core can be
// driven deterministically in tests.
package clock

import (
	"sync"
	"time"
)

// Clock supplies the current instant. Production code uses System;
// tests inject a Fake and advance it by hand. Instants returned by
// either carry a monotonic reading, so interval arithmetic is immune
// to wall-clock adjustments.
type Clock interface {
	Now() time.Time
}

// System reads the real time.
type System struct{}

// Now returns the current time.
func (System) Now() time.Time {
	return time.Now()
}

// Fake is a manually advanced clock.
type Fake struct {
	mu  sync.Mutex
	now time.Time
}

// NewFake returns a fake clock starting at the given instant.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

// Now returns the fake current time.
func (fake *Fake) Now() time.Time {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	return fake.now
}

// Advance moves the fake clock forward. Negative deltas are allowed so
// tests can simulate clock anomalies.
func (fake *Fake) Advance(delta time.Duration) {
	fake.mu.Lock()
	fake.now = fake.now.Add(delta)
	fake.mu.Unlock()
}

// Set jumps the fake clock to an absolute instant.
func (fake *Fake) Set(now time.Time) {
	fake.mu.Lock()
	fake.now = now
	fake.mu.Unlock()
}
