package clock

import (
	"sync"
	"time"
)

// Clock supplies the current instant so services and the sweeper can be
// driven with fabricated timestamps in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// NewSystem returns a clock backed by time.Now, always in UTC.
func NewSystem() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

type fixedClock struct {
	now time.Time
}

// NewFixed returns a clock frozen at the given instant.
func NewFixed(t time.Time) Clock {
	return fixedClock{now: t.UTC()}
}

func (f fixedClock) Now() time.Time {
	return f.now
}

// Adjustable is a test clock whose instant can be moved forward, e.g.
// past a hold's expiry without sleeping.
type Adjustable struct {
	mu  sync.Mutex
	now time.Time
}

func NewAdjustable(t time.Time) *Adjustable {
	return &Adjustable{now: t.UTC()}
}

func (a *Adjustable) Now() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.now
}

func (a *Adjustable) Advance(d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.now = a.now.Add(d)
}
