package timectrl

import (
	"context"
	"sync"
	"time"
)

// Clock supplies the current wall time. The engine uses it to resolve
// "today" so that tests can pin the date.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the host clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same instant.
type FixedClock struct {
	mu sync.RWMutex
	t  time.Time
}

// NewFixedClock returns a clock stuck at t.
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{t: t}
}

// Now implements Clock.
func (c *FixedClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.t
}

// Set moves the clock to t.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

// Tick is delivered to listeners on every autoplay step.
type Tick struct {
	// At is the wall time of the tick.
	At time.Time
	// Days is the number of calendar days the displayed date should move.
	Days int
	// Seq counts ticks since the controller was created, starting at 1.
	Seq uint64
}

// TimeController drives autoplay: every Interval it tells listeners to move
// the displayed date by StepDays.
type TimeController struct {
	mu       sync.RWMutex
	Interval time.Duration
	StepDays int

	seq       uint64
	listeners []func(Tick)

	cancel context.CancelFunc
	done   chan struct{}
}

// NewTimeController constructs a stopped controller.
func NewTimeController(interval time.Duration, stepDays int) *TimeController {
	if interval <= 0 {
		interval = time.Second
	}
	if stepDays == 0 {
		stepDays = 1
	}
	return &TimeController{Interval: interval, StepDays: stepDays}
}

// AddListener registers a callback invoked on every tick. Callbacks run on
// the controller goroutine and should hand work off quickly.
func (tc *TimeController) AddListener(fn func(Tick)) {
	tc.mu.Lock()
	tc.listeners = append(tc.listeners, fn)
	tc.mu.Unlock()
}

// SetStep changes the number of days per tick. Zero is ignored.
func (tc *TimeController) SetStep(days int) {
	if days == 0 {
		return
	}
	tc.mu.Lock()
	tc.StepDays = days
	tc.mu.Unlock()
}

// Step fires a single tick synchronously.
func (tc *TimeController) Step(at time.Time) Tick {
	tc.mu.Lock()
	tc.seq++
	tick := Tick{At: at, Days: tc.StepDays, Seq: tc.seq}
	listeners := append([]func(Tick){}, tc.listeners...)
	tc.mu.Unlock()

	for _, fn := range listeners {
		fn(tick)
	}
	return tick
}

// Running reports whether the ticker goroutine is active.
func (tc *TimeController) Running() bool {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.done != nil
}

// Start runs the ticker in a separate goroutine until ctx is cancelled or
// Stop is called. It returns a channel that is closed when the goroutine
// exits. Starting a running controller returns the existing channel.
func (tc *TimeController) Start(ctx context.Context) <-chan struct{} {
	tc.mu.Lock()
	if tc.done != nil {
		done := tc.done
		tc.mu.Unlock()
		return done
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	tc.cancel = cancel
	tc.done = done
	interval := tc.Interval
	tc.mu.Unlock()

	go func() {
		defer close(done)
		defer func() {
			tc.mu.Lock()
			if tc.done == done {
				tc.done = nil
				tc.cancel = nil
			}
			tc.mu.Unlock()
		}()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				tc.Step(now)
			}
		}
	}()
	return done
}

// Stop halts a running controller and waits for its goroutine to exit.
func (tc *TimeController) Stop() {
	tc.mu.Lock()
	cancel, done := tc.cancel, tc.done
	tc.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Toggle starts a stopped controller or stops a running one. It reports
// whether the controller is running afterwards.
func (tc *TimeController) Toggle(ctx context.Context) bool {
	if tc.Running() {
		tc.Stop()
		return false
	}
	tc.Start(ctx)
	return true
}
