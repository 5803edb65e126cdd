package orrery

import (
	"sync"
	"time"
)

// ManualLoop is a test-only Dispatcher. Posted closures queue up until the
// test runs them on its own goroutine, which makes interleavings of UI
// events and network completions fully deterministic.
type ManualLoop struct {
	mu     sync.Mutex
	queue  []func()
	signal chan struct{}
}

// NewManualLoop creates an empty manual loop.
func NewManualLoop() *ManualLoop {
	return &ManualLoop{signal: make(chan struct{}, 1)}
}

// Post implements Dispatcher.
func (m *ManualLoop) Post(fn func()) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	m.queue = append(m.queue, fn)
	m.mu.Unlock()

	select {
	case m.signal <- struct{}{}:
	default:
	}
}

// Pending returns the number of queued closures.
func (m *ManualLoop) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// RunPending runs queued closures, including any they post, until the queue
// is empty. It returns the number executed.
func (m *ManualLoop) RunPending() int {
	ran := 0
	for {
		m.mu.Lock()
		if len(m.queue) == 0 {
			m.mu.Unlock()
			return ran
		}
		fn := m.queue[0]
		m.queue = m.queue[1:]
		m.mu.Unlock()

		fn()
		ran++
	}
}

// Await blocks until at least one closure is queued, then runs everything
// pending. It reports false if nothing arrived within timeout.
func (m *ManualLoop) Await(timeout time.Duration) bool {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	for {
		if m.Pending() > 0 {
			m.RunPending()
			return true
		}
		select {
		case <-m.signal:
		case <-deadline.C:
			return m.RunPending() > 0
		}
	}
}
