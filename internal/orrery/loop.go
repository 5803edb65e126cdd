// Package orrery is the date-driven synchronisation engine behind the
// solar-system diagram. All controller state is owned by a single UI loop;
// network lookups run on their own goroutines and post results back to it.
package orrery

import (
	"context"
	"fmt"
	"sync"

	"github.com/signalsfoundry/orrery/internal/logging"
)

// Dispatcher queues work onto the UI loop. Post must be safe to call from
// any goroutine and must not block.
type Dispatcher interface {
	Post(fn func())
}

// Loop runs posted closures one at a time, in FIFO order, on the goroutine
// that calls Run.
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	signal chan struct{}

	log logging.Logger
}

// NewLoop constructs an idle loop.
func NewLoop(log logging.Logger) *Loop {
	if log == nil {
		log = logging.Noop()
	}
	return &Loop{signal: make(chan struct{}, 1), log: log}
}

// Post implements Dispatcher.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.signal <- struct{}{}:
	default:
	}
}

// Run executes closures until ctx is cancelled. It returns ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.drain(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.signal:
		}
	}
}

func (l *Loop) drain(ctx context.Context) {
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return
		}
		fn := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()

		l.runOne(ctx, fn)
		if ctx.Err() != nil {
			return
		}
	}
}

// runOne keeps a panicking handler from taking the page down.
func (l *Loop) runOne(ctx context.Context, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error(ctx, "ui loop handler panicked", logging.String("panic", fmt.Sprint(r)))
		}
	}()
	fn()
}
