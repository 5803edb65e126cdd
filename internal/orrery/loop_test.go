package orrery

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestLoopRunsInOrder(t *testing.T) {
	loop := NewLoop(nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	var mu sync.Mutex
	var got []int
	finished := make(chan struct{})
	for i := 0; i < 50; i++ {
		i := i
		loop.Post(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
			if i == 49 {
				close(finished)
			}
		})
	}

	select {
	case <-finished:
	case <-time.After(awaitTimeout):
		t.Fatalf("loop did not drain")
	}
	cancel()
	if err := <-done; err != context.Canceled {
		t.Fatalf("Run returned %v, want context.Canceled", err)
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("closure %d ran at position %d", v, i)
		}
	}
}

func TestLoopSurvivesPanics(t *testing.T) {
	loop := NewLoop(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = loop.Run(ctx) }()

	ran := make(chan struct{})
	loop.Post(func() { panic("boom") })
	loop.Post(func() { close(ran) })
	select {
	case <-ran:
	case <-time.After(awaitTimeout):
		t.Fatalf("loop stopped after a panic")
	}
}

func TestManualLoopAwait(t *testing.T) {
	m := NewManualLoop()
	if m.Await(10 * time.Millisecond) {
		t.Fatalf("Await on an empty loop should time out")
	}

	count := 0
	go m.Post(func() {
		count++
		m.Post(func() { count++ })
	})
	if !m.Await(awaitTimeout) {
		t.Fatalf("Await missed the post")
	}
	if count != 2 || m.Pending() != 0 {
		t.Fatalf("count=%d pending=%d, want nested posts drained", count, m.Pending())
	}
}
