package playground

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoop_DrainOrder(t *testing.T) {
	l := NewLoop()

	var got []int
	l.Post(func() {
		got = append(got, 1)
		l.Post(func() { got = append(got, 3) })
	})
	l.Post(func() { got = append(got, 2) })

	if n := l.Drain(); n != 3 {
		t.Errorf("Drain() = %d, want 3", n)
	}
	if diff := cmp.Diff([]int{1, 2, 3}, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if n := l.Drain(); n != 0 {
		t.Errorf("Drain() on empty loop = %d, want 0", n)
	}
}

func TestLoop_RunStop(t *testing.T) {
	l := NewLoop()
	done := make(chan error, 1)
	go func() { done <- l.Run(context.Background()) }()

	ran := make(chan struct{})
	l.Post(func() { close(ran) })

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("posted function did not run")
	}

	l.Stop()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after Stop")
	}

	l.Post(func() { t.Error("function ran after Stop") })
	if n := l.Drain(); n != 0 {
		t.Errorf("Drain() after Stop = %d, want 0", n)
	}
}

func TestLoop_RunContext(t *testing.T) {
	l := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := l.Run(ctx); err != context.Canceled {
		t.Errorf("Run() error = %v, want %v", err, context.Canceled)
	}
}

func TestDispatcherFunc(t *testing.T) {
	var ran bool
	DispatcherFunc(func(fn func()) { fn() }).Post(func() { ran = true })
	if !ran {
		t.Error("Post did not call the function")
	}
}
