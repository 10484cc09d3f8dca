package grid

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_CoalescesBursts(t *testing.T) {
	var calls atomic.Int32
	done := make(chan struct{}, 4)
	d := NewDebouncer(20*time.Millisecond, func() {
		calls.Add(1)
		done <- struct{}{}
	})

	for i := 0; i < 10; i++ {
		d.Trigger()
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced call never ran")
	}
	time.Sleep(60 * time.Millisecond)

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected 1 call, got %d", got)
	}
	if d.Pending() {
		t.Fatal("nothing should be pending after the call ran")
	}
}

func TestDebouncer_Flush(t *testing.T) {
	calls := 0
	d := NewDebouncer(time.Hour, func() { calls++ })

	if d.Flush() {
		t.Fatal("flush with nothing pending should report false")
	}
	d.Trigger()
	if !d.Pending() {
		t.Fatal("expected a pending call")
	}
	if !d.Flush() {
		t.Fatal("expected flush to run the pending call")
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
	if d.Flush() {
		t.Fatal("second flush should find nothing")
	}
}

func TestDebouncer_StopAndReset(t *testing.T) {
	calls := 0
	d := NewDebouncer(time.Hour, func() { calls++ })

	d.Trigger()
	d.Stop()
	if d.Pending() || d.Flush() {
		t.Fatal("stop should drop the pending call")
	}
	d.Trigger()
	if d.Pending() {
		t.Fatal("a stopped debouncer should ignore triggers")
	}

	d.Reset()
	d.Trigger()
	d.Flush()
	if calls != 1 {
		t.Fatalf("expected 1 call after reset, got %d", calls)
	}
}
