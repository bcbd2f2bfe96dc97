package commands

import (
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_CoalescesEvents(t *testing.T) {
	var mu sync.Mutex
	var calls [][]string
	done := make(chan struct{}, 1)

	d := newDebouncer(50*time.Millisecond, func(files []string) {
		mu.Lock()
		calls = append(calls, files)
		mu.Unlock()
		done <- struct{}{}
	})
	defer d.stop()

	d.add("b.go")
	d.add("a.go")
	d.add("b.go")

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debouncer never fired")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 1 {
		t.Fatalf("fire count = %d, want 1", len(calls))
	}
	want := []string{"a.go", "b.go"}
	if !reflect.DeepEqual(calls[0], want) {
		t.Errorf("files = %v, want %v", calls[0], want)
	}
}

func TestDebouncer_RunsDoNotOverlap(t *testing.T) {
	var active, overlaps, fires int32
	done := make(chan struct{})

	d := newDebouncer(10*time.Millisecond, func([]string) {
		if atomic.AddInt32(&active, 1) > 1 {
			atomic.AddInt32(&overlaps, 1)
		}
		time.Sleep(50 * time.Millisecond)
		atomic.AddInt32(&active, -1)
		if atomic.AddInt32(&fires, 1) == 2 {
			close(done)
		}
	})
	defer d.stop()

	// First burst fires, then a second burst arrives while the first run is
	// still sleeping.
	d.add("one.go")
	time.Sleep(30 * time.Millisecond)
	d.add("two.go")

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("second run never fired")
	}
	if n := atomic.LoadInt32(&overlaps); n != 0 {
		t.Errorf("runs overlapped %d time(s)", n)
	}
}
