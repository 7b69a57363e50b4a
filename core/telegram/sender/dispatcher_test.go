package sender

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestDispatcherRunsJobs(t *testing.T) {
	d := NewDispatcher(Options{QueueSize: 8, Workers: 2})
	defer d.Close()

	var ran atomic.Int32
	done := make(chan struct{})
	err := d.Enqueue(context.Background(), "send.text", "sendMessage", func() error {
		ran.Add(1)
		close(done)
		return nil
	})
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run")
	}
	if ran.Load() != 1 {
		t.Fatalf("job ran %d times, want 1", ran.Load())
	}
	if d.ErrorCount() != 0 {
		t.Fatalf("ErrorCount = %d, want 0", d.ErrorCount())
	}
}

func TestDispatcherQueueFull(t *testing.T) {
	d := NewDispatcher(Options{QueueSize: 1, Workers: 1})
	defer d.Close()

	block := make(chan struct{})
	release := func() { close(block) }
	defer release()

	// Occupy the single worker, then fill the single queue slot.
	_ = d.Enqueue(context.Background(), "a", "", func() error { <-block; return nil })
	deadline := time.After(2 * time.Second)
	for {
		err := d.Enqueue(context.Background(), "b", "", func() error { return nil })
		if errors.Is(err, ErrQueueFull) {
			return
		}
		if err != nil {
			t.Fatalf("Enqueue: %v", err)
		}
		select {
		case <-deadline:
			t.Fatal("queue never reported full")
		default:
		}
	}
}

func TestDispatcherClosedQueue(t *testing.T) {
	d := NewDispatcher(Options{QueueSize: 1, Workers: 1})
	d.Close()

	err := d.Enqueue(context.Background(), "send.text", "", func() error { return nil })
	if !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("Enqueue after close: err = %v, want ErrQueueClosed", err)
	}
}

func TestDispatcherCountsFailures(t *testing.T) {
	d := NewDispatcher(Options{QueueSize: 4, Workers: 1, MaxRetries: 0})

	if err := d.Enqueue(context.Background(), "send.text", "", func() error {
		return errors.New("telegram: 400 bad request")
	}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	d.Close()

	if d.ErrorCount() != 1 {
		t.Fatalf("ErrorCount = %d, want 1", d.ErrorCount())
	}
}

func TestSanitizeErrorMessage(t *testing.T) {
	err := errors.New("Post https://api.telegram.org/bot12345:AAaa_bb-CC/sendMessage: timeout")
	got := sanitizeErrorMessage(err)
	if got != "Post https://api.telegram.org/bot<redacted>/sendMessage: timeout" {
		t.Fatalf("token not redacted: %q", got)
	}
}
