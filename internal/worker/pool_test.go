package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoolRunsSubmittedJobs(t *testing.T) {
	p := NewPool(16)
	p.Start(context.Background(), 3)

	var count int64
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		err := p.Submit(func(_ context.Context) {
			defer wg.Done()
			atomic.AddInt64(&count, 1)
		})
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}
	wg.Wait()
	p.Stop()

	if got := atomic.LoadInt64(&count); got != 10 {
		t.Fatalf("ran %d jobs, want 10", got)
	}
}

func TestPoolSurvivesPanickingJob(t *testing.T) {
	p := NewPool(4)
	p.Start(context.Background(), 1)

	done := make(chan struct{})
	if err := p.Submit(func(_ context.Context) { panic("boom") }); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err := p.Submit(func(_ context.Context) { close(done) }); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker died after panicking job")
	}
	p.Stop()
}

func TestPoolRejectsWhenQueueFull(t *testing.T) {
	p := NewPool(1)
	// Not started: nothing drains the queue.
	if err := p.Submit(func(_ context.Context) {}); err != nil {
		t.Fatalf("first submit should fit the buffer: %v", err)
	}
	if err := p.Submit(func(_ context.Context) {}); err == nil {
		t.Fatal("expected queue-full error")
	}
}

func TestPoolSubmitAfterStop(t *testing.T) {
	p := NewPool(1)
	p.Start(context.Background(), 1)
	p.Stop()

	if err := p.Submit(func(_ context.Context) {}); err == nil {
		t.Fatal("expected error submitting to stopped pool")
	}
}
