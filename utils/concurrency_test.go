package utils

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkerPoolRunsAllJobs(t *testing.T) {
	pool := NewWorkerPool(4)
	var ran int64

	for i := 0; i < 50; i++ {
		pool.Submit(func() error {
			atomic.AddInt64(&ran, 1)
			return nil
		})
	}
	if err := pool.Wait(); err != nil {
		t.Fatalf("Wait: unexpected error %v", err)
	}

	if ran != 50 {
		t.Errorf("ran: got %d, want 50", ran)
	}
}

func TestWorkerPoolReportsError(t *testing.T) {
	pool := NewWorkerPool(2)
	boom := errors.New("boom")

	pool.Submit(func() error { return nil })
	pool.Submit(func() error { return boom })

	if err := pool.Wait(); !errors.Is(err, boom) {
		t.Errorf("Wait: got %v, want %v", err, boom)
	}
}

func TestWorkerPoolBoundsConcurrency(t *testing.T) {
	pool := NewWorkerPool(1)
	var active, peak int64

	for i := 0; i < 5; i++ {
		pool.Submit(func() error {
			n := atomic.AddInt64(&active, 1)
			if n > atomic.LoadInt64(&peak) {
				atomic.StoreInt64(&peak, n)
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt64(&active, -1)
			return nil
		})
	}
	_ = pool.Wait()

	if peak != 1 {
		t.Errorf("peak concurrency: got %d, want 1", peak)
	}
}

func TestRetryEventuallySucceeds(t *testing.T) {
	calls := 0
	r := &RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond, Logger: NewNopLogger()}

	err := r.Do("flaky", func() error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do: unexpected error %v", err)
	}
	if calls != 3 {
		t.Errorf("calls: got %d, want 3", calls)
	}
}

func TestRetryGivesUp(t *testing.T) {
	cause := errors.New("down")
	r := &RetryConfig{MaxAttempts: 2, BaseDelay: time.Millisecond, Logger: NewNopLogger()}

	err := r.Do("always-fails", func() error { return cause })
	if !errors.Is(err, cause) {
		t.Errorf("Do: got %v, want wrapped %v", err, cause)
	}
}
