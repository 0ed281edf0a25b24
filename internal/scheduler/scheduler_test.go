package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type countingRefresher struct {
	calls   atomic.Int32
	block   chan struct{}
	started chan struct{}
	err     error
}

func (r *countingRefresher) RefreshAll(ctx context.Context) (int, error) {
	r.calls.Add(1)
	if r.started != nil {
		r.started <- struct{}{}
	}
	if r.block != nil {
		select {
		case <-r.block:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	return 1, r.err
}

func TestNew(t *testing.T) {
	t.Run("accepts descriptors and cron expressions", func(t *testing.T) {
		for _, schedule := range []string{"@daily", "@every 1h", "30 2 * * *"} {
			if _, err := New(schedule, &countingRefresher{}); err != nil {
				t.Errorf("Expected schedule %q to be valid, got %v", schedule, err)
			}
		}
	})

	t.Run("rejects invalid schedule", func(t *testing.T) {
		if _, err := New("every day", &countingRefresher{}); err == nil {
			t.Error("Expected error for invalid schedule")
		}
	})
}

func TestScheduler_RunOnce(t *testing.T) {
	refresher := &countingRefresher{err: errors.New("boom")}
	s, err := New("@daily", refresher)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	written, err := s.RunOnce(context.Background())
	if err == nil || written != 1 {
		t.Errorf("Expected refresher result, got %d and %v", written, err)
	}
	if refresher.calls.Load() != 1 {
		t.Errorf("Expected 1 call, got %d", refresher.calls.Load())
	}
}

func TestScheduler_SkipsOverlappingRuns(t *testing.T) {
	refresher := &countingRefresher{block: make(chan struct{}), started: make(chan struct{}, 1)}
	s, err := New("@daily", refresher)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	done := make(chan struct{})
	go func() {
		s.run()
		close(done)
	}()
	<-refresher.started

	// a second run while the first is busy returns at once
	s.run()
	if _, err := s.RunOnce(context.Background()); err == nil {
		t.Error("Expected RunOnce to refuse while a run is busy")
	}

	close(refresher.block)
	<-done

	if refresher.calls.Load() != 1 {
		t.Errorf("Expected 1 call, got %d", refresher.calls.Load())
	}
}

func TestScheduler_StopCancelsRun(t *testing.T) {
	refresher := &countingRefresher{block: make(chan struct{}), started: make(chan struct{}, 1)}
	s, err := New("@every 1h", refresher)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	s.Start()

	done := make(chan struct{})
	go func() {
		s.run()
		close(done)
	}()
	<-refresher.started

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Errorf("Expected clean stop, got %v", err)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Expected the running refresh to be cancelled")
	}
}
