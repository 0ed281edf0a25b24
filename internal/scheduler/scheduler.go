// Package scheduler refreshes the stored ledger snapshots on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"
)

// Refresher recomputes the snapshot of every fund.
type Refresher interface {
	RefreshAll(ctx context.Context) (int, error)
}

// Scheduler runs a Refresher on a cron schedule. Runs never overlap; a run
// that is due while the previous one is still busy is skipped.
type Scheduler struct {
	cron      *cron.Cron
	refresher Refresher

	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
	busy   bool
}

// New creates a Scheduler for schedule, a standard five field cron
// expression or a descriptor such as "@daily" or "@every 1h".
func New(schedule string, refresher Refresher) (*Scheduler, error) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:      cron.New(),
		refresher: refresher,
		ctx:       ctx,
		cancel:    cancel,
	}

	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		cancel()
		return nil, fmt.Errorf("invalid snapshot schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start begins running the job in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Printf("Snapshot scheduler started, next run at %s", s.cron.Entries()[0].Next.Format("2006-01-02 15:04:05"))
}

// Stop cancels a running refresh and waits for it to return or for ctx to end.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	done := s.cron.Stop()

	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("snapshot scheduler did not stop: %w", ctx.Err())
	}
}

// RunOnce refreshes all snapshots now, outside the schedule.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	if !s.acquire() {
		return 0, fmt.Errorf("snapshot refresh already running")
	}
	defer s.release()

	return s.refresher.RefreshAll(ctx)
}

func (s *Scheduler) run() {
	if !s.acquire() {
		log.Printf("Snapshot refresh skipped, previous run still busy")
		return
	}
	defer s.release()

	written, err := s.refresher.RefreshAll(s.ctx)
	if err != nil {
		log.Printf("Snapshot refresh finished with errors: %d written: %v", written, err)
		return
	}
	log.Printf("Snapshot refresh finished: %d written", written)
}

func (s *Scheduler) acquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return false
	}
	s.busy = true
	return true
}

func (s *Scheduler) release() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}
