// Package maintenance runs database housekeeping on a cron schedule.
package maintenance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Maintainer is the store surface the scheduler drives.
type Maintainer interface {
	Optimize(ctx context.Context) error
	Vacuum(ctx context.Context) error
}

// Scheduler runs Optimize, and optionally Vacuum, on a cron schedule. Runs
// never overlap: a run that is still going when the next one is due causes
// that one to be skipped.
type Scheduler struct {
	db     Maintainer
	vacuum bool

	mu      sync.Mutex
	cron    *cron.Cron
	entryID cron.EntryID
	cancel  context.CancelFunc
	running bool
}

// NewScheduler creates a scheduler. With vacuum set, every run also
// rebuilds the database file.
func NewScheduler(db Maintainer, vacuum bool) *Scheduler {
	return &Scheduler{
		db:     db,
		vacuum: vacuum,
		cron:   cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}
}

// Start schedules maintenance with a standard cron expression or a
// descriptor such as "@daily".
func (s *Scheduler) Start(schedule string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("maintenance scheduler already running")
	}

	// Jobs get their context here and never take s.mu: Stop holds it while
	// waiting for a running job to return.
	ctx, cancel := context.WithCancel(context.Background())
	id, err := s.cron.AddFunc(schedule, func() { s.scheduledRun(ctx) })
	if err != nil {
		cancel()
		return fmt.Errorf("invalid maintenance schedule %q: %w", schedule, err)
	}

	s.entryID = id
	s.cancel = cancel
	s.cron.Start()
	s.running = true

	log.Info().Str("schedule", schedule).Bool("vacuum", s.vacuum).Msg("Maintenance scheduler started")
	return nil
}

// Stop cancels a run in progress and waits for it to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	<-s.cron.Stop().Done()
	s.cron.Remove(s.entryID)
	s.entryID = 0
	s.running = false

	log.Info().Msg("Maintenance scheduler stopped")
}

// NextRun returns when the next run is due, or the zero time when stopped.
func (s *Scheduler) NextRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entryID == 0 {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Next
}

// RunOnce performs one maintenance pass.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	start := time.Now()

	if err := s.db.Optimize(ctx); err != nil {
		return err
	}
	if s.vacuum {
		if err := s.db.Vacuum(ctx); err != nil {
			return err
		}
	}

	log.Info().Dur("duration", time.Since(start)).Bool("vacuum", s.vacuum).Msg("Database maintenance completed")
	return nil
}

func (s *Scheduler) scheduledRun(ctx context.Context) {
	if err := s.RunOnce(ctx); err != nil {
		log.Error().Err(err).Msg("Scheduled database maintenance failed")
	}
}
