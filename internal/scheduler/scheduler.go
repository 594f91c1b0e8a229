package scheduler

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Sweeper evicts quiz sessions that have been idle for too long
type Sweeper interface {
	DeleteIdle(maxIdle time.Duration) int
}

// Scheduler periodically sweeps abandoned quiz sessions out of the
// session store so they expire instead of lingering forever
type Scheduler struct {
	scheduler *gocron.Scheduler
	sweeper   Sweeper
	maxIdle   time.Duration
	interval  time.Duration
}

// New creates a new scheduler instance
func New(sweeper Sweeper, maxIdle, interval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		sweeper:   sweeper,
		maxIdle:   maxIdle,
		interval:  interval,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	s.scheduler.Every(s.interval).Do(s.sweepIdleSessions)

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// sweepIdleSessions evicts sessions whose last activity is older than
// the configured idle limit
func (s *Scheduler) sweepIdleSessions() {
	if removed := s.sweeper.DeleteIdle(s.maxIdle); removed > 0 {
		log.Printf("Evicted %d idle quiz sessions", removed)
	}
}
