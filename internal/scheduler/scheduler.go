package scheduler

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/stevelisz/ANiceClock/internal/weather"
)

// Scheduler periodically refreshes the weather snapshot, the daemon
// equivalent of the clock face refetching on activation.
type Scheduler struct {
	scheduler *gocron.Scheduler
	client    *weather.Client
	interval  time.Duration
}

// New creates a Scheduler driving the given weather client.
func New(client *weather.Client, interval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		client:    client,
		interval:  interval,
	}
}

// Start schedules the periodic refresh and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	interval := s.interval
	if interval <= 0 {
		interval = 30 * time.Minute
	}

	_, err := s.scheduler.Every(interval).Do(func() {
		log.Println("scheduler: running weather refresh")
		s.client.Refresh()
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
