package scheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"greentask/pkg/logger"
)

// Scheduler runs delayed one-off jobs tagged by owner so that everything
// an owner scheduled can be cancelled at once.
type Scheduler struct {
	cron gocron.Scheduler
	log  logger.Logger
}

func New(log logger.Logger) (*Scheduler, error) {
	cron, err := gocron.NewScheduler(gocron.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	return &Scheduler{cron: cron, log: log}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// After runs task once, delay from now. A non-positive delay runs it as
// soon as the scheduler picks it up.
func (s *Scheduler) After(delay time.Duration, owner string, task func()) error {
	start := gocron.OneTimeJobStartImmediately()
	if delay > 0 {
		start = gocron.OneTimeJobStartDateTime(time.Now().Add(delay))
	}
	_, err := s.cron.NewJob(
		gocron.OneTimeJob(start),
		gocron.NewTask(task),
		gocron.WithTags(owner),
	)
	if err != nil {
		return fmt.Errorf("schedule job for %s: %w", owner, err)
	}
	s.log.Debug("job scheduled", "owner", owner, "delay", delay)
	return nil
}

// Cancel drops every pending job of owner.
func (s *Scheduler) Cancel(owner string) {
	s.cron.RemoveByTags(owner)
}

// Pending reports how many jobs owner still has queued. Only tests call it;
// production code schedules and cancels without inspecting the queue.
func (s *Scheduler) Pending(owner string) int {
	count := 0
	for _, job := range s.cron.Jobs() {
		for _, tag := range job.Tags() {
			if tag == owner {
				count++
				break
			}
		}
	}
	return count
}

func (s *Scheduler) Shutdown() error {
	return s.cron.Shutdown()
}
