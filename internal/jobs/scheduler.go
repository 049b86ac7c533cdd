// Package jobs runs background work on a cron schedule.
package jobs

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/t3ratech/bantora-web/internal/services"
)

// Task is one unit of scheduled work
type Task interface {
	Name() string
	Schedule() string
	Timeout() time.Duration
	Run(ctx context.Context) error
}

// Scheduler executes registered tasks once at start and then on their schedules
type Scheduler struct {
	cron    *cron.Cron
	tasks   []Task
	running []sync.Mutex
	logger  *log.Logger
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler whose cron expressions include a seconds field
func NewScheduler(tasks ...Task) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		tasks:   tasks,
		running: make([]sync.Mutex, len(tasks)),
		logger:  log.New(os.Stdout, "[JOBS] ", log.LstdFlags),
	}
}

// Start registers every task, runs each one immediately in the background and starts cron.
// A task never runs twice at once; a run that would overlap the previous one is skipped.
func (s *Scheduler) Start(ctx context.Context) error {
	for i, task := range s.tasks {
		i := i
		s.logger.Printf("Registering task: %s with schedule: %s", task.Name(), task.Schedule())
		if _, err := s.cron.AddFunc(task.Schedule(), func() {
			s.execute(ctx, i)
		}); err != nil {
			return fmt.Errorf("failed to schedule task %s: %w", task.Name(), err)
		}
	}

	for i := range s.tasks {
		i := i
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.execute(ctx, i)
		}()
	}

	s.cron.Start()
	return nil
}

// Stop halts the schedule and waits for running tasks to finish
func (s *Scheduler) Stop() {
	s.logger.Println("Stopping scheduler...")
	done := s.cron.Stop()
	s.wg.Wait()
	<-done.Done()
	s.logger.Println("Scheduler stopped")
}

func (s *Scheduler) execute(ctx context.Context, i int) {
	task := s.tasks[i]
	if !s.running[i].TryLock() {
		s.logger.Printf("Task %s still running, skipping", task.Name())
		return
	}
	defer s.running[i].Unlock()

	taskCtx, cancel := context.WithTimeout(ctx, task.Timeout())
	defer cancel()

	start := time.Now()
	err := task.Run(taskCtx)
	duration := time.Since(start)

	if err != nil {
		s.logger.Printf("Task %s failed after %v: %v", task.Name(), duration, err)
		return
	}
	s.logger.Printf("Task %s completed in %v", task.Name(), duration)
}

// IdeaPromotionTask promotes ideas that reached the upvote threshold
type IdeaPromotionTask struct {
	promotion services.PromotionService
	schedule  string
}

// NewIdeaPromotionTask creates the idea promotion task
func NewIdeaPromotionTask(promotion services.PromotionService, schedule string) *IdeaPromotionTask {
	return &IdeaPromotionTask{promotion: promotion, schedule: schedule}
}

func (t *IdeaPromotionTask) Name() string           { return "idea-promotion" }
func (t *IdeaPromotionTask) Schedule() string       { return t.schedule }
func (t *IdeaPromotionTask) Timeout() time.Duration { return 5 * time.Minute }

func (t *IdeaPromotionTask) Run(ctx context.Context) error {
	n, err := t.promotion.PromoteIdeas(ctx)
	if err != nil {
		return err
	}
	log.Printf("Promoted %d ideas to polls", n)
	return nil
}
