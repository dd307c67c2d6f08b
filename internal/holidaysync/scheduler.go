package holidaysync

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

const DefaultSchedule = "0 0 3 * * *"

// Scheduler runs the holiday sync on a cron schedule (with seconds field).
type Scheduler struct {
	cron     *cron.Cron
	service  *SyncService
	schedule string

	// one sync at a time; a manual trigger during a scheduled run waits
	mu sync.Mutex
}

func NewScheduler(service *SyncService, schedule string, loc *time.Location) *Scheduler {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		service:  service,
		schedule: schedule,
	}
}

func (s *Scheduler) Start() error {
	log.Println("Starting holiday sync scheduler...")

	if _, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		_, _ = s.TriggerSync(ctx, nil)
	}); err != nil {
		return fmt.Errorf("invalid holiday sync schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	log.Printf("Holiday sync scheduled: %s", s.schedule)
	return nil
}

func (s *Scheduler) Stop() {
	log.Println("Stopping holiday sync scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Holiday sync scheduler stopped")
}

// TriggerSync runs a sync now.
func (s *Scheduler) TriggerSync(ctx context.Context, actorID *uint) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.service.Sync(ctx, actorID)
}
