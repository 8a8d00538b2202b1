// Package scheduler wires up the cron job that periodically sweeps for
// appointments about to start and sends their reminders.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"shopdesk/workshop-service/internal/appointments"
)

// Scheduler wraps robfig/cron and manages the reminder sweep.
type Scheduler struct {
	cron   *cron.Cron
	svc    *appointments.Service
	window time.Duration
	spec   string // cron spec, e.g. "@every 5m"
}

// New creates a Scheduler that sweeps every intervalMin minutes for
// appointments starting within windowMin minutes.
func New(svc *appointments.Service, intervalMin, windowMin int) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithLogger(cron.DefaultLogger)),
		svc:    svc,
		window: time.Duration(windowMin) * time.Minute,
		spec:   fmt.Sprintf("@every %dm", intervalMin),
	}
}

// Start registers the sweep and starts the scheduler. Also runs one sweep
// immediately so reminders queued while the service was down go out without
// waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runSweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[scheduler] Cron started — spec: %s, window: %s", s.spec, s.window)

	// Run immediately on startup (non-blocking)
	go s.runSweep(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[scheduler] Cron stopped")
}

func (s *Scheduler) runSweep(ctx context.Context) {
	sent, err := s.svc.RemindDue(ctx, s.window)
	if err != nil {
		log.Printf("[scheduler] Reminder sweep error: %v", err)
		return
	}
	if sent > 0 {
		log.Printf("[scheduler] Reminder sweep sent %d reminder(s)", sent)
	}
}
