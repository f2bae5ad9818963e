package sweep

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"gearshare/internal/app/commands"
	bookingapp "gearshare/internal/app/handlers/booking"
)

const defaultSchedule = "@every 1m"

// CompletionSweep periodically moves confirmed bookings whose window has
// elapsed to COMPLETED. This is the only path into that status.
type CompletionSweep struct {
	Commands commands.Bus
	Schedule string
	Logger   *slog.Logger

	cron *cron.Cron
}

// Start registers the cron entry and begins running it. Stop must be called
// on shutdown.
func (s *CompletionSweep) Start() error {
	schedule := s.Schedule
	if schedule == "" {
		schedule = defaultSchedule
	}
	s.cron = cron.New()
	_, err := s.cron.AddFunc(schedule, s.runOnce)
	if err != nil {
		return err
	}
	s.cron.Start()
	if s.Logger != nil {
		s.Logger.Info("completion sweep scheduled", "schedule", schedule)
	}
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (s *CompletionSweep) Stop() {
	if s.cron == nil {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *CompletionSweep) runOnce() {
	cmd := bookingapp.CompleteElapsedCommand{Cutoff: time.Now().UTC()}
	result, err := commands.Dispatch[bookingapp.CompleteElapsedCommand, *bookingapp.CompleteElapsedResult](context.Background(), s.Commands, cmd)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Error("completion sweep failed", "error", err)
		}
		return
	}
	if s.Logger != nil && result != nil && result.Completed > 0 {
		s.Logger.Info("completion sweep finished", "completed", result.Completed)
	}
}
