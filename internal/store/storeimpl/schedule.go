package storeimpl

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// ScheduleRefresh re-fetches followed stories on a fixed interval so rings
// stay fresh without user interaction.
func (s *StoreImpl) ScheduleRefresh(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create refresh scheduler: %w", err)
	}

	interval := time.Duration(s.Config.Refresh.Minutes) * time.Minute

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				s.Logger.Info("Context cancelled, stopping story refresh job")
				return
			}

			taskCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
			defer cancel()

			if _, err := s.FetchFollowedStories(taskCtx); err != nil {
				s.Logger.Error("Scheduled story refresh failed", "error", err)
				return
			}
			s.Logger.Info("Scheduled story refresh completed")
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule story refresh: %w", err)
	}

	scheduler.Start()

	go func() {
		<-ctx.Done()
		s.Logger.Info("Stopping story refresh scheduler")
		if err := scheduler.Shutdown(); err != nil {
			s.Logger.Error("Failed to shut down refresh scheduler", "error", err)
		}
	}()

	return nil
}
