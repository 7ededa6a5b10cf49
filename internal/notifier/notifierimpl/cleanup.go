package notifierimpl

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
)

const (
	cleanupInterval = 24 * time.Hour
	markRetention   = 30 * 24 * time.Hour
)

// ScheduleCleanup prunes viewed marks past the retention window once a day.
// Stories expire server-side long before that; the table only needs to not
// grow forever.
func (n *NotifierImpl) ScheduleCleanup(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create cleanup scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(cleanupInterval),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				n.Logger.Info("Context cancelled, stopping viewed mark cleanup job")
				return
			}

			taskCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
			defer cancel()

			deleted, err := n.Viewed.CleanupOldRecords(taskCtx, markRetention)
			if err != nil {
				n.Logger.Error("Viewed mark cleanup failed", "error", err)
				return
			}
			n.Logger.Info("Viewed mark cleanup completed", "deleted", deleted)
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule viewed mark cleanup: %w", err)
	}

	scheduler.Start()

	go func() {
		<-ctx.Done()
		n.Logger.Info("Stopping viewed mark cleanup scheduler")
		if err := scheduler.Shutdown(); err != nil {
			n.Logger.Error("Failed to shut down cleanup scheduler", "error", err)
		}
	}()

	return nil
}
