package notifier

import (
	"context"

	"github.com/craftfolio/story-engine/internal/playback"
)

// Client consumes viewed events emitted by playback sessions and applies
// their side effects (store flag, persistence). Playback never learns
// whether any of it succeeded.
type Client interface {
	// Watch drains the session's event channel until it is closed or the
	// context is cancelled. Safe to call for multiple sessions.
	Watch(ctx context.Context, events <-chan playback.ViewedEvent)
	// ScheduleCleanup periodically prunes old viewed records until the
	// context is cancelled.
	ScheduleCleanup(ctx context.Context) error
	Close()
}
