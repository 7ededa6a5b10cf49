package notifierimpl

import (
	"context"
	"errors"
	"time"

	"github.com/craftfolio/story-engine/internal/domain"
	"github.com/craftfolio/story-engine/internal/notifier"
	"github.com/craftfolio/story-engine/internal/playback"
	"github.com/craftfolio/story-engine/internal/repositories/viewed"
	"github.com/craftfolio/story-engine/internal/store"
	"github.com/craftfolio/story-engine/pkg/logger"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/fx"
)

const (
	poolSize       = 5
	persistTimeout = 5 * time.Second
)

type Opts struct {
	fx.In

	Store  store.Client
	Viewed viewed.Repository
	Logger logger.Logger
}

type NotifierImpl struct {
	Store  store.Client
	Viewed viewed.Repository
	Logger logger.Logger

	pool *ants.Pool
}

func New(opts Opts) (*NotifierImpl, error) {
	pool, err := ants.NewPool(poolSize, ants.WithPreAlloc(true))
	if err != nil {
		return nil, err
	}

	return &NotifierImpl{
		Store:  opts.Store,
		Viewed: opts.Viewed,
		Logger: opts.Logger,
		pool:   pool,
	}, nil
}

var _ notifier.Client = (*NotifierImpl)(nil)

func (n *NotifierImpl) Watch(ctx context.Context, events <-chan playback.ViewedEvent) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				n.handle(ev)
			}
		}
	}()
}

func (n *NotifierImpl) handle(ev playback.ViewedEvent) {
	if err := n.pool.Submit(func() { n.markViewed(ev) }); err != nil {
		n.Logger.Error("Failed to submit viewed event to pool",
			"session_id", ev.SessionID, "story_id", ev.Story.ID, "error", err)
	}
}

func (n *NotifierImpl) markViewed(ev playback.ViewedEvent) {
	n.Store.MarkViewed(ev.Story.ID)

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if _, err := n.Viewed.GetByStoryID(ctx, ev.Story.ID); err == nil {
		return
	} else if !errors.Is(err, viewed.ErrNotFound) {
		n.Logger.Error("Failed to check viewed mark", "story_id", ev.Story.ID, "error", err)
		return
	}

	mark := domain.ViewedMark{
		StoryID:  ev.Story.ID,
		OwnerID:  ev.Story.OwnerID,
		ViewedAt: ev.At,
	}
	if err := n.Viewed.Create(ctx, mark); err != nil {
		n.Logger.Error("Failed to persist viewed mark", "story_id", mark.StoryID, "error", err)
		return
	}

	n.Logger.Debug("Story marked viewed", "session_id", ev.SessionID, "story_id", mark.StoryID)
}

func (n *NotifierImpl) Close() {
	n.pool.Release()
}
