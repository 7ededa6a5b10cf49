package storeimpl

import (
	"sync"

	"github.com/craftfolio/story-engine/internal/backend"
	"github.com/craftfolio/story-engine/internal/cache"
	"github.com/craftfolio/story-engine/internal/domain"
	"github.com/craftfolio/story-engine/internal/store"
	"github.com/craftfolio/story-engine/internal/uploader"
	"github.com/craftfolio/story-engine/pkg/config"
	"github.com/craftfolio/story-engine/pkg/logger"
	"github.com/craftfolio/story-engine/pkg/retry"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Backend  backend.Client
	Uploader uploader.Client
	Cache    cache.Cache
	Logger   logger.Logger
	Config   *config.Config
}

type StoreImpl struct {
	Backend  backend.Client
	Uploader uploader.Client
	Cache    cache.Cache
	Logger   logger.Logger
	Config   *config.Config

	// RetryCfg governs fetch retries; uploads are never retried here.
	RetryCfg retry.Config

	// mu guards the collections and the error/upload fields below. Fetches
	// are deliberately not deduplicated: two concurrent fetches both land
	// and the later response wins.
	mu         sync.Mutex
	own        []domain.StoryItem
	followed   []domain.StoryItem
	lastErr    error
	lastUpload *domain.UploadState
}

func New(opts Opts) *StoreImpl {
	return &StoreImpl{
		Backend:  opts.Backend,
		Uploader: opts.Uploader,
		Cache:    opts.Cache,
		Logger:   opts.Logger,
		Config:   opts.Config,
		RetryCfg: retry.DefaultConfig(),
	}
}

var _ store.Client = (*StoreImpl)(nil)

func (s *StoreImpl) OwnStories() []domain.StoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyItems(s.own)
}

func (s *StoreImpl) FollowedStories() []domain.StoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyItems(s.followed)
}

func (s *StoreImpl) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *StoreImpl) LastUpload() (domain.UploadState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastUpload == nil {
		return domain.UploadState{}, false
	}
	return *s.lastUpload, true
}

func (s *StoreImpl) MarkViewed(storyID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	markViewed(s.own, storyID)
	markViewed(s.followed, storyID)
}

func markViewed(items []domain.StoryItem, storyID string) {
	for i := range items {
		if items[i].ID == storyID {
			items[i].Viewed = true
		}
	}
}

func copyItems(items []domain.StoryItem) []domain.StoryItem {
	out := make([]domain.StoryItem, len(items))
	copy(out, items)
	return out
}
