package storeimpl

import (
	"context"
	"errors"

	"github.com/craftfolio/story-engine/internal/cache"
	"github.com/craftfolio/story-engine/internal/domain"
	"github.com/craftfolio/story-engine/internal/grouping"
	"github.com/craftfolio/story-engine/pkg/retry"
)

func (s *StoreImpl) FetchOwnStories(ctx context.Context) ([]domain.StoryItem, error) {
	var items []domain.StoryItem
	err := retry.Do(ctx, s.Logger, "fetch own stories", func() error {
		var ferr error
		items, ferr = s.Backend.OwnStories(ctx)
		return ferr
	}, s.RetryCfg)

	s.mu.Lock()
	if err != nil {
		// Keep whatever we had; a failed fetch never clears the collection.
		s.lastErr = err
		s.mu.Unlock()
		s.Logger.Error("Failed to fetch own stories", "error", err)
		return nil, err
	}
	s.own = items
	s.lastErr = nil
	s.mu.Unlock()

	if cerr := s.Cache.SaveOwnStories(ctx, items); cerr != nil {
		s.Logger.Warn("Failed to persist own stories to cache", "error", cerr)
	}

	s.Logger.Info("Fetched own stories", "count", len(items))
	return copyItems(items), nil
}

func (s *StoreImpl) FetchFollowedStories(ctx context.Context) ([]domain.StoryItem, error) {
	var items []domain.StoryItem
	err := retry.Do(ctx, s.Logger, "fetch followed stories", func() error {
		var ferr error
		items, ferr = s.Backend.FollowedStories(ctx)
		return ferr
	}, s.RetryCfg)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = err
		s.Logger.Error("Failed to fetch followed stories", "error", err)
		return nil, err
	}
	s.followed = items
	s.lastErr = nil

	s.Logger.Info("Fetched followed stories", "count", len(items))
	return copyItems(items), nil
}

func (s *StoreImpl) Groups() []domain.StoryGroup {
	s.mu.Lock()
	defer s.mu.Unlock()
	return grouping.Group(s.followed, s.Config.Api.SelfID)
}

func (s *StoreImpl) WarmFromCache(ctx context.Context) error {
	items, err := s.Cache.LoadOwnStories(ctx)
	if err != nil {
		if errors.Is(err, cache.ErrEmpty) {
			s.Logger.Info("No cached stories to warm from")
			return nil
		}
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.own) > 0 {
		// A fetch already landed; the cache is staler by definition.
		return nil
	}
	s.own = items
	s.Logger.Info("Warmed own stories from cache", "count", len(items))
	return nil
}
