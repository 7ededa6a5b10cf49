package backend

import (
	"context"

	"github.com/craftfolio/story-engine/internal/domain"
)

// Client reads story feeds from the remote social backend.
type Client interface {
	OwnStories(ctx context.Context) ([]domain.StoryItem, error)
	FollowedStories(ctx context.Context) ([]domain.StoryItem, error)
}
