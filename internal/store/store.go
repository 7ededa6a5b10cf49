package store

import (
	"context"

	"github.com/craftfolio/story-engine/internal/domain"
	"github.com/craftfolio/story-engine/internal/uploader"
)

// Client is the authoritative holder of the viewer's own stories and of
// followed users' stories. All mutation of the collections goes through it.
type Client interface {
	// FetchOwnStories replaces the own-story collection with the server
	// snapshot. On failure the previous in-memory state is retained.
	FetchOwnStories(ctx context.Context) ([]domain.StoryItem, error)
	// FetchFollowedStories does the same for followed users' stories.
	FetchFollowedStories(ctx context.Context) ([]domain.StoryItem, error)
	// AddStory resolves and uploads new media, then re-fetches own stories;
	// the server stays the source of truth, nothing is spliced locally.
	AddStory(ctx context.Context, uri string, kind domain.MediaKind, onProgress uploader.ProgressFunc) error

	OwnStories() []domain.StoryItem
	FollowedStories() []domain.StoryItem
	// Groups returns followed stories partitioned into one ring per user.
	Groups() []domain.StoryGroup
	// MarkViewed flips the viewed flag on a story in either collection.
	MarkViewed(storyID string)

	// Err reports the most recent fetch/upload failure, nil after a success.
	Err() error
	// LastUpload reports the state of the most recent AddStory mutation.
	LastUpload() (domain.UploadState, bool)

	// WarmFromCache seeds the own-story collection from the local cache.
	WarmFromCache(ctx context.Context) error
	// ScheduleRefresh periodically re-fetches followed stories until the
	// context is cancelled.
	ScheduleRefresh(ctx context.Context) error
}
