package uploader

import (
	"context"

	"github.com/craftfolio/story-engine/internal/domain"
)

// ProgressFunc receives integer upload percentages, monotonically
// non-decreasing from 0 to 100.
type ProgressFunc func(pct int)

// Client transfers resolved media to the backend and returns the
// server-assigned story reference. It never retries; retry policy belongs
// to the caller.
type Client interface {
	Upload(ctx context.Context, desc domain.UploadDescriptor, onProgress ProgressFunc) (domain.ServerStoryRef, error)
}
