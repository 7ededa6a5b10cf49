package viewed

import (
	"context"
	"errors"
	"time"

	"github.com/craftfolio/story-engine/internal/domain"
)

var ErrNotFound = errors.New("viewed mark not found")
var ErrCannotCreate = errors.New("error create viewed mark")

type Repository interface {
	GetByStoryID(ctx context.Context, storyID string) (*domain.ViewedMark, error)
	Create(ctx context.Context, mark domain.ViewedMark) error
	CleanupOldRecords(ctx context.Context, olderThan time.Duration) (int64, error)
}
