package storeimpl

import (
	"context"

	"github.com/craftfolio/story-engine/internal/domain"
	"github.com/craftfolio/story-engine/internal/media"
	"github.com/craftfolio/story-engine/internal/uploader"
	"github.com/craftfolio/story-engine/pkg/errors"
)

// AddStory resolves the picked media and uploads it. The mutation is
// tracked as Pending until the server answers; on success own stories are
// re-fetched rather than spliced locally, on failure the collections are
// untouched and the error field is set.
func (s *StoreImpl) AddStory(ctx context.Context, uri string, kind domain.MediaKind, onProgress uploader.ProgressFunc) error {
	desc, err := media.Resolve(uri, kind)
	if err != nil {
		s.recordUploadFailure(domain.UploadDescriptor{SourceURI: uri, MediaKind: kind}, err)
		return err
	}

	s.setUploadState(domain.UploadState{Descriptor: desc, Status: domain.UploadPending})
	s.Logger.Info("Adding story", "file", desc.FileName, "kind", desc.MediaKind)

	ref, err := s.Uploader.Upload(ctx, desc, onProgress)
	if err != nil {
		s.recordUploadFailure(desc, err)
		return err
	}

	s.setUploadState(domain.UploadState{Descriptor: desc, Status: domain.UploadCommitted})
	s.Logger.Info("Story committed by server", "story_id", ref.ID)

	if _, err := s.FetchOwnStories(ctx); err != nil {
		// The story exists server-side; the stale collection heals on the
		// next successful fetch.
		s.Logger.Warn("Story uploaded but refresh failed", "story_id", ref.ID, "error", err)
	}
	return nil
}

func (s *StoreImpl) recordUploadFailure(desc domain.UploadDescriptor, err error) {
	s.Logger.Error("Add story failed", "uri", desc.SourceURI, "error", err)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
	s.lastUpload = &domain.UploadState{
		Descriptor: desc,
		Status:     domain.UploadFailed,
		Reason:     errors.GetMessage(err),
	}
}

func (s *StoreImpl) setUploadState(state domain.UploadState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUpload = &state
}
