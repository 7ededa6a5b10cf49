package backendimpl

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/craftfolio/story-engine/internal/domain"
	"github.com/craftfolio/story-engine/pkg/errors"
)

const (
	ownStoriesPath      = "/user/story/self"
	followedStoriesPath = "/user/story/following"
)

// feedResponse is the backend's envelope for story feeds. All shape
// normalization happens here, once; nothing downstream sniffs payloads.
type feedResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Body    []rawStory `json:"body"`
}

type rawStory struct {
	ID        string    `json:"_id"`
	URL       string    `json:"url"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
	User      struct {
		ID     string `json:"_id"`
		Name   string `json:"name"`
		Avatar string `json:"avatar"`
	} `json:"user"`
}

func (b *BackendImpl) OwnStories(ctx context.Context) ([]domain.StoryItem, error) {
	return b.fetchFeed(ctx, ownStoriesPath)
}

func (b *BackendImpl) FollowedStories(ctx context.Context) ([]domain.StoryItem, error) {
	return b.fetchFeed(ctx, followedStoriesPath)
}

func (b *BackendImpl) fetchFeed(ctx context.Context, path string) ([]domain.StoryItem, error) {
	token, err := b.Tokens.Token()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.Config.Api.BaseURL+path, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build feed request")
	}
	req.Header.Set("token", token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.HTTP.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrNetwork, err.Error())
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			b.Logger.Error("Error closing response body", "error", cerr)
		}
	}()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, errors.Wrap(errors.ErrAuth, "token rejected by server")
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, errors.WrapWithCode(errors.ErrServer, fmt.Sprintf("%d", resp.StatusCode), "feed request failed")
	}

	var parsed feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errors.Wrap(errors.ErrServer, "malformed feed response")
	}
	if !parsed.Success {
		return nil, errors.Wrap(errors.ErrServer, parsed.Message)
	}

	return b.mapStories(parsed.Body), nil
}

// mapStories converts raw feed records to story items. Records whose media
// kind cannot be determined are dropped with a warning so one bad record
// does not fail the whole feed.
func (b *BackendImpl) mapStories(raw []rawStory) []domain.StoryItem {
	items := make([]domain.StoryItem, 0, len(raw))
	for _, r := range raw {
		kind := domain.MediaKind(r.Type)
		if !kind.Valid() {
			b.Logger.Warn("Dropping story with undetermined media kind",
				"story_id", r.ID, "type", r.Type, "error", errors.ErrUnknownMediaKind)
			continue
		}

		items = append(items, domain.StoryItem{
			ID:             r.ID,
			MediaURL:       r.URL,
			MediaKind:      kind,
			OwnerID:        r.User.ID,
			OwnerName:      r.User.Name,
			OwnerAvatarURL: r.User.Avatar,
			CreatedAt:      r.CreatedAt,
		})
	}
	return items
}
