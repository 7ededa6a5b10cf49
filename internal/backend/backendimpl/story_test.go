package backendimpl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/craftfolio/story-engine/internal/domain"
	"github.com/craftfolio/story-engine/pkg/config"
	"github.com/craftfolio/story-engine/pkg/errors"
	"github.com/craftfolio/story-engine/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens struct {
	token string
	err   error
}

func (s *staticTokens) Token() (string, error) { return s.token, s.err }

func testBackend(baseURL string) *BackendImpl {
	cfg := &config.Config{}
	cfg.Api.BaseURL = baseURL
	return &BackendImpl{
		HTTP:   &http.Client{},
		Logger: logger.New(logger.Opts{}),
		Config: cfg,
		Tokens: &staticTokens{token: "tok-123"},
	}
}

const feedPayload = `{
	"success": true,
	"body": [
		{
			"_id": "s1",
			"url": "https://cdn.example.com/s1.jpg",
			"type": "image",
			"createdAt": "2024-05-01T10:00:00Z",
			"user": {"_id": "u1", "name": "Alice", "avatar": "https://cdn.example.com/u1.png"}
		},
		{
			"_id": "s2",
			"url": "https://cdn.example.com/s2.mp4",
			"type": "video",
			"createdAt": "2024-05-01T11:00:00Z",
			"user": {"_id": "u2", "name": "Bob", "avatar": ""}
		},
		{
			"_id": "s3",
			"url": "https://cdn.example.com/s3.bin",
			"type": "carousel",
			"createdAt": "2024-05-01T12:00:00Z",
			"user": {"_id": "u3", "name": "Carol", "avatar": ""}
		}
	]
}`

func TestFollowedStories_ParsesFeedAndDropsUnknownKinds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/story/following", r.URL.Path)
		assert.Equal(t, "tok-123", r.Header.Get("token"))
		_, _ = w.Write([]byte(feedPayload))
	}))
	defer srv.Close()

	items, err := testBackend(srv.URL).FollowedStories(context.Background())
	require.NoError(t, err)

	// The carousel record has no playable kind and is dropped.
	require.Len(t, items, 2)

	assert.Equal(t, domain.StoryItem{
		ID:             "s1",
		MediaURL:       "https://cdn.example.com/s1.jpg",
		MediaKind:      domain.MediaKindImage,
		OwnerID:        "u1",
		OwnerName:      "Alice",
		OwnerAvatarURL: "https://cdn.example.com/u1.png",
		CreatedAt:      time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}, items[0])
	assert.Equal(t, domain.MediaKindVideo, items[1].MediaKind)
}

func TestOwnStories_UsesSelfPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/story/self", r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"body":[]}`))
	}))
	defer srv.Close()

	items, err := testBackend(srv.URL).OwnStories(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestFetchFeed_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := testBackend(srv.URL).OwnStories(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsAuth(err))
}

func TestFetchFeed_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testBackend(srv.URL).FollowedStories(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsServer(err))
	assert.Equal(t, "500", errors.GetCode(err))
}

func TestFetchFeed_EnvelopeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"session expired"}`))
	}))
	defer srv.Close()

	_, err := testBackend(srv.URL).OwnStories(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsServer(err))
	assert.Equal(t, "session expired", errors.GetMessage(err))
}

func TestFetchFeed_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := testBackend(srv.URL).OwnStories(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsServer(err))
}

func TestFetchFeed_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := testBackend(srv.URL).OwnStories(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsNetwork(err))
}

func TestFetchFeed_TokenSourceFailure(t *testing.T) {
	b := testBackend("http://unused.invalid")
	b.Tokens = &staticTokens{err: errors.Wrap(errors.ErrAuth, "no session token configured")}

	_, err := b.OwnStories(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsAuth(err))
}
