package media

import (
	"strings"
	"testing"

	"github.com/craftfolio/story-engine/internal/domain"
	"github.com/craftfolio/story-engine/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_KnownExtensions(t *testing.T) {
	cases := []struct {
		name     string
		uri      string
		kind     domain.MediaKind
		wantMime string
		wantExt  string
	}{
		{"png image", "file:///tmp/photo.png", domain.MediaKindImage, "image/png", ".png"},
		{"heic image", "file:///tmp/photo.HEIC", domain.MediaKindImage, "image/heic", ".heic"},
		{"heif normalized to heic", "file:///tmp/photo.heif", domain.MediaKindImage, "image/heic", ".heic"},
		{"webp image", "file:///tmp/photo.webp", domain.MediaKindImage, "image/webp", ".webp"},
		{"mov video", "file:///tmp/clip.mov", domain.MediaKindVideo, "video/quicktime", ".mov"},
		{"webm video", "file:///tmp/clip.webm", domain.MediaKindVideo, "video/webm", ".webm"},
		{"avi video", "file:///tmp/clip.avi", domain.MediaKindVideo, "video/x-msvideo", ".avi"},
		{"m4v video", "file:///tmp/clip.m4v", domain.MediaKindVideo, "video/x-m4v", ".m4v"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			desc, err := Resolve(tc.uri, tc.kind)
			require.NoError(t, err)
			assert.Equal(t, tc.wantMime, desc.MimeType)
			assert.True(t, strings.HasPrefix(desc.FileName, "story_"), "file name %q", desc.FileName)
			assert.True(t, strings.HasSuffix(desc.FileName, tc.wantExt), "file name %q", desc.FileName)
			assert.Equal(t, tc.uri, desc.SourceURI)
			assert.Equal(t, tc.kind, desc.MediaKind)
		})
	}
}

func TestResolve_UnknownExtensionFallsBackToKindDefault(t *testing.T) {
	img, err := Resolve("file:///tmp/photo.tiff", domain.MediaKindImage)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", img.MimeType)
	assert.True(t, strings.HasSuffix(img.FileName, ".jpg"))

	vid, err := Resolve("file:///tmp/clip.mkv", domain.MediaKindVideo)
	require.NoError(t, err)
	assert.Equal(t, "video/mp4", vid.MimeType)
	assert.True(t, strings.HasSuffix(vid.FileName, ".mp4"))
}

func TestResolve_MissingExtensionFallsBackToKindDefault(t *testing.T) {
	desc, err := Resolve("content://media/external/12345", domain.MediaKindImage)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", desc.MimeType)
	assert.True(t, strings.HasSuffix(desc.FileName, ".jpg"))
}

func TestResolve_EmptyURI(t *testing.T) {
	_, err := Resolve("   ", domain.MediaKindImage)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidMedia(err))
}

func TestResolve_InvalidKind(t *testing.T) {
	_, err := Resolve("file:///tmp/photo.png", domain.MediaKindUnknown)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidMedia(err))

	_, err = Resolve("file:///tmp/photo.png", domain.MediaKind("gif"))
	require.Error(t, err)
	assert.True(t, errors.IsInvalidMedia(err))
}

func TestExtensionOf(t *testing.T) {
	assert.Equal(t, "png", extensionOf("a/b/c.PNG"))
	assert.Equal(t, "jpg", extensionOf("photo.final.jpg"))
	assert.Equal(t, "", extensionOf("no-extension"))
}
