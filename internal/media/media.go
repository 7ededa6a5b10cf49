// Package media turns a picker-supplied URI into a canonical upload
// descriptor: mime type from the file extension, a timestamped file name,
// and kind-appropriate defaults when the extension is missing or unknown.
package media

import (
	"fmt"
	"strings"
	"time"

	"github.com/craftfolio/story-engine/internal/domain"
	"github.com/craftfolio/story-engine/pkg/errors"
)

const fileNamePrefix = "story"

type mediaType struct {
	mime string
	ext  string
}

var imageTypes = map[string]mediaType{
	"png":  {"image/png", "png"},
	"heic": {"image/heic", "heic"},
	"heif": {"image/heic", "heic"},
	"webp": {"image/webp", "webp"},
}

var videoTypes = map[string]mediaType{
	"mov":  {"video/quicktime", "mov"},
	"avi":  {"video/x-msvideo", "avi"},
	"m4v":  {"video/x-m4v", "m4v"},
	"webm": {"video/webm", "webm"},
}

var (
	defaultImageType = mediaType{"image/jpeg", "jpg"}
	defaultVideoType = mediaType{"video/mp4", "mp4"}
)

// Resolve builds an UploadDescriptor for the given source URI. An
// unrecognized or missing extension falls back to the declared kind's
// default, never an error; only an empty URI or an invalid kind fails.
//
// File names are timestamp-based, so two resolves in the same millisecond
// can collide. Uniqueness ultimately comes from the server-assigned id.
func Resolve(uri string, kind domain.MediaKind) (domain.UploadDescriptor, error) {
	if strings.TrimSpace(uri) == "" {
		return domain.UploadDescriptor{}, errors.Wrap(errors.ErrInvalidMedia, "media URI is empty")
	}
	if !kind.Valid() {
		return domain.UploadDescriptor{}, errors.Wrap(errors.ErrInvalidMedia, fmt.Sprintf("unsupported media kind %q", kind))
	}

	ext := extensionOf(uri)

	var mt mediaType
	var ok bool
	switch kind {
	case domain.MediaKindImage:
		if mt, ok = imageTypes[ext]; !ok {
			mt = defaultImageType
		}
	case domain.MediaKindVideo:
		if mt, ok = videoTypes[ext]; !ok {
			mt = defaultVideoType
		}
	}

	return domain.UploadDescriptor{
		SourceURI: uri,
		MimeType:  mt.mime,
		FileName:  fmt.Sprintf("%s_%d.%s", fileNamePrefix, time.Now().UnixMilli(), mt.ext),
		MediaKind: kind,
	}, nil
}

func extensionOf(uri string) string {
	parts := strings.Split(uri, ".")
	if len(parts) < 2 {
		return ""
	}
	return strings.ToLower(parts[len(parts)-1])
}
