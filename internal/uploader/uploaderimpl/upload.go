package uploaderimpl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strings"

	"github.com/craftfolio/story-engine/internal/domain"
	"github.com/craftfolio/story-engine/internal/uploader"
	"github.com/craftfolio/story-engine/pkg/errors"
)

// uploadResponse is the backend's envelope for a successful story upload.
type uploadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Body    struct {
		ID       string `json:"_id"`
		MediaURL string `json:"url"`
	} `json:"body"`
}

func (u *UploaderImpl) Upload(ctx context.Context, desc domain.UploadDescriptor, onProgress uploader.ProgressFunc) (domain.ServerStoryRef, error) {
	token, err := u.Tokens.Token()
	if err != nil {
		return domain.ServerStoryRef{}, err
	}

	if desc.SourceURI == "" || desc.FileName == "" {
		return domain.ServerStoryRef{}, errors.Wrap(errors.ErrInvalidMedia, "incomplete upload descriptor")
	}

	body, contentType, err := u.buildMultipartBody(desc)
	if err != nil {
		return domain.ServerStoryRef{}, err
	}

	var reqBody io.Reader = bytes.NewReader(body)
	if onProgress != nil {
		reqBody = newProgressReader(bytes.NewReader(body), int64(len(body)), onProgress)
	}

	url := u.Config.Api.BaseURL + u.Config.Api.UploadPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, reqBody)
	if err != nil {
		return domain.ServerStoryRef{}, errors.Wrap(err, "failed to build upload request")
	}
	req.Header.Set("token", token)
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = int64(len(body))

	u.Logger.Info("Uploading story media", "file", desc.FileName, "mime", desc.MimeType, "bytes", len(body))

	resp, err := u.HTTP.Do(req)
	if err != nil {
		return domain.ServerStoryRef{}, errors.Wrap(errors.ErrNetwork, err.Error())
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			u.Logger.Error("Error closing response body", "error", cerr)
		}
	}()

	if err := mapStatus(resp.StatusCode); err != nil {
		respText, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		u.Logger.Error("Upload rejected", "status", resp.StatusCode, "body", string(respText))
		return domain.ServerStoryRef{}, err
	}

	var parsed uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return domain.ServerStoryRef{}, errors.Wrap(errors.ErrServer, "malformed upload response")
	}
	if !parsed.Success {
		return domain.ServerStoryRef{}, errors.Wrap(errors.ErrServer, parsed.Message)
	}

	u.Logger.Info("Upload complete", "story_id", parsed.Body.ID)

	return domain.ServerStoryRef{
		ID:       parsed.Body.ID,
		MediaURL: parsed.Body.MediaURL,
	}, nil
}

func mapStatus(status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized:
		return errors.Wrap(errors.ErrAuth, "token rejected by server")
	case status == http.StatusRequestEntityTooLarge:
		return errors.Wrap(errors.ErrPayloadTooLarge, "media exceeds the server limit")
	default:
		return errors.WrapWithCode(errors.ErrServer, fmt.Sprintf("%d", status), "upload failed")
	}
}

func (u *UploaderImpl) buildMultipartBody(desc domain.UploadDescriptor) ([]byte, string, error) {
	src, err := openSource(desc.SourceURI)
	if err != nil {
		return nil, "", err
	}
	defer src.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, u.Config.Api.UploadField, desc.FileName))
	header.Set("Content-Type", desc.MimeType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to create multipart field")
	}
	if _, err := io.Copy(part, src); err != nil {
		return nil, "", errors.Wrap(errors.ErrInvalidMedia, "failed to read media source")
	}
	if err := writer.Close(); err != nil {
		return nil, "", errors.Wrap(err, "failed to finalize multipart body")
	}

	return buf.Bytes(), writer.FormDataContentType(), nil
}

// openSource accepts file:// URIs and bare filesystem paths; the media
// picker hands us nothing else.
func openSource(uri string) (io.ReadCloser, error) {
	path := strings.TrimPrefix(uri, "file://")
	if strings.Contains(path, "://") {
		return nil, errors.Wrap(errors.ErrInvalidMedia, fmt.Sprintf("unsupported media URI scheme in %q", uri))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidMedia, fmt.Sprintf("media file does not exist: %s", path))
	}
	return f, nil
}
