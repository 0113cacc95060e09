package keyapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/artsapp/builder/internal/domain/models"
	"github.com/artsapp/builder/internal/domain/repository"
	"github.com/artsapp/builder/pkg/errors"
)

var _ repository.MediaRepository = (*MediaAPI)(nil)

// MediaAPI reaches /media/:entity
type MediaAPI struct {
	c *Client
}

// Media returns the media endpoints
func (c *Client) Media() *MediaAPI {
	return &MediaAPI{c: c}
}

// Upload sends a file as multipart/form-data
func (a *MediaAPI) Upload(ctx context.Context, entity models.MediaEntity, ref repository.RevisionRef, file repository.Upload) (*models.Media, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range map[string]string{
		"keyId":      ref.KeyID,
		"revisionId": ref.RevisionID,
		"entityId":   file.EntityID,
	} {
		if v == "" {
			continue
		}
		if err := w.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("failed to write form field: %w", err)
		}
	}
	part, err := w.CreateFormFile("file", file.FileName)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file.Body); err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish form: %w", err)
	}

	var media models.Media
	err = a.c.invoke(ctx, call{
		method:      http.MethodPost,
		endpoint:    "/media/:entity",
		path:        "/media/" + escape(string(entity)),
		raw:         &buf,
		contentType: w.FormDataContentType(),
		entity:      errors.EntityMedia,
	}, &media)
	if err != nil {
		return nil, err
	}
	return &media, nil
}

// UpdateMetadata replaces the title, creators and license of a media item
func (a *MediaAPI) UpdateMetadata(ctx context.Context, entity models.MediaEntity, media *models.Media) (*models.Media, error) {
	var out models.Media
	if err := a.c.send(ctx, http.MethodPut, errors.EntityMedia, "/media/:entity", "/media/"+escape(string(entity)), media, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete detaches and removes a media item
func (a *MediaAPI) Delete(ctx context.Context, entity models.MediaEntity, entityID, mediaID string) error {
	q := url.Values{"entityId": {entityID}, "mediaId": {mediaID}}
	return a.c.delete(ctx, errors.EntityMedia, "/media/:entity", "/media/"+escape(string(entity)), q, nil)
}
