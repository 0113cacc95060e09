package keyapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/artsapp/builder/internal/domain/models"
	"github.com/artsapp/builder/internal/domain/repository"
	"github.com/artsapp/builder/pkg/errors"
)

var _ repository.KeyRepository = (*KeyAPI)(nil)

// KeyAPI reaches /keys and /editors
type KeyAPI struct {
	c *Client
}

// Keys returns the key endpoints
func (c *Client) Keys() *KeyAPI {
	return &KeyAPI{c: c}
}

// List retrieves every key visible to the caller
func (a *KeyAPI) List(ctx context.Context) ([]models.Key, error) {
	var keys []models.Key
	if err := a.c.get(ctx, errors.EntityKey, "/keys", "/keys", &keys); err != nil {
		return nil, err
	}
	return keys, nil
}

// Get retrieves a key by id
func (a *KeyAPI) Get(ctx context.Context, id string) (*models.Key, error) {
	var key models.Key
	if err := a.c.get(ctx, errors.EntityKey, "/keys/:id", "/keys/"+escape(id), &key); err != nil {
		return nil, err
	}
	return &key, nil
}

// Create creates a key
func (a *KeyAPI) Create(ctx context.Context, key *models.Key) (*models.Key, error) {
	var created models.Key
	if err := a.c.send(ctx, http.MethodPost, errors.EntityKey, "/keys", "/keys", key, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update replaces the metadata of a key
func (a *KeyAPI) Update(ctx context.Context, key *models.Key) (*models.Key, error) {
	var updated models.Key
	if err := a.c.send(ctx, http.MethodPut, errors.EntityKey, "/keys/:id", "/keys/"+escape(key.ID), key, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// ListEditors retrieves the editors of a key
func (a *KeyAPI) ListEditors(ctx context.Context, keyID string) ([]models.KeyEditor, error) {
	var editors []models.KeyEditor
	err := a.c.invoke(ctx, call{
		method:   http.MethodGet,
		endpoint: "/editors",
		path:     "/editors",
		query:    url.Values{"keyId": {keyID}},
		entity:   errors.EntityKey,
	}, &editors)
	if err != nil {
		return nil, err
	}
	return editors, nil
}

// AddEditor grants a user an editing role on a key
func (a *KeyAPI) AddEditor(ctx context.Context, editor models.KeyEditor) error {
	return a.c.send(ctx, http.MethodPost, errors.EntityKey, "/editors", "/editors", editor, nil)
}

// RemoveEditor revokes a user's editing role
func (a *KeyAPI) RemoveEditor(ctx context.Context, keyID, userID string) error {
	return a.c.delete(ctx, errors.EntityKey, "/editors", "/editors", url.Values{"keyId": {keyID}, "userId": {userID}}, nil)
}
