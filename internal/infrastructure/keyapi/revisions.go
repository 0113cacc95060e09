package keyapi

import (
	"context"
	"net/http"

	"github.com/artsapp/builder/internal/domain/models"
	"github.com/artsapp/builder/internal/domain/repository"
	"github.com/artsapp/builder/pkg/constants"
	"github.com/artsapp/builder/pkg/errors"
)

var _ repository.RevisionRepository = (*RevisionAPI)(nil)

// RevisionAPI reaches /revisions
type RevisionAPI struct {
	c *Client
}

// Revisions returns the revision endpoints
func (c *Client) Revisions() *RevisionAPI {
	return &RevisionAPI{c: c}
}

// ListByKey retrieves the revisions of a key
func (a *RevisionAPI) ListByKey(ctx context.Context, keyID string) ([]models.Revision, error) {
	var revisions []models.Revision
	if err := a.c.get(ctx, errors.EntityRevision, "/revisions/key/:keyId", "/revisions/key/"+escape(keyID), &revisions); err != nil {
		return nil, err
	}
	return revisions, nil
}

// Get retrieves a revision
func (a *RevisionAPI) Get(ctx context.Context, id string) (*models.Revision, error) {
	var rev models.Revision
	if err := a.c.get(ctx, errors.EntityRevision, "/revisions/:id", "/revisions/"+escape(id), &rev); err != nil {
		return nil, err
	}
	return &rev, nil
}

// Create stores a new revision
func (a *RevisionAPI) Create(ctx context.Context, rev repository.NewRevision) (*models.Revision, error) {
	var created models.Revision
	if err := a.c.send(ctx, http.MethodPost, errors.EntityRevision, "/revisions", "/revisions", rev, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// SetStatus moves a revision through the review workflow
func (a *RevisionAPI) SetStatus(ctx context.Context, revisionID string, status constants.RevisionStatus) error {
	body := map[string]interface{}{"revisionId": revisionID, "status": status}
	return a.c.send(ctx, http.MethodPut, errors.EntityRevision, "/revisions/status", "/revisions/status", body, nil)
}

// SetMode selects single or double decision mode
func (a *RevisionAPI) SetMode(ctx context.Context, revisionID string, mode constants.RevisionMode) error {
	body := map[string]interface{}{"revisionId": revisionID, "mode": mode}
	return a.c.send(ctx, http.MethodPut, errors.EntityRevision, "/revisions/mode", "/revisions/mode", body, nil)
}

// SetNote replaces the revision note
func (a *RevisionAPI) SetNote(ctx context.Context, revisionID, note string) error {
	body := map[string]interface{}{"revisionId": revisionID, "note": note}
	return a.c.send(ctx, http.MethodPut, errors.EntityRevision, "/revisions/note", "/revisions/note", body, nil)
}
