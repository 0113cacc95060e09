package keyapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/artsapp/builder/internal/domain/models"
	"github.com/artsapp/builder/internal/domain/repository"
	"github.com/artsapp/builder/pkg/errors"
)

var (
	_ repository.CollectionRepository   = (*CollectionAPI)(nil)
	_ repository.GroupRepository        = (*GroupAPI)(nil)
	_ repository.WorkgroupRepository    = (*WorkgroupAPI)(nil)
	_ repository.OrganizationRepository = (*OrganizationAPI)(nil)
)

// ================================================================================
// Collections
// ================================================================================

// CollectionAPI reaches /collections
type CollectionAPI struct {
	c *Client
}

// Collections returns the collection endpoints
func (c *Client) Collections() *CollectionAPI {
	return &CollectionAPI{c: c}
}

func (a *CollectionAPI) List(ctx context.Context) ([]models.Collection, error) {
	var out []models.Collection
	if err := a.c.get(ctx, errors.EntityCollection, "/collections", "/collections", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *CollectionAPI) Create(ctx context.Context, col *models.Collection) (*models.Collection, error) {
	var out models.Collection
	if err := a.c.send(ctx, http.MethodPost, errors.EntityCollection, "/collections", "/collections", col, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *CollectionAPI) Update(ctx context.Context, col *models.Collection) (*models.Collection, error) {
	var out models.Collection
	if err := a.c.send(ctx, http.MethodPut, errors.EntityCollection, "/collections/:id", "/collections/"+escape(col.ID), col, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *CollectionAPI) Delete(ctx context.Context, id string) error {
	return a.c.delete(ctx, errors.EntityCollection, "/collections/:id", "/collections/"+escape(id), nil, nil)
}

func (a *CollectionAPI) AddKey(ctx context.Context, collectionID, keyID string) error {
	body := map[string]string{"collectionId": collectionID, "keyId": keyID}
	return a.c.send(ctx, http.MethodPost, errors.EntityCollection, "/collections/key", "/collections/key", body, nil)
}

func (a *CollectionAPI) RemoveKey(ctx context.Context, collectionID, keyID string) error {
	q := url.Values{"collectionId": {collectionID}, "keyId": {keyID}}
	return a.c.delete(ctx, errors.EntityCollection, "/collections/key", "/collections/key", q, nil)
}

// ================================================================================
// Groups
// ================================================================================

// GroupAPI reaches /groups
type GroupAPI struct {
	c *Client
}

// Groups returns the group endpoints
func (c *Client) Groups() *GroupAPI {
	return &GroupAPI{c: c}
}

func (a *GroupAPI) List(ctx context.Context) ([]models.Group, error) {
	var out []models.Group
	if err := a.c.get(ctx, errors.EntityGroup, "/groups", "/groups", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *GroupAPI) Create(ctx context.Context, g *models.Group) (*models.Group, error) {
	var out models.Group
	if err := a.c.send(ctx, http.MethodPost, errors.EntityGroup, "/groups", "/groups", g, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *GroupAPI) Update(ctx context.Context, g *models.Group) (*models.Group, error) {
	var out models.Group
	if err := a.c.send(ctx, http.MethodPut, errors.EntityGroup, "/groups/:id", "/groups/"+escape(g.ID), g, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *GroupAPI) Delete(ctx context.Context, id string) error {
	return a.c.delete(ctx, errors.EntityGroup, "/groups/:id", "/groups/"+escape(id), nil, nil)
}

// ================================================================================
// Workgroups
// ================================================================================

// WorkgroupAPI reaches /workgroups and /workgroups/users
type WorkgroupAPI struct {
	c *Client
}

// Workgroups returns the workgroup endpoints
func (c *Client) Workgroups() *WorkgroupAPI {
	return &WorkgroupAPI{c: c}
}

func (a *WorkgroupAPI) List(ctx context.Context) ([]models.Workgroup, error) {
	var out []models.Workgroup
	if err := a.c.get(ctx, errors.EntityWorkgroup, "/workgroups", "/workgroups", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *WorkgroupAPI) Create(ctx context.Context, w *models.Workgroup) (*models.Workgroup, error) {
	var out models.Workgroup
	if err := a.c.send(ctx, http.MethodPost, errors.EntityWorkgroup, "/workgroups", "/workgroups", w, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *WorkgroupAPI) Update(ctx context.Context, w *models.Workgroup) (*models.Workgroup, error) {
	var out models.Workgroup
	if err := a.c.send(ctx, http.MethodPut, errors.EntityWorkgroup, "/workgroups/:id", "/workgroups/"+escape(w.ID), w, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *WorkgroupAPI) Delete(ctx context.Context, id string) error {
	return a.c.delete(ctx, errors.EntityWorkgroup, "/workgroups/:id", "/workgroups/"+escape(id), nil, nil)
}

func (a *WorkgroupAPI) AddUser(ctx context.Context, workgroupID string, user models.WorkgroupUser) error {
	body := struct {
		WorkgroupID string `json:"workgroupId"`
		models.WorkgroupUser
	}{workgroupID, user}
	return a.c.send(ctx, http.MethodPost, errors.EntityWorkgroup, "/workgroups/users", "/workgroups/users", body, nil)
}

func (a *WorkgroupAPI) RemoveUser(ctx context.Context, workgroupID, userID string) error {
	q := url.Values{"workgroupId": {workgroupID}, "userId": {userID}}
	return a.c.delete(ctx, errors.EntityWorkgroup, "/workgroups/users", "/workgroups/users", q, nil)
}

// ================================================================================
// Organizations
// ================================================================================

// OrganizationAPI reaches /organizations
type OrganizationAPI struct {
	c *Client
}

// Organizations returns the organization endpoints
func (c *Client) Organizations() *OrganizationAPI {
	return &OrganizationAPI{c: c}
}

func (a *OrganizationAPI) List(ctx context.Context) ([]models.Organization, error) {
	var out []models.Organization
	if err := a.c.get(ctx, errors.EntityOrganization, "/organizations", "/organizations", &out); err != nil {
		return nil, err
	}
	return out, nil
}
