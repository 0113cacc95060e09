package keyapi

import (
	"context"

	"github.com/artsapp/builder/internal/domain/models"
	"github.com/artsapp/builder/internal/domain/repository"
	"github.com/artsapp/builder/pkg/errors"
)

var _ repository.AuthRepository = (*AuthAPI)(nil)

// AuthAPI reaches /auth
type AuthAPI struct {
	c *Client
}

// Auth returns the session endpoints
func (c *Client) Auth() *AuthAPI {
	return &AuthAPI{c: c}
}

// CurrentUser returns the user of the forwarded session
func (a *AuthAPI) CurrentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := a.c.get(ctx, errors.EntitySession, "/auth", "/auth", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// LogoutURL returns the identity provider's logout URL
func (a *AuthAPI) LogoutURL(ctx context.Context) (string, error) {
	var out struct {
		URL string `json:"url"`
	}
	if err := a.c.get(ctx, errors.EntitySession, "/auth/logout/url", "/auth/logout/url", &out); err != nil {
		return "", err
	}
	return out.URL, nil
}
