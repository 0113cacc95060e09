package repository

import (
	"context"
	"io"

	"github.com/artsapp/builder/internal/domain/models"
)

// AuthRepository reaches the key API's session endpoints.
type AuthRepository interface {
	// CurrentUser returns the user of the forwarded upstream session.
	CurrentUser(ctx context.Context) (*models.User, error)

	// LogoutURL returns the identity provider's logout URL.
	LogoutURL(ctx context.Context) (string, error)
}

// Upload is a file sent to the media endpoint.
type Upload struct {
	EntityID string
	FileName string
	Size     int64
	Body     io.Reader
}

// MediaRepository defines the interface for media attached to entities.
type MediaRepository interface {
	Upload(ctx context.Context, entity models.MediaEntity, ref RevisionRef, file Upload) (*models.Media, error)
	UpdateMetadata(ctx context.Context, entity models.MediaEntity, media *models.Media) (*models.Media, error)
	Delete(ctx context.Context, entity models.MediaEntity, entityID, mediaID string) error
}

// SessionStore keeps per-session application state.
type SessionStore interface {
	// Load returns the state of a session; ok is false when the session is unknown or expired.
	Load(ctx context.Context, sessionID string) (state SessionState, ok bool, err error)

	// Save stores the state of a session and refreshes its lifetime.
	Save(ctx context.Context, sessionID string, state SessionState) error

	// Delete forgets a session.
	Delete(ctx context.Context, sessionID string) error
}

// SessionState is the persisted part of a session: the selected language and
// the user last returned by /auth.
type SessionState struct {
	Language string       `json:"language"`
	User     *models.User `json:"user,omitempty"`
}

// AppState converts the stored state into an application state snapshot
func (s SessionState) AppState() models.AppState {
	return models.NewAppState(s.Language).WithUser(s.User)
}

// FromAppState captures an application state snapshot for storage
func FromAppState(state models.AppState) SessionState {
	return SessionState{Language: state.Language(), User: state.User()}
}
