package repository

import (
	"context"

	"github.com/artsapp/builder/internal/domain/models"
	"github.com/artsapp/builder/pkg/constants"
)

// KeyRepository defines the interface for key metadata in the key API.
type KeyRepository interface {
	// List retrieves every key visible to the caller.
	List(ctx context.Context) ([]models.Key, error)

	// Get retrieves a key by id.
	Get(ctx context.Context, id string) (*models.Key, error)

	// Create creates a key and returns it with its new id.
	Create(ctx context.Context, key *models.Key) (*models.Key, error)

	// Update replaces the metadata of an existing key.
	Update(ctx context.Context, key *models.Key) (*models.Key, error)

	// ListEditors retrieves the users with an editing role on a key.
	ListEditors(ctx context.Context, keyID string) ([]models.KeyEditor, error)

	// AddEditor grants a user an editing role on a key.
	AddEditor(ctx context.Context, editor models.KeyEditor) error

	// RemoveEditor revokes a user's editing role on a key.
	RemoveEditor(ctx context.Context, keyID, userID string) error
}

// NewRevision is the payload of a revision create call.
type NewRevision struct {
	KeyID   string                 `json:"keyId"`
	Content models.RevisionContent `json:"content"`
	Mode    constants.RevisionMode `json:"mode,omitempty"`
	Note    string                 `json:"note,omitempty"`
}

// RevisionRepository defines the interface for revisions. Revisions are never
// edited in place except for their workflow fields.
type RevisionRepository interface {
	// ListByKey retrieves the revisions of a key.
	ListByKey(ctx context.Context, keyID string) ([]models.Revision, error)

	// Get retrieves a revision by id.
	Get(ctx context.Context, id string) (*models.Revision, error)

	// Create stores a new revision.
	Create(ctx context.Context, rev NewRevision) (*models.Revision, error)

	// SetStatus moves a revision through the review workflow.
	SetStatus(ctx context.Context, revisionID string, status constants.RevisionStatus) error

	// SetMode selects single or double decision mode.
	SetMode(ctx context.Context, revisionID string, mode constants.RevisionMode) error

	// SetNote replaces the revision note.
	SetNote(ctx context.Context, revisionID, note string) error
}

// Repositories bundles the key API repositories the application services use.
type Repositories struct {
	Keys          KeyRepository
	Revisions     RevisionRepository
	Taxa          TaxonRepository
	Characters    CharacterRepository
	Collections   CollectionRepository
	Groups        GroupRepository
	Workgroups    WorkgroupRepository
	Organizations OrganizationRepository
	Media         MediaRepository
	Auth          AuthRepository
}
