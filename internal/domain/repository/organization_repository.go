package repository

import (
	"context"

	"github.com/artsapp/builder/internal/domain/models"
)

// CollectionRepository defines the interface for key collections.
type CollectionRepository interface {
	List(ctx context.Context) ([]models.Collection, error)
	Create(ctx context.Context, c *models.Collection) (*models.Collection, error)
	Update(ctx context.Context, c *models.Collection) (*models.Collection, error)
	Delete(ctx context.Context, id string) error
	AddKey(ctx context.Context, collectionID, keyID string) error
	RemoveKey(ctx context.Context, collectionID, keyID string) error
}

// GroupRepository defines the interface for key groups.
type GroupRepository interface {
	List(ctx context.Context) ([]models.Group, error)
	Create(ctx context.Context, g *models.Group) (*models.Group, error)
	Update(ctx context.Context, g *models.Group) (*models.Group, error)
	Delete(ctx context.Context, id string) error
}

// WorkgroupRepository defines the interface for workgroups and their members.
type WorkgroupRepository interface {
	List(ctx context.Context) ([]models.Workgroup, error)
	Create(ctx context.Context, w *models.Workgroup) (*models.Workgroup, error)
	Update(ctx context.Context, w *models.Workgroup) (*models.Workgroup, error)
	Delete(ctx context.Context, id string) error
	AddUser(ctx context.Context, workgroupID string, user models.WorkgroupUser) error
	RemoveUser(ctx context.Context, workgroupID, userID string) error
}

// OrganizationRepository looks up organizations.
type OrganizationRepository interface {
	List(ctx context.Context) ([]models.Organization, error)
}
