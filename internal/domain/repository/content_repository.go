package repository

import (
	"context"

	"github.com/artsapp/builder/internal/domain/models"
)

// RevisionRef points at the revision a content change is applied to. Content
// calls answer with the revision the change produced.
type RevisionRef struct {
	KeyID      string `json:"keyId"`
	RevisionID string `json:"revisionId"`
}

// TaxonRepository defines the interface for taxa of a revision.
type TaxonRepository interface {
	Create(ctx context.Context, ref RevisionRef, taxon models.Taxon) (*models.Revision, error)
	Update(ctx context.Context, ref RevisionRef, taxon models.Taxon) (*models.Revision, error)
	Delete(ctx context.Context, ref RevisionRef, taxonID string) (*models.Revision, error)
}

// CharacterRepository defines the interface for characters, their states and
// their logical premises.
type CharacterRepository interface {
	Create(ctx context.Context, ref RevisionRef, character models.Character) (*models.Revision, error)
	Update(ctx context.Context, ref RevisionRef, character models.Character) (*models.Revision, error)
	Delete(ctx context.Context, ref RevisionRef, characterID string) (*models.Revision, error)

	// UpdateStates replaces the state list or numeric range of a character.
	UpdateStates(ctx context.Context, ref RevisionRef, characterID string, states models.CharacterStates) (*models.Revision, error)

	// UpdatePremise replaces the logical premise of a character.
	UpdatePremise(ctx context.Context, ref RevisionRef, characterID string, premise models.LogicalPremise) (*models.Revision, error)

	// CleanupPremises strips premise conditions that reference removed states of characterID.
	CleanupPremises(ctx context.Context, ref RevisionRef, characterID string, removedStates []string) (*models.Revision, error)
}
