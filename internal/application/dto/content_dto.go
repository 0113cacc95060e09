package dto

import (
	"github.com/artsapp/builder/internal/domain/models"
	"github.com/artsapp/builder/internal/domain/service"
)

// TaxonRequest creates or updates a taxon of a revision
type TaxonRequest struct {
	Taxon models.Taxon `json:"taxon"`
}

// CharacterRequest creates or updates a character of a revision
type CharacterRequest struct {
	Character models.Character `json:"character"`
}

// StatesRequest replaces a character's states or numeric range
type StatesRequest struct {
	States models.CharacterStates `json:"states"`
}

// StatesResponse holds the revision after the state change and the outcome of
// the premise cleanup it triggered
type StatesResponse struct {
	Revision      *models.Revision         `json:"revision"`
	RemovedStates []string                 `json:"removedStates,omitempty"`
	Cleanup       service.BestEffortResult `json:"cleanup"`
}

// MediaMetadataRequest updates the metadata of attached media
type MediaMetadataRequest struct {
	Title    models.Translations `json:"title"`
	Creators []string            `json:"creators"`
	License  string              `json:"license"`
}
