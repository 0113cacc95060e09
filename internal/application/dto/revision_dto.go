package dto

import (
	"github.com/artsapp/builder/internal/domain/models"
	"github.com/artsapp/builder/internal/domain/service"
	"github.com/artsapp/builder/pkg/constants"
)

// Matrix operations of a build request
const (
	MatrixToggle = "toggle"
	MatrixSet    = "set"
	MatrixMove   = "move"
)

// MatrixOperation is one edit of the statement matrix
type MatrixOperation struct {
	Op          string                 `json:"op" validate:"required,oneof=toggle set move"`
	TaxonID     string                 `json:"taxonId" validate:"required_unless=Op move"`
	CharacterID string                 `json:"characterId" validate:"required_unless=Op move"`
	Enabled     bool                   `json:"enabled"`
	Value       *models.StatementValue `json:"value"`
	From        int                    `json:"from"`
	To          int                    `json:"to"`
}

// BuildKeyRequest saves the build-key editor as a new revision of the key.
// Content replaces the base revision's content before Operations are applied.
type BuildKeyRequest struct {
	BaseRevisionID string                  `json:"baseRevisionId" validate:"required"`
	Content        *models.RevisionContent `json:"content"`
	Operations     []MatrixOperation       `json:"operations" validate:"dive"`
	Mode           constants.RevisionMode  `json:"mode" validate:"omitempty,oneof=1 2"`
	Note           string                  `json:"note"`
}

// BuildKeyResponse holds the created revision and what changed against the base
type BuildKeyResponse struct {
	Revision *models.Revision    `json:"revision"`
	Diff     service.ContentDiff `json:"diff"`
}

// ListRevisionsRequest filters the revision listing
type ListRevisionsRequest struct {
	AcceptedOnly bool `form:"accepted" json:"accepted"`
}

// RevisionStatusRequest moves a revision through review
type RevisionStatusRequest struct {
	Status constants.RevisionStatus `json:"status" validate:"required,oneof=DRAFT REVIEW ACCEPTED"`
}

// RevisionModeRequest selects single or double mode
type RevisionModeRequest struct {
	Mode constants.RevisionMode `json:"mode" validate:"required,oneof=1 2"`
}

// RevisionNoteRequest replaces the note of a revision
type RevisionNoteRequest struct {
	Note string `json:"note" validate:"max=2000"`
}

// CandidatesResponse lists the characters that can get a statement for a taxon
type CandidatesResponse struct {
	TaxonID    string             `json:"taxonId"`
	Characters []models.Character `json:"characters"`
}
