package dto

import (
	"github.com/artsapp/builder/internal/domain/models"
	"github.com/artsapp/builder/internal/domain/service"
	"github.com/artsapp/builder/pkg/constants"
)

// Premise editor operations
const (
	PremiseSetOperator    = "setOperator"
	PremiseToggleOperator = "toggleOperator"
	PremiseClear          = "clear"
	PremiseRemoveGroup    = "removeGroup"
	PremiseEditGroup      = "editGroup"
)

// Group editor operations
const (
	GroupSelectStates = "selectStates"
	GroupSelectRange  = "selectRange"
	GroupToggleNot    = "toggleNot"
	GroupRemoveRow    = "removeRow"
)

// GroupEdit is one change inside an open premise group
type GroupEdit struct {
	Op          string   `json:"op" validate:"required,oneof=selectStates selectRange toggleNot removeRow"`
	CharacterID string   `json:"characterId"`
	StateIDs    []string `json:"stateIds"`
	Not         bool     `json:"not"`
	Min         float64  `json:"min"`
	Max         float64  `json:"max"`
	Row         int      `json:"row"`
}

// PremiseOperation is one change of the premise editor. Group -1 opens a new group.
type PremiseOperation struct {
	Op       string                    `json:"op" validate:"required,oneof=setOperator toggleOperator clear removeGroup editGroup"`
	Operator constants.PremiseOperator `json:"operator"`
	Group    int                       `json:"group"`
	Edits    []GroupEdit               `json:"edits" validate:"dive"`
}

// EditPremiseRequest applies operations to a character's premise and saves it
type EditPremiseRequest struct {
	Operations []PremiseOperation `json:"operations" validate:"dive"`
	// DryRun returns the edited premise without saving it
	DryRun bool `json:"dryRun"`
}

// PremiseGroupView is one group as the editor shows it
type PremiseGroupView struct {
	Index    int                       `json:"index"`
	Operator constants.PremiseOperator `json:"operator"`
	Rows     []service.LeafSet         `json:"rows"`
}

// PremiseResponse 逻辑前提响应 DTO
type PremiseResponse struct {
	CharacterID    string                    `json:"characterId"`
	Operator       constants.PremiseOperator `json:"operator"`
	Groups         []PremiseGroupView        `json:"groups"`
	LogicalPremise models.LogicalPremise     `json:"logicalPremise"`
	Changed        bool                      `json:"changed"`
	Saved          bool                      `json:"saved"`
	Revision       *models.Revision          `json:"revision,omitempty"`
}
