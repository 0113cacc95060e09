package dto

import (
	"github.com/artsapp/builder/internal/domain/models"
	"github.com/artsapp/builder/internal/domain/service"
	"github.com/artsapp/builder/pkg/constants"
)

// ListKeysRequest filters the key listing
type ListKeysRequest struct {
	WorkgroupID   string              `form:"workgroupId" json:"workgroupId"`
	Status        constants.KeyStatus `form:"status" json:"status" validate:"omitempty,oneof=PRIVATE BETA PUBLISHED HIDDEN"`
	IncludeHidden bool                `form:"includeHidden" json:"includeHidden"`
}

// CreateKeyRequest 创建密钥请求 DTO. Languages is the selection of content
// languages; every selected language needs a title.
type CreateKeyRequest struct {
	Title       models.Translations `json:"title"`
	Description models.Translations `json:"description"`
	Languages   map[string]bool     `json:"languages"`
	WorkgroupID string              `json:"workgroupId"`
	GroupID     string              `json:"groupId"`
	Status      constants.KeyStatus `json:"status" validate:"omitempty,oneof=PRIVATE BETA PUBLISHED"`
}

// UpdateKeyRequest carries the edited key info. Nil fields are left as they are.
type UpdateKeyRequest struct {
	Title        models.Translations  `json:"title,omitempty"`
	Description  models.Translations  `json:"description,omitempty"`
	Languages    map[string]bool      `json:"languages,omitempty"`
	Status       *constants.KeyStatus `json:"status,omitempty" validate:"omitempty,oneof=PRIVATE BETA PUBLISHED HIDDEN"`
	WorkgroupID  *string              `json:"workgroupId,omitempty"`
	GroupID      *string              `json:"groupId,omitempty"`
	Creators     []string             `json:"creators,omitempty"`
	Contributors []string             `json:"contributors,omitempty"`
	Publishers   []string             `json:"publishers,omitempty"`
	// Hide soft-deletes the key
	Hide bool `json:"hide,omitempty"`
}

// UpdateKeyResponse reports whether the key API was called
type UpdateKeyResponse struct {
	Key     *models.Key `json:"key"`
	Changed bool        `json:"changed"`
	Fields  []string    `json:"fields,omitempty"`
}

// CreateKeyResponse holds the new key and its initial revision
type CreateKeyResponse struct {
	Key      *models.Key      `json:"key"`
	Revision *models.Revision `json:"revision"`
}

// KeyOverviewResponse is everything the key page shows
type KeyOverviewResponse struct {
	Key          *models.Key                `json:"key"`
	Revisions    []models.Revision          `json:"revisions"`
	Collections  []models.Collection        `json:"collections"`
	Organization *models.Organization       `json:"organization,omitempty"`
	Lookups      []service.BestEffortResult `json:"lookups,omitempty"`
}

// EditorRequest adds an editor to a key
type EditorRequest struct {
	UserID string `json:"userId" validate:"required"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}
