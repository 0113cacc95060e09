package dto

import "github.com/artsapp/builder/internal/domain/models"

// CollectionRequest creates or updates a collection
type CollectionRequest struct {
	Name        models.Translations `json:"name"`
	Description models.Translations `json:"description"`
	WorkgroupID string              `json:"workgroupId"`
}

// GroupRequest creates or updates a key group
type GroupRequest struct {
	Name        models.Translations `json:"name"`
	Description models.Translations `json:"description"`
	ParentID    string              `json:"parentId"`
}

// WorkgroupRequest creates or updates a workgroup
type WorkgroupRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description"`
}

// WorkgroupUserRequest adds a user to a workgroup
type WorkgroupUserRequest struct {
	UserID string `json:"userId" validate:"required"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// CollectionKeyRequest adds a key to or removes it from a collection
type CollectionKeyRequest struct {
	KeyID string `json:"keyId" validate:"required"`
}
