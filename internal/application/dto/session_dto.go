package dto

import (
	"github.com/artsapp/builder/internal/domain/models"
	"github.com/artsapp/builder/internal/domain/service"
)

// SessionResponse is the language and user of the session
type SessionResponse struct {
	Language  string       `json:"language"`
	Languages []string     `json:"languages"`
	SignedIn  bool         `json:"signedIn"`
	User      *models.User `json:"user,omitempty"`
}

// LanguageRequest selects the session language
type LanguageRequest struct {
	Language string `json:"language" validate:"required,language"`
}

// SignInResponse carries the login redirect
type SignInResponse struct {
	URL string `json:"url"`
}

// SignOutResponse carries the identity provider's logout URL when it could be fetched
type SignOutResponse struct {
	LogoutURL string                   `json:"logoutUrl,omitempty"`
	Lookup    service.BestEffortResult `json:"lookup"`
}

// PermittedRequest asks the permission gate about the session user
type PermittedRequest struct {
	Permissions []string `form:"permission" json:"permissions"`
	WorkgroupID string   `form:"workgroupId" json:"workgroupId"`
}

// PermittedResponse is the answer of the permission gate
type PermittedResponse struct {
	Permitted bool `json:"permitted"`
}
