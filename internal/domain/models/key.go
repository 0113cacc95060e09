package models

import (
	"time"

	"github.com/artsapp/builder/pkg/constants"
)

// Key is an identification key as returned by the key API.
type Key struct {
	// ID is the key identifier
	ID string `json:"id"`
	// Title and Description are kept per content language
	Title       Translations `json:"title"`
	Description Translations `json:"description,omitempty"`
	// Languages lists the content languages in display order
	Languages []string            `json:"languages"`
	Status    constants.KeyStatus `json:"status,omitempty"`
	Version   string              `json:"version,omitempty"`
	// WorkgroupID is the owning workgroup
	WorkgroupID  string   `json:"workgroupId,omitempty"`
	Creators     []string `json:"creators,omitempty"`
	Contributors []string `json:"contributors,omitempty"`
	Publishers   []string `json:"publishers,omitempty"`
	// GroupID is the key group the key belongs to
	GroupID      string     `json:"groupId,omitempty"`
	Collections  []string   `json:"collections,omitempty"`
	Media        []string   `json:"media,omitempty"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
	LastModified *time.Time `json:"lastModified,omitempty"`
}

// IsHidden reports whether the key has been soft-deleted
func (k *Key) IsHidden() bool {
	return k.Status == constants.KeyStatusHidden
}

// KeyFilter narrows a key listing
type KeyFilter struct {
	WorkgroupID   string
	Status        constants.KeyStatus
	IncludeHidden bool
}

// Match reports whether k passes the filter
func (f KeyFilter) Match(k *Key) bool {
	if !f.IncludeHidden && k.IsHidden() && f.Status != constants.KeyStatusHidden {
		return false
	}
	if f.WorkgroupID != "" && k.WorkgroupID != f.WorkgroupID {
		return false
	}
	if f.Status != "" && k.Status != f.Status {
		return false
	}
	return true
}

// LanguageList turns a language selection into the ordered list stored on a key.
// Unknown languages are dropped.
func LanguageList(selected map[string]bool) []string {
	out := make([]string, 0, len(selected))
	for _, lang := range constants.SupportedLanguages {
		if selected[lang] {
			out = append(out, lang)
		}
	}
	return out
}

// KeyEditor is a user with an editing role on a key
type KeyEditor struct {
	KeyID  string `json:"keyId,omitempty"`
	UserID string `json:"userId"`
	Name   string `json:"name,omitempty"`
	Role   string `json:"role,omitempty"`
}
