package models

import (
	"time"

	"github.com/artsapp/builder/pkg/constants"
)

// RevisionContent is the authored content of a key at one point in time
type RevisionContent struct {
	Taxa       []Taxon     `json:"taxa"`
	Characters []Character `json:"characters"`
	Statements []Statement `json:"statements"`
}

// EmptyContent returns content with empty, non-nil collections
func EmptyContent() RevisionContent {
	return RevisionContent{
		Taxa:       []Taxon{},
		Characters: []Character{},
		Statements: []Statement{},
	}
}

// IsEmpty reports whether the content holds no taxa, characters or statements
func (c RevisionContent) IsEmpty() bool {
	return len(c.Taxa) == 0 && len(c.Characters) == 0 && len(c.Statements) == 0
}

// Clone returns a deep copy of the content
func (c RevisionContent) Clone() RevisionContent {
	out := RevisionContent{
		Taxa:       make([]Taxon, len(c.Taxa)),
		Characters: make([]Character, len(c.Characters)),
		Statements: make([]Statement, len(c.Statements)),
	}
	for i := range c.Taxa {
		out.Taxa[i] = c.Taxa[i].Clone()
	}
	for i := range c.Characters {
		out.Characters[i] = c.Characters[i].Clone()
	}
	for i := range c.Statements {
		out.Statements[i] = c.Statements[i].Clone()
	}
	return out
}

// FindCharacter returns the character with id
func (c RevisionContent) FindCharacter(id string) (*Character, bool) {
	for i := range c.Characters {
		if c.Characters[i].ID == id {
			return &c.Characters[i], true
		}
	}
	return nil, false
}

// Revision is an immutable snapshot of a key's content. Every save creates a new one.
type Revision struct {
	ID        string                   `json:"id"`
	KeyID     string                   `json:"keyId"`
	Content   RevisionContent          `json:"content"`
	Mode      constants.RevisionMode   `json:"mode,omitempty"`
	Status    constants.RevisionStatus `json:"status,omitempty"`
	Note      string                   `json:"note,omitempty"`
	CreatedBy string                   `json:"createdBy,omitempty"`
	CreatedAt *time.Time               `json:"createdAt,omitempty"`
}

// EffectiveStatus returns the status, treating an absent status as draft
func (r *Revision) EffectiveStatus() constants.RevisionStatus {
	if r.Status == "" {
		return constants.RevisionStatusDraft
	}
	return r.Status
}

// IsAccepted reports whether the revision is canonical published content
func (r *Revision) IsAccepted() bool {
	return r.Status == constants.RevisionStatusAccepted
}

// AcceptedOnly keeps the accepted revisions, preserving order
func AcceptedOnly(revisions []Revision) []Revision {
	out := make([]Revision, 0, len(revisions))
	for _, r := range revisions {
		if r.IsAccepted() {
			out = append(out, r)
		}
	}
	return out
}
