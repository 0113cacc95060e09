package service

import (
	"fmt"

	"github.com/artsapp/builder/internal/domain/models"
	"github.com/artsapp/builder/pkg/constants"
	"github.com/artsapp/builder/pkg/errors"
	"github.com/google/uuid"
)

// StatementMatrix edits the taxa × characters statement matrix of a revision
// content snapshot. Nothing is persisted until the snapshot is saved as a new revision.
type StatementMatrix struct {
	content models.RevisionContent
	index   *models.TaxonIndex
}

// NewStatementMatrix creates a matrix over a copy of content
func NewStatementMatrix(content models.RevisionContent) *StatementMatrix {
	c := content.Clone()
	return &StatementMatrix{content: c, index: models.NewTaxonIndex(c.Taxa)}
}

// Statements returns a copy of the current statements
func (m *StatementMatrix) Statements() []models.Statement {
	out := make([]models.Statement, len(m.content.Statements))
	for i, s := range m.content.Statements {
		out[i] = s.Clone()
	}
	return out
}

// Statement returns the statement for a taxon and character
func (m *StatementMatrix) Statement(taxonID, characterID string) (models.Statement, bool) {
	if i := m.find(taxonID, characterID); i >= 0 {
		return m.content.Statements[i].Clone(), true
	}
	return models.Statement{}, false
}

// CandidateCharacters lists the characters that can be enabled for taxonID:
// every character except those already stated on an ancestor or descendant.
func (m *StatementMatrix) CandidateCharacters(taxonID string) ([]models.Character, error) {
	if !m.index.Contains(taxonID) {
		return nil, errors.ErrNotFound(errors.EntityTaxon, taxonID)
	}
	related := make(map[string]bool)
	for _, id := range m.index.Related(taxonID) {
		related[id] = true
	}
	excluded := make(map[string]bool)
	for _, s := range m.content.Statements {
		if related[s.TaxonID] {
			excluded[s.CharacterID] = true
		}
	}

	out := make([]models.Character, 0, len(m.content.Characters))
	for _, c := range m.content.Characters {
		if !excluded[c.ID] {
			out = append(out, c.Clone())
		}
	}
	return out, nil
}

// Toggle enables or disables a character for a taxon. Enabling seeds the default
// value (the first state, or the full range); disabling removes the statement.
func (m *StatementMatrix) Toggle(taxonID, characterID string, enabled bool) error {
	char, err := m.lookup(taxonID, characterID)
	if err != nil {
		return err
	}
	i := m.find(taxonID, characterID)
	if !enabled {
		if i >= 0 {
			m.content.Statements = append(m.content.Statements[:i], m.content.Statements[i+1:]...)
		}
		return nil
	}
	if i >= 0 {
		return nil
	}
	m.content.Statements = append(m.content.Statements, models.Statement{
		ID:          uuid.NewString(),
		TaxonID:     taxonID,
		CharacterID: characterID,
		Value:       defaultValue(char),
	})
	return nil
}

func defaultValue(c models.Character) *models.StatementValue {
	switch c.Type {
	case constants.CharacterTypeNumerical:
		if r, ok := c.Range(); ok {
			return models.RangeValue(r.Min, r.Max)
		}
	case constants.CharacterTypeExclusive:
		if len(c.States.List) > 0 {
			return models.SingleState(c.States.List[0].ID)
		}
	case constants.CharacterTypeMultistate:
		if len(c.States.List) > 0 {
			return models.MultiState(c.States.List[0].ID)
		}
	}
	return nil
}

// SetValue replaces the value of an enabled statement. A nil value clears it.
func (m *StatementMatrix) SetValue(taxonID, characterID string, value *models.StatementValue) error {
	char, err := m.lookup(taxonID, characterID)
	if err != nil {
		return err
	}
	i := m.find(taxonID, characterID)
	if i < 0 {
		return errors.ErrNotFound(errors.EntityRevision, fmt.Sprintf("statement %s/%s", taxonID, characterID))
	}
	if value != nil {
		value = value.Clone()
		if err := checkValue(char, value); err != nil {
			return err
		}
	}
	m.content.Statements[i].Value = value
	return nil
}

func checkValue(c models.Character, v *models.StatementValue) error {
	invalid := func(msg string) error {
		return errors.ErrValidation(map[string]string{"value": msg})
	}

	if c.Type == constants.CharacterTypeNumerical {
		r, ok := c.Range()
		if !ok || v.Range == nil || len(v.StateIDs) > 0 {
			return invalid("a numerical character takes a [min, max] value")
		}
		if v.Range.Min > v.Range.Max {
			return invalid("min must not be greater than max")
		}
		if !r.Contains(v.Range.Min, v.Range.Max) {
			return invalid(fmt.Sprintf("must lie within [%g, %g]", r.Min, r.Max))
		}
		return nil
	}

	if v.Range != nil {
		return invalid("a categorical character takes state ids")
	}
	for _, id := range v.StateIDs {
		if !c.HasState(id) {
			return invalid(fmt.Sprintf("state %s does not belong to character %s", id, c.ID))
		}
	}
	if c.Type == constants.CharacterTypeExclusive {
		if len(v.StateIDs) != 1 {
			return invalid("an exclusive character takes exactly one state")
		}
		v.Multi = false
	} else {
		v.Multi = true
	}
	return nil
}

// MoveCharacter moves the character at index from to index to
func (m *StatementMatrix) MoveCharacter(from, to int) error {
	n := len(m.content.Characters)
	if from < 0 || from >= n || to < 0 || to >= n {
		return errors.ErrInvalidRequest(fmt.Sprintf("character position out of range: %d -> %d", from, to))
	}
	if from == to {
		return nil
	}
	c := m.content.Characters[from]
	chars := append(m.content.Characters[:from:from], m.content.Characters[from+1:]...)
	chars = append(chars[:to], append([]models.Character{c}, chars[to:]...)...)
	m.content.Characters = chars
	return nil
}

// Validate is the save guard: every statement must carry a value. An empty
// multistate selection is a value; only an undefined one is rejected.
func (m *StatementMatrix) Validate() error {
	for _, s := range m.content.Statements {
		if s.Value == nil {
			return errors.ErrStatementValueMissing()
		}
	}
	return nil
}

// Snapshot returns a copy of the edited content
func (m *StatementMatrix) Snapshot() models.RevisionContent {
	return m.content.Clone()
}

func (m *StatementMatrix) lookup(taxonID, characterID string) (models.Character, error) {
	if !m.index.Contains(taxonID) {
		return models.Character{}, errors.ErrNotFound(errors.EntityTaxon, taxonID)
	}
	c, ok := m.content.FindCharacter(characterID)
	if !ok {
		return models.Character{}, errors.ErrNotFound(errors.EntityCharacter, characterID)
	}
	return *c, nil
}

func (m *StatementMatrix) find(taxonID, characterID string) int {
	for i, s := range m.content.Statements {
		if s.TaxonID == taxonID && s.CharacterID == characterID {
			return i
		}
	}
	return -1
}
