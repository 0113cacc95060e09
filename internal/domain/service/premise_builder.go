package service

import (
	"fmt"

	"github.com/artsapp/builder/internal/domain/models"
	"github.com/artsapp/builder/pkg/constants"
	"github.com/artsapp/builder/pkg/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// ================================================================================
// Leaf Sets
// ================================================================================

// LeafSet is one row of a premise group: the consecutive conditions of the group
// that reference the same character. Group is the index of the owning group.
type LeafSet struct {
	Group       int                       `json:"group"`
	CharacterID string                    `json:"characterId"`
	Leaves      []models.PremiseCondition `json:"leaves"`
}

// IsEmpty reports whether the row has no conditions
func (s LeafSet) IsEmpty() bool {
	return len(s.Leaves) == 0
}

// Not reports whether the row is negated, i.e. every state condition is !=
func (s LeafSet) Not() bool {
	if len(s.Leaves) == 0 {
		return false
	}
	for _, l := range s.Leaves {
		if l.Condition != constants.ComparatorNotEqual {
			return false
		}
	}
	return true
}

func (s LeafSet) clone() LeafSet {
	s.Leaves = append([]models.PremiseCondition(nil), s.Leaves...)
	return s
}

type premiseGroup struct {
	operator constants.PremiseOperator
	rows     []LeafSet
}

func (g premiseGroup) hasLeaves() bool {
	for _, r := range g.rows {
		if !r.IsEmpty() {
			return true
		}
	}
	return false
}

// splitLeafSets cuts a group's conditions into runs per referenced character
func splitLeafSets(group int, conditions []models.PremiseCondition) []LeafSet {
	var rows []LeafSet
	for _, c := range conditions {
		n := len(rows)
		if n > 0 && rows[n-1].CharacterID == c.CharacterID {
			rows[n-1].Leaves = append(rows[n-1].Leaves, c)
			continue
		}
		rows = append(rows, LeafSet{Group: group, CharacterID: c.CharacterID, Leaves: []models.PremiseCondition{c}})
	}
	return rows
}

// ================================================================================
// Premise Builder
// ================================================================================

// PremiseBuilder edits the logical premise of one character against the other
// characters of the same revision.
type PremiseBuilder struct {
	character  models.Character
	characters map[string]models.Character
	original   models.LogicalPremise
	operator   constants.PremiseOperator
	groups     []premiseGroup
}

// NewPremiseBuilder loads the premise of character. characters are the
// characters of the revision the premise may reference.
func NewPremiseBuilder(character models.Character, characters []models.Character) *PremiseBuilder {
	b := &PremiseBuilder{
		character:  character,
		characters: make(map[string]models.Character, len(characters)),
		original:   character.LogicalPremise.Clone(),
	}
	for _, c := range characters {
		b.characters[c.ID] = c
	}
	b.load(b.original)
	return b
}

func (b *PremiseBuilder) load(p models.LogicalPremise) {
	b.operator = p.Operator
	if !b.operator.Valid() {
		b.operator = constants.OperatorAnd
	}
	b.groups = make([]premiseGroup, 0, len(p.Groups))
	for i, g := range p.Groups {
		op := g.Operator
		if !op.Valid() {
			op = b.operator.Complement()
		}
		b.groups = append(b.groups, premiseGroup{operator: op, rows: splitLeafSets(i, g.Conditions)})
	}
}

// CharacterID returns the id of the character being edited
func (b *PremiseBuilder) CharacterID() string {
	return b.character.ID
}

// Operator returns the outer operator
func (b *PremiseBuilder) Operator() constants.PremiseOperator {
	return b.operator
}

// SetOperator sets the outer operator; every group takes the complement
func (b *PremiseBuilder) SetOperator(op constants.PremiseOperator) error {
	if !op.Valid() {
		return errors.ErrInvalidRequest(fmt.Sprintf("unknown premise operator %q", op))
	}
	b.operator = op
	for i := range b.groups {
		b.groups[i].operator = op.Complement()
	}
	return nil
}

// ToggleOperator switches the outer operator between AND and OR
func (b *PremiseBuilder) ToggleOperator() {
	_ = b.SetOperator(b.operator.Complement())
}

// GroupCount returns the number of groups
func (b *PremiseBuilder) GroupCount() int {
	return len(b.groups)
}

// GroupOperator returns the inner operator of group index
func (b *PremiseBuilder) GroupOperator(index int) constants.PremiseOperator {
	if index < 0 || index >= len(b.groups) {
		return b.operator.Complement()
	}
	return b.groups[index].operator
}

// Rows returns a copy of the rows of group index
func (b *PremiseBuilder) Rows(index int) []LeafSet {
	if index < 0 || index >= len(b.groups) {
		return nil
	}
	rows := make([]LeafSet, len(b.groups[index].rows))
	for i, r := range b.groups[index].rows {
		rows[i] = r.clone()
	}
	return rows
}

// Clear removes every group, keeping the operator
func (b *PremiseBuilder) Clear() {
	b.groups = nil
}

// RemoveGroup drops group index
func (b *PremiseBuilder) RemoveGroup(index int) error {
	if index < 0 || index >= len(b.groups) {
		return errors.ErrNotFound(errors.EntityPremise, fmt.Sprintf("group %d", index))
	}
	b.groups = append(b.groups[:index], b.groups[index+1:]...)
	b.reindex()
	return nil
}

// OpenGroup starts editing group index; a negative index starts a new group
func (b *PremiseBuilder) OpenGroup(index int) (*GroupEditor, error) {
	if index >= len(b.groups) {
		return nil, errors.ErrNotFound(errors.EntityPremise, fmt.Sprintf("group %d", index))
	}
	ed := &GroupEditor{builder: b, index: index}
	if index < 0 {
		ed.index = -1
		return ed, nil
	}
	ed.rows = b.Rows(index)
	return ed, nil
}

// CloseGroup commits the editor. A group left without any non-empty row is
// removed (or, for a new group, never added). It reports whether the group was kept.
func (b *PremiseBuilder) CloseGroup(ed *GroupEditor) bool {
	g := premiseGroup{operator: b.operator.Complement(), rows: ed.Rows()}
	if ed.index >= 0 && ed.index < len(b.groups) {
		g.operator = b.groups[ed.index].operator
		if !g.hasLeaves() {
			b.groups = append(b.groups[:ed.index], b.groups[ed.index+1:]...)
			b.reindex()
			return false
		}
		b.groups[ed.index] = g
		b.reindex()
		return true
	}
	if !g.hasLeaves() {
		return false
	}
	b.groups = append(b.groups, g)
	b.reindex()
	return true
}

// Prune removes every group without a non-empty row and returns how many were removed
func (b *PremiseBuilder) Prune() int {
	kept := b.groups[:0]
	removed := 0
	for _, g := range b.groups {
		if g.hasLeaves() {
			kept = append(kept, g)
			continue
		}
		removed++
	}
	b.groups = kept
	b.reindex()
	return removed
}

func (b *PremiseBuilder) reindex() {
	for gi := range b.groups {
		for ri := range b.groups[gi].rows {
			b.groups[gi].rows[ri].Group = gi
		}
	}
}

// Serialize returns the premise in its wire structure. A loaded premise that
// carried only an operator keeps it while no group is added.
func (b *PremiseBuilder) Serialize() models.LogicalPremise {
	if len(b.groups) == 0 {
		if b.original.IsEmpty() {
			return models.LogicalPremise{Operator: b.original.Operator}
		}
		return models.LogicalPremise{}
	}
	p := models.LogicalPremise{Operator: b.operator, Groups: make([]models.PremiseGroup, 0, len(b.groups))}
	for _, g := range b.groups {
		pg := models.PremiseGroup{Operator: g.operator, Conditions: []models.PremiseCondition{}}
		for _, r := range g.rows {
			pg.Conditions = append(pg.Conditions, r.Leaves...)
		}
		p.Groups = append(p.Groups, pg)
	}
	return p
}

// Changed reports whether the premise differs from the one that was loaded
func (b *PremiseBuilder) Changed() bool {
	return !PremisesEqual(b.original, b.Serialize())
}

// PremisesEqual compares two premises structurally. Premises without groups are
// equal regardless of their operator.
func PremisesEqual(a, b models.LogicalPremise) bool {
	if a.IsEmpty() && b.IsEmpty() {
		return true
	}
	return cmp.Equal(a, b, cmpopts.EquateEmpty())
}

func (b *PremiseBuilder) reference(characterID string) (models.Character, error) {
	if characterID == b.character.ID {
		return models.Character{}, errors.ErrValidation(map[string]string{
			"characterId": "a premise cannot reference its own character",
		})
	}
	ref, ok := b.characters[characterID]
	if !ok {
		return models.Character{}, errors.ErrNotFound(errors.EntityCharacter, characterID)
	}
	return ref, nil
}

// ================================================================================
// Group Editor
// ================================================================================

// GroupEditor edits the rows of one premise group until it is closed
type GroupEditor struct {
	builder *PremiseBuilder
	index   int
	rows    []LeafSet
}

// Index returns the group index, -1 for a new group
func (e *GroupEditor) Index() int {
	return e.index
}

// Rows returns a copy of the rows
func (e *GroupEditor) Rows() []LeafSet {
	rows := make([]LeafSet, len(e.rows))
	for i, r := range e.rows {
		rows[i] = r.clone()
	}
	return rows
}

// SelectStates sets the row for a categorical character: one leaf per state,
// == or != when not is set, value true. An empty selection leaves an empty row.
func (e *GroupEditor) SelectStates(characterID string, stateIDs []string, not bool) error {
	ref, err := e.builder.reference(characterID)
	if err != nil {
		return err
	}
	if !ref.Type.Categorical() {
		return errors.ErrValidation(map[string]string{
			"characterId": fmt.Sprintf("character %s is not categorical", characterID),
		})
	}

	cond := constants.ComparatorEqual
	if not {
		cond = constants.ComparatorNotEqual
	}
	seen := make(map[string]bool, len(stateIDs))
	leaves := make([]models.PremiseCondition, 0, len(stateIDs))
	for _, id := range stateIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if !ref.HasState(id) {
			return errors.ErrValidation(map[string]string{
				"stateIds": fmt.Sprintf("state %s does not belong to character %s", id, characterID),
			})
		}
		leaves = append(leaves, models.PremiseCondition{
			CharacterID: characterID,
			StateID:     id,
			Value:       models.BoolValue(true),
			Condition:   cond,
		})
	}
	e.setRow(characterID, leaves)
	return nil
}

// SelectRange sets the row for a numerical character to exactly two leaves,
// >= min and <= max.
func (e *GroupEditor) SelectRange(characterID string, min, max float64) error {
	ref, err := e.builder.reference(characterID)
	if err != nil {
		return err
	}
	r, ok := ref.Range()
	if !ok {
		return errors.ErrValidation(map[string]string{
			"characterId": fmt.Sprintf("character %s is not numerical", characterID),
		})
	}
	if min > max {
		return errors.ErrValidation(map[string]string{"min": "must not be greater than max"})
	}
	if !r.Contains(min, max) {
		return errors.ErrValidation(map[string]string{
			"range": fmt.Sprintf("must lie within [%g, %g]", r.Min, r.Max),
		})
	}
	e.setRow(characterID, []models.PremiseCondition{
		{CharacterID: characterID, StateID: r.ID, Value: models.NumberValue(min), Condition: constants.ComparatorGreaterOrEqual},
		{CharacterID: characterID, StateID: r.ID, Value: models.NumberValue(max), Condition: constants.ComparatorLessOrEqual},
	})
	return nil
}

// ToggleNot flips every == leaf of the row to != and back. State ids and values
// are left as they are.
func (e *GroupEditor) ToggleNot(row int) error {
	if row < 0 || row >= len(e.rows) {
		return errors.ErrNotFound(errors.EntityPremise, fmt.Sprintf("row %d", row))
	}
	leaves := e.rows[row].Leaves
	for i := range leaves {
		switch leaves[i].Condition {
		case constants.ComparatorEqual:
			leaves[i].Condition = constants.ComparatorNotEqual
		case constants.ComparatorNotEqual:
			leaves[i].Condition = constants.ComparatorEqual
		}
	}
	return nil
}

// RemoveRow drops a row
func (e *GroupEditor) RemoveRow(row int) error {
	if row < 0 || row >= len(e.rows) {
		return errors.ErrNotFound(errors.EntityPremise, fmt.Sprintf("row %d", row))
	}
	e.rows = append(e.rows[:row], e.rows[row+1:]...)
	return nil
}

// setRow replaces the row of characterID or appends a new one
func (e *GroupEditor) setRow(characterID string, leaves []models.PremiseCondition) {
	for i := range e.rows {
		if e.rows[i].CharacterID == characterID {
			e.rows[i].Leaves = leaves
			return
		}
	}
	e.rows = append(e.rows, LeafSet{Group: e.index, CharacterID: characterID, Leaves: leaves})
}

// ================================================================================
// Premise Cleanup
// ================================================================================

// RemovedStates returns the ids of before's states that are missing from after
func RemovedStates(before, after []models.State) []string {
	keep := make(map[string]bool, len(after))
	for _, s := range after {
		keep[s.ID] = true
	}
	var removed []string
	for _, s := range before {
		if !keep[s.ID] {
			removed = append(removed, s.ID)
		}
	}
	return removed
}
