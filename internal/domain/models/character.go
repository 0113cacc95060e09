package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/artsapp/builder/pkg/constants"
)

// State is a discrete value of a categorical character
type State struct {
	ID          string       `json:"id"`
	Title       Translations `json:"title"`
	Description Translations `json:"description,omitempty"`
	Media       []string     `json:"media,omitempty"`
}

// NumericRange is the value space of a numerical character
type NumericRange struct {
	ID       string  `json:"id,omitempty"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	StepSize float64 `json:"stepSize,omitempty"`
	Unit     string  `json:"unit,omitempty"`
}

// Contains reports whether [lo, hi] lies inside the range
func (r NumericRange) Contains(lo, hi float64) bool {
	return lo >= r.Min && hi <= r.Max && lo <= hi
}

// CharacterStates is either a list of states or a numeric range
type CharacterStates struct {
	List  []State
	Range *NumericRange
}

func (s CharacterStates) MarshalJSON() ([]byte, error) {
	if s.Range != nil {
		return json.Marshal(s.Range)
	}
	if s.List == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.List)
}

func (s *CharacterStates) UnmarshalJSON(data []byte) error {
	*s = CharacterStates{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	switch trimmed[0] {
	case '[':
		return json.Unmarshal(trimmed, &s.List)
	case '{':
		var r NumericRange
		if err := json.Unmarshal(trimmed, &r); err != nil {
			return err
		}
		s.Range = &r
		return nil
	}
	return fmt.Errorf("character states must be an array or a range object: %s", trimmed)
}

// Character is a trait used to tell taxa apart
type Character struct {
	ID             string                  `json:"id"`
	Title          Translations            `json:"title"`
	Description    Translations            `json:"description,omitempty"`
	Type           constants.CharacterType `json:"type"`
	States         CharacterStates         `json:"states"`
	LogicalPremise LogicalPremise          `json:"logicalPremise"`
	Media          []string                `json:"media,omitempty"`
}

// Clone returns a deep copy
func (c Character) Clone() Character {
	out := c
	out.Title = c.Title.Clone()
	out.Description = c.Description.Clone()
	if c.States.List != nil {
		out.States.List = make([]State, len(c.States.List))
		for i, s := range c.States.List {
			s.Title = s.Title.Clone()
			s.Description = s.Description.Clone()
			out.States.List[i] = s
		}
	}
	if c.States.Range != nil {
		r := *c.States.Range
		out.States.Range = &r
	}
	out.LogicalPremise = c.LogicalPremise.Clone()
	if c.Media != nil {
		out.Media = append([]string(nil), c.Media...)
	}
	return out
}

// StateIDs returns the ids of the character's discrete states
func (c Character) StateIDs() []string {
	ids := make([]string, 0, len(c.States.List))
	for _, s := range c.States.List {
		ids = append(ids, s.ID)
	}
	return ids
}

// HasState reports whether id is one of the character's states
func (c Character) HasState(id string) bool {
	for _, s := range c.States.List {
		if s.ID == id {
			return true
		}
	}
	return false
}

// Range returns the numeric range of a numerical character
func (c Character) Range() (NumericRange, bool) {
	if c.Type != constants.CharacterTypeNumerical || c.States.Range == nil {
		return NumericRange{}, false
	}
	return *c.States.Range, true
}
