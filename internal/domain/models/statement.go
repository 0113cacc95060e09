package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// StatementValue is the value a statement assigns. On the wire it is a single
// state id, an array of state ids (multistate) or [min, max] (numerical).
type StatementValue struct {
	StateIDs []string
	// Multi keeps the array form for state ids
	Multi bool
	Range *ValueRange
}

// ValueRange is a numeric statement value
type ValueRange struct {
	Min float64
	Max float64
}

// SingleState creates a value holding one state id
func SingleState(id string) *StatementValue {
	return &StatementValue{StateIDs: []string{id}}
}

// MultiState creates a value holding several state ids
func MultiState(ids ...string) *StatementValue {
	return &StatementValue{StateIDs: append([]string{}, ids...), Multi: true}
}

// RangeValue creates a numeric value
func RangeValue(min, max float64) *StatementValue {
	return &StatementValue{Range: &ValueRange{Min: min, Max: max}}
}

// IsEmpty reports whether the value carries nothing
func (v *StatementValue) IsEmpty() bool {
	return v == nil || (v.Range == nil && len(v.StateIDs) == 0)
}

// Clone returns a deep copy
func (v *StatementValue) Clone() *StatementValue {
	if v == nil {
		return nil
	}
	out := &StatementValue{Multi: v.Multi}
	if v.StateIDs != nil {
		out.StateIDs = append([]string{}, v.StateIDs...)
	}
	if v.Range != nil {
		r := *v.Range
		out.Range = &r
	}
	return out
}

func (v StatementValue) MarshalJSON() ([]byte, error) {
	if v.Range != nil {
		return json.Marshal([]float64{v.Range.Min, v.Range.Max})
	}
	if !v.Multi && len(v.StateIDs) == 1 {
		return json.Marshal(v.StateIDs[0])
	}
	if v.StateIDs == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(v.StateIDs)
}

func (v *StatementValue) UnmarshalJSON(data []byte) error {
	*v = StatementValue{}
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0:
		return fmt.Errorf("empty statement value")
	case trimmed[0] == '"':
		var id string
		if err := json.Unmarshal(trimmed, &id); err != nil {
			return err
		}
		v.StateIDs = []string{id}
		return nil
	case trimmed[0] != '[':
		return fmt.Errorf("statement value must be a string or an array: %s", trimmed)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return err
	}
	if len(items) == 0 {
		v.Multi = true
		v.StateIDs = []string{}
		return nil
	}
	if t := bytes.TrimSpace(items[0]); len(t) > 0 && t[0] == '"' {
		v.Multi = true
		return json.Unmarshal(trimmed, &v.StateIDs)
	}

	var nums []float64
	if err := json.Unmarshal(trimmed, &nums); err != nil {
		return fmt.Errorf("numeric statement value: %w", err)
	}
	if len(nums) != 2 {
		return fmt.Errorf("numeric statement value must be [min, max], got %d numbers", len(nums))
	}
	v.Range = &ValueRange{Min: nums[0], Max: nums[1]}
	return nil
}

// Statement assigns a character value to a taxon. A nil Value is undefined.
type Statement struct {
	ID          string          `json:"id,omitempty"`
	TaxonID     string          `json:"taxonId"`
	CharacterID string          `json:"characterId"`
	Value       *StatementValue `json:"value,omitempty"`
}

// Key identifies the statement within a revision
func (s Statement) Key() string {
	return s.TaxonID + "/" + s.CharacterID
}

// Clone returns a deep copy
func (s Statement) Clone() Statement {
	out := s
	out.Value = s.Value.Clone()
	return out
}
