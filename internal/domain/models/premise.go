package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/artsapp/builder/pkg/constants"
)

// ================================================================================
// Premise Value
// ================================================================================

// PremiseValue is the right-hand side of a premise condition: true for state
// conditions, a number for range bounds.
type PremiseValue struct {
	numeric bool
	flag    bool
	number  float64
}

// BoolValue creates a boolean premise value
func BoolValue(b bool) PremiseValue {
	return PremiseValue{flag: b}
}

// NumberValue creates a numeric premise value
func NumberValue(n float64) PremiseValue {
	return PremiseValue{numeric: true, number: n}
}

func (v PremiseValue) IsNumber() bool  { return v.numeric }
func (v PremiseValue) Bool() bool      { return !v.numeric && v.flag }
func (v PremiseValue) Number() float64 { return v.number }

// Equal is used by go-cmp
func (v PremiseValue) Equal(o PremiseValue) bool {
	if v.numeric != o.numeric {
		return false
	}
	if v.numeric {
		return v.number == o.number
	}
	return v.flag == o.flag
}

func (v PremiseValue) String() string {
	if v.numeric {
		return fmt.Sprintf("%g", v.number)
	}
	return fmt.Sprintf("%t", v.flag)
}

func (v PremiseValue) MarshalJSON() ([]byte, error) {
	if v.numeric {
		return json.Marshal(v.number)
	}
	return json.Marshal(v.flag)
}

func (v *PremiseValue) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*v = BoolValue(b)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("premise value must be a boolean or a number: %s", data)
	}
	*v = NumberValue(n)
	return nil
}

// ================================================================================
// Premise Structure
// ================================================================================

// PremiseCondition is a single leaf of a logical premise
type PremiseCondition struct {
	CharacterID string               `json:"characterId"`
	StateID     string               `json:"stateId,omitempty"`
	Value       PremiseValue         `json:"value"`
	Condition   constants.Comparator `json:"condition"`
}

// PremiseGroup is a list of conditions joined by the inner operator
type PremiseGroup struct {
	Operator   constants.PremiseOperator
	Conditions []PremiseCondition
}

// LogicalPremise gates when a character applies. On the wire it is
// [outerOperator, [innerOperator, leaf...], ...] and [] when empty.
type LogicalPremise struct {
	Operator constants.PremiseOperator
	Groups   []PremiseGroup
}

// IsEmpty reports whether the premise has no groups
func (p LogicalPremise) IsEmpty() bool {
	return len(p.Groups) == 0
}

// Clone returns a deep copy
func (p LogicalPremise) Clone() LogicalPremise {
	out := LogicalPremise{Operator: p.Operator}
	if p.Groups != nil {
		out.Groups = make([]PremiseGroup, len(p.Groups))
		for i, g := range p.Groups {
			out.Groups[i] = PremiseGroup{
				Operator:   g.Operator,
				Conditions: append([]PremiseCondition(nil), g.Conditions...),
			}
		}
	}
	return out
}

// ReferencedStates returns the state ids referenced per character
func (p LogicalPremise) ReferencedStates() map[string][]string {
	out := make(map[string][]string)
	for _, g := range p.Groups {
		for _, c := range g.Conditions {
			if c.StateID != "" && !c.Value.IsNumber() {
				out[c.CharacterID] = append(out[c.CharacterID], c.StateID)
			}
		}
	}
	return out
}

func (p LogicalPremise) MarshalJSON() ([]byte, error) {
	if p.Operator == "" && len(p.Groups) == 0 {
		return []byte("[]"), nil
	}
	raw := make([]interface{}, 0, len(p.Groups)+1)
	raw = append(raw, p.Operator)
	for _, g := range p.Groups {
		group := make([]interface{}, 0, len(g.Conditions)+1)
		group = append(group, g.Operator)
		for _, c := range g.Conditions {
			group = append(group, c)
		}
		raw = append(raw, group)
	}
	return json.Marshal(raw)
}

func (p *LogicalPremise) UnmarshalJSON(data []byte) error {
	*p = LogicalPremise{}
	if len(bytes.TrimSpace(data)) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("logical premise must be an array: %w", err)
	}
	if len(raw) == 0 {
		return nil
	}

	op, err := decodeOperator(raw[0])
	if err != nil {
		return err
	}
	p.Operator = op

	for i, rawGroup := range raw[1:] {
		var items []json.RawMessage
		if err := json.Unmarshal(rawGroup, &items); err != nil {
			return fmt.Errorf("premise group %d must be an array: %w", i, err)
		}
		if len(items) == 0 {
			return fmt.Errorf("premise group %d is missing its operator", i)
		}
		inner, err := decodeOperator(items[0])
		if err != nil {
			return fmt.Errorf("premise group %d: %w", i, err)
		}
		group := PremiseGroup{Operator: inner, Conditions: make([]PremiseCondition, 0, len(items)-1)}
		for j, item := range items[1:] {
			var c PremiseCondition
			if err := json.Unmarshal(item, &c); err != nil {
				return fmt.Errorf("premise group %d leaf %d: %w", i, j, err)
			}
			if !c.Condition.Valid() {
				return fmt.Errorf("premise group %d leaf %d: unknown condition %q", i, j, c.Condition)
			}
			group.Conditions = append(group.Conditions, c)
		}
		p.Groups = append(p.Groups, group)
	}
	return nil
}

func decodeOperator(data json.RawMessage) (constants.PremiseOperator, error) {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", fmt.Errorf("premise operator must be a string: %s", data)
	}
	op := constants.PremiseOperator(s)
	if !op.Valid() {
		return "", fmt.Errorf("unknown premise operator %q", s)
	}
	return op, nil
}
