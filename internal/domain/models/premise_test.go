package models

import (
	"encoding/json"
	"testing"

	"github.com/artsapp/builder/pkg/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogicalPremise_WireRoundTrip(t *testing.T) {
	inputs := []string{
		`[]`,
		`["AND",["OR",{"characterId":"c1","stateId":"s1","value":true,"condition":"=="}]]`,
		`["OR",
		  ["AND",{"characterId":"c1","stateId":"s1","value":true,"condition":"!="},
		         {"characterId":"c1","stateId":"s2","value":true,"condition":"!="},
		         {"characterId":"c2","value":1.5,"condition":">="},
		         {"characterId":"c2","value":10,"condition":"<="}],
		  ["AND",{"characterId":"c3","stateId":"s9","value":true,"condition":"=="}]]`,
	}

	for _, in := range inputs {
		var p LogicalPremise
		require.NoError(t, json.Unmarshal([]byte(in), &p))

		out, err := json.Marshal(p)
		require.NoError(t, err)

		var want, got interface{}
		require.NoError(t, json.Unmarshal([]byte(in), &want))
		require.NoError(t, json.Unmarshal(out, &got))
		assert.Equal(t, want, got)
	}
}

func TestLogicalPremise_Decode(t *testing.T) {
	var p LogicalPremise
	err := json.Unmarshal([]byte(`["OR",["AND",{"characterId":"c2","value":3,"condition":">="}]]`), &p)
	require.NoError(t, err)

	assert.Equal(t, constants.OperatorOr, p.Operator)
	require.Len(t, p.Groups, 1)
	assert.Equal(t, constants.OperatorAnd, p.Groups[0].Operator)
	leaf := p.Groups[0].Conditions[0]
	assert.True(t, leaf.Value.IsNumber())
	assert.Equal(t, 3.0, leaf.Value.Number())
	assert.Equal(t, constants.ComparatorGreaterOrEqual, leaf.Condition)
}

func TestLogicalPremise_NullIsEmpty(t *testing.T) {
	var c Character
	require.NoError(t, json.Unmarshal([]byte(`{"id":"c1","type":"EXCLUSIVE","states":[],"logicalPremise":null}`), &c))
	assert.True(t, c.LogicalPremise.IsEmpty())

	out, err := json.Marshal(c.LogicalPremise)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(out))
}

func TestLogicalPremise_Malformed(t *testing.T) {
	bad := []string{
		`{"operator":"AND"}`,
		`["XOR"]`,
		`["AND",[]]`,
		`["AND",["OR",{"characterId":"c1","stateId":"s1","value":true,"condition":"<>"}]]`,
		`["AND",["OR",{"characterId":"c1","stateId":"s1","value":"yes","condition":"=="}]]`,
	}
	for _, in := range bad {
		var p LogicalPremise
		assert.Error(t, json.Unmarshal([]byte(in), &p), in)
	}
}

func TestLogicalPremise_ReferencedStates(t *testing.T) {
	p := LogicalPremise{
		Operator: constants.OperatorAnd,
		Groups: []PremiseGroup{{
			Operator: constants.OperatorOr,
			Conditions: []PremiseCondition{
				{CharacterID: "c1", StateID: "s1", Value: BoolValue(true), Condition: constants.ComparatorEqual},
				{CharacterID: "c2", Value: NumberValue(1), Condition: constants.ComparatorGreaterOrEqual},
			},
		}},
	}
	assert.Equal(t, map[string][]string{"c1": {"s1"}}, p.ReferencedStates())
}
