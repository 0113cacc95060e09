package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artsapp/builder/internal/application/dto"
	"github.com/artsapp/builder/internal/domain/repository"
	"github.com/artsapp/builder/pkg/constants"
	"github.com/artsapp/builder/pkg/errors"
	"github.com/artsapp/builder/pkg/logger"
)

func newPremiseService(env *testEnv) PremiseAppService {
	return NewPremiseAppService(env.repos, env.audit, env.metrics, logger.NewNoopLogger())
}

func TestEditPremise_SavesNewGroup(t *testing.T) {
	env := newTestEnv(t)
	keyID, revID := env.seedKey()
	svc := newPremiseService(env)
	ref := repository.RevisionRef{KeyID: keyID, RevisionID: revID}

	resp, err := svc.EditPremise(context.Background(), ref, "wing", &dto.EditPremiseRequest{
		Operations: []dto.PremiseOperation{{
			Op:    dto.PremiseEditGroup,
			Group: -1,
			Edits: []dto.GroupEdit{
				{Op: dto.GroupSelectStates, CharacterID: "colour", StateIDs: []string{"red", "blue"}},
				{Op: dto.GroupToggleNot, Row: 0},
			},
		}},
	})
	require.NoError(t, err)
	assert.True(t, resp.Changed)
	assert.True(t, resp.Saved)
	require.NotNil(t, resp.Revision)
	assert.Equal(t, 1, env.srv.Calls("PUT /characters/premise/:revisionId"))

	out, err := json.Marshal(resp.LogicalPremise)
	require.NoError(t, err)
	assert.JSONEq(t, `["AND",["OR",
		{"characterId":"colour","stateId":"red","value":true,"condition":"!="},
		{"characterId":"colour","stateId":"blue","value":true,"condition":"!="}]]`, string(out))

	saved, ok := env.srv.Revision(resp.Revision.ID)
	require.True(t, ok)
	wing, _ := saved.Content.FindCharacter("wing")
	assert.Equal(t, resp.LogicalPremise.Groups, wing.LogicalPremise.Groups)

	env.metrics.AssertCalled(t, "RecordPremiseSave", true, true)
	assert.Contains(t, env.auditedTypes(), constants.AuditEventPremiseUpdated)
}

func TestEditPremise_UnchangedIsNotSaved(t *testing.T) {
	env := newTestEnv(t)
	keyID, revID := env.seedKey()
	svc := newPremiseService(env)
	ref := repository.RevisionRef{KeyID: keyID, RevisionID: revID}

	// an outer operator without groups serializes to the same empty premise
	resp, err := svc.EditPremise(context.Background(), ref, "wing", &dto.EditPremiseRequest{
		Operations: []dto.PremiseOperation{
			{Op: dto.PremiseToggleOperator},
			{Op: dto.PremiseEditGroup, Group: -1, Edits: []dto.GroupEdit{
				{Op: dto.GroupSelectStates, CharacterID: "colour", StateIDs: []string{"red"}},
				{Op: dto.GroupRemoveRow, Row: 0},
			}},
		},
	})
	require.NoError(t, err)
	assert.False(t, resp.Changed)
	assert.False(t, resp.Saved)
	assert.Empty(t, resp.Groups)
	assert.Equal(t, 0, env.srv.Calls("PUT /characters/premise/:revisionId"))
	env.metrics.AssertCalled(t, "RecordPremiseSave", false, true)
}

func TestEditPremise_NumericRange(t *testing.T) {
	env := newTestEnv(t)
	keyID, revID := env.seedKey()
	svc := newPremiseService(env)
	ref := repository.RevisionRef{KeyID: keyID, RevisionID: revID}

	resp, err := svc.EditPremise(context.Background(), ref, "wing", &dto.EditPremiseRequest{
		DryRun: true,
		Operations: []dto.PremiseOperation{
			{Op: dto.PremiseSetOperator, Operator: constants.OperatorOr},
			{Op: dto.PremiseEditGroup, Group: -1, Edits: []dto.GroupEdit{
				{Op: dto.GroupSelectRange, CharacterID: "length", Min: 10, Max: 20},
			}},
		},
	})
	require.NoError(t, err)
	assert.True(t, resp.Changed)
	assert.False(t, resp.Saved, "dry run")
	assert.Equal(t, 0, env.srv.Calls("PUT /characters/premise/:revisionId"))

	require.Len(t, resp.Groups, 1)
	assert.Equal(t, constants.OperatorAnd, resp.Groups[0].Operator)
	leaves := resp.LogicalPremise.Groups[0].Conditions
	require.Len(t, leaves, 2)
	assert.Equal(t, constants.ComparatorGreaterOrEqual, leaves[0].Condition)
	assert.Equal(t, 10.0, leaves[0].Value.Number())
	assert.Equal(t, constants.ComparatorLessOrEqual, leaves[1].Condition)
	assert.Equal(t, 20.0, leaves[1].Value.Number())
}

func TestEditPremise_Rejections(t *testing.T) {
	env := newTestEnv(t)
	keyID, revID := env.seedKey()
	svc := newPremiseService(env)
	ref := repository.RevisionRef{KeyID: keyID, RevisionID: revID}
	ctx := context.Background()

	edit := func(edits ...dto.GroupEdit) error {
		_, err := svc.EditPremise(ctx, ref, "wing", &dto.EditPremiseRequest{
			Operations: []dto.PremiseOperation{{Op: dto.PremiseEditGroup, Group: -1, Edits: edits}},
		})
		return err
	}

	assert.True(t, errors.IsCode(edit(dto.GroupEdit{Op: dto.GroupSelectStates, CharacterID: "wing", StateIDs: []string{"w1"}}), errors.CodeValidation))
	assert.True(t, errors.IsCode(edit(dto.GroupEdit{Op: dto.GroupSelectStates, CharacterID: "colour", StateIDs: []string{"w1"}}), errors.CodeValidation))
	assert.True(t, errors.IsCode(edit(dto.GroupEdit{Op: dto.GroupSelectRange, CharacterID: "length", Min: 50, Max: 500}), errors.CodeValidation))
	assert.True(t, errors.IsNotFound(edit(dto.GroupEdit{Op: dto.GroupSelectStates, CharacterID: "ghost", StateIDs: []string{"x"}})))

	_, err := svc.EditPremise(ctx, ref, "ghost", &dto.EditPremiseRequest{})
	assert.True(t, errors.IsNotFound(err))

	_, err = svc.EditPremise(ctx, ref, "wing", &dto.EditPremiseRequest{Operations: []dto.PremiseOperation{{Op: "explode"}}})
	assert.True(t, errors.IsCode(err, errors.CodeValidation))

	assert.Equal(t, 0, env.srv.Calls("PUT /characters/premise/:revisionId"))
}

func TestGetPremise_ShowsLeafSets(t *testing.T) {
	env := newTestEnv(t)
	keyID, revID := env.seedKey()
	rev := env.srv.Revisions[revID]
	require.NoError(t, json.Unmarshal([]byte(`["OR",["AND",
		{"characterId":"colour","stateId":"red","value":true,"condition":"=="},
		{"characterId":"length","value":2,"condition":">="},
		{"characterId":"length","value":40,"condition":"<="}]]`), &rev.Content.Characters[0].LogicalPremise))
	svc := newPremiseService(env)

	resp, err := svc.GetPremise(context.Background(), repository.RevisionRef{KeyID: keyID, RevisionID: revID}, "wing")
	require.NoError(t, err)
	assert.Equal(t, constants.OperatorOr, resp.Operator)
	require.Len(t, resp.Groups, 1)
	rows := resp.Groups[0].Rows
	require.Len(t, rows, 2)
	assert.Equal(t, "colour", rows[0].CharacterID)
	assert.Equal(t, "length", rows[1].CharacterID)
	assert.Len(t, rows[1].Leaves, 2)
	assert.False(t, resp.Changed)

	// removing the only group clears the premise
	saved, err := newPremiseService(env).EditPremise(context.Background(), repository.RevisionRef{KeyID: keyID, RevisionID: revID}, "wing",
		&dto.EditPremiseRequest{Operations: []dto.PremiseOperation{{Op: dto.PremiseRemoveGroup, Group: 0}}})
	require.NoError(t, err)
	assert.True(t, saved.LogicalPremise.IsEmpty())
	assert.True(t, saved.Saved)
}
