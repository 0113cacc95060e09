package service

import (
	"testing"

	"github.com/artsapp/builder/internal/domain/models"
	"github.com/artsapp/builder/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func characterIDs(chars []models.Character) []string {
	ids := make([]string, 0, len(chars))
	for _, c := range chars {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestStatementMatrix_ToggleSeedsDefaults(t *testing.T) {
	m := NewStatementMatrix(testContent())

	require.NoError(t, m.Toggle("raven", "colour", true))
	require.NoError(t, m.Toggle("raven", "habitat", true))
	require.NoError(t, m.Toggle("raven", "length", true))

	s, ok := m.Statement("raven", "colour")
	require.True(t, ok)
	assert.Equal(t, models.SingleState("red"), s.Value)
	assert.NotEmpty(t, s.ID)

	s, _ = m.Statement("raven", "habitat")
	assert.Equal(t, models.MultiState("forest"), s.Value)

	s, _ = m.Statement("raven", "length")
	assert.Equal(t, models.RangeValue(0, 100), s.Value)

	// enabling twice keeps a single statement
	require.NoError(t, m.Toggle("raven", "colour", true))
	assert.Len(t, m.Statements(), 3)

	require.NoError(t, m.Toggle("raven", "colour", false))
	_, ok = m.Statement("raven", "colour")
	assert.False(t, ok)
	assert.Len(t, m.Statements(), 2)

	assert.True(t, errors.IsNotFound(m.Toggle("ghost", "colour", true)))
	assert.True(t, errors.IsNotFound(m.Toggle("raven", "ghost", true)))
}

func TestStatementMatrix_CandidateCharacters(t *testing.T) {
	content := testContent()
	content.Statements = []models.Statement{
		{TaxonID: "birds", CharacterID: "colour", Value: models.SingleState("red")},
		{TaxonID: "raven", CharacterID: "length", Value: models.RangeValue(10, 20)},
		{TaxonID: "fish", CharacterID: "habitat", Value: models.MultiState("lake")},
	}
	m := NewStatementMatrix(content)

	got, err := m.CandidateCharacters("corvids")
	require.NoError(t, err)
	assert.Equal(t, []string{"wing", "habitat"}, characterIDs(got))

	got, err = m.CandidateCharacters("fish")
	require.NoError(t, err)
	assert.Equal(t, []string{"wing", "colour", "habitat", "length"}, characterIDs(got))

	_, err = m.CandidateCharacters("ghost")
	assert.True(t, errors.IsNotFound(err))
}

func TestStatementMatrix_SetValue(t *testing.T) {
	m := NewStatementMatrix(testContent())
	require.NoError(t, m.Toggle("fish", "colour", true))
	require.NoError(t, m.Toggle("fish", "habitat", true))
	require.NoError(t, m.Toggle("fish", "length", true))

	require.NoError(t, m.SetValue("fish", "colour", models.SingleState("blue")))
	assert.Error(t, m.SetValue("fish", "colour", models.MultiState("red", "blue")), "exclusive takes one state")
	assert.Error(t, m.SetValue("fish", "colour", models.SingleState("purple")))
	assert.Error(t, m.SetValue("fish", "colour", models.RangeValue(1, 2)))

	require.NoError(t, m.SetValue("fish", "habitat", &models.StatementValue{StateIDs: []string{"forest", "lake"}}))
	s, _ := m.Statement("fish", "habitat")
	assert.True(t, s.Value.Multi)

	require.NoError(t, m.SetValue("fish", "length", models.RangeValue(5, 50)))
	assert.Error(t, m.SetValue("fish", "length", models.RangeValue(50, 5)))
	assert.Error(t, m.SetValue("fish", "length", models.RangeValue(-5, 50)))
	assert.Error(t, m.SetValue("fish", "length", models.SingleState("x")))

	assert.True(t, errors.IsNotFound(m.SetValue("birds", "colour", models.SingleState("red"))), "statement not enabled")

	require.NoError(t, m.SetValue("fish", "length", nil))
	s, _ = m.Statement("fish", "length")
	assert.Nil(t, s.Value)
}

func TestStatementMatrix_ValidateGuard(t *testing.T) {
	m := NewStatementMatrix(testContent())
	require.NoError(t, m.Toggle("raven", "colour", true))
	require.NoError(t, m.Validate())

	require.NoError(t, m.SetValue("raven", "colour", nil))
	err := m.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeStatementValueMissing))

	// a character without states seeds an undefined value
	content := testContent()
	content.Characters = append(content.Characters, categorical("empty", "EXCLUSIVE"))
	m = NewStatementMatrix(content)
	require.NoError(t, m.Toggle("raven", "empty", true))
	assert.True(t, errors.IsCode(m.Validate(), errors.CodeStatementValueMissing))
}

func TestStatementMatrix_ValidateAcceptsEmptySelection(t *testing.T) {
	content := testContent()
	content.Statements = []models.Statement{
		{ID: "s1", TaxonID: "raven", CharacterID: "habitat", Value: models.MultiState()},
	}
	require.NoError(t, NewStatementMatrix(content).Validate())

	content.Statements[0].Value = nil
	assert.True(t, errors.IsCode(NewStatementMatrix(content).Validate(), errors.CodeStatementValueMissing))
}

func TestStatementMatrix_MoveCharacter(t *testing.T) {
	m := NewStatementMatrix(testContent())

	require.NoError(t, m.MoveCharacter(0, 3))
	assert.Equal(t, []string{"colour", "habitat", "length", "wing"}, characterIDs(m.Snapshot().Characters))

	require.NoError(t, m.MoveCharacter(3, 1))
	assert.Equal(t, []string{"colour", "wing", "habitat", "length"}, characterIDs(m.Snapshot().Characters))

	require.NoError(t, m.MoveCharacter(2, 2))
	assert.Error(t, m.MoveCharacter(0, 4))
	assert.Error(t, m.MoveCharacter(-1, 0))
}

func TestStatementMatrix_SnapshotIsACopy(t *testing.T) {
	content := testContent()
	m := NewStatementMatrix(content)
	require.NoError(t, m.Toggle("raven", "colour", true))

	assert.Empty(t, content.Statements)
	snap := m.Snapshot()
	snap.Statements[0].Value = nil
	s, _ := m.Statement("raven", "colour")
	assert.NotNil(t, s.Value)
}
