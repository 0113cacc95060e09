package service

import (
	"github.com/artsapp/builder/internal/domain/models"
	"github.com/artsapp/builder/pkg/constants"
)

func categorical(id string, typ constants.CharacterType, states ...string) models.Character {
	c := models.Character{
		ID:    id,
		Title: models.Translations{"no": id},
		Type:  typ,
	}
	c.States.List = []models.State{}
	for _, s := range states {
		c.States.List = append(c.States.List, models.State{ID: s, Title: models.Translations{"no": s}})
	}
	return c
}

func numerical(id string, min, max float64) models.Character {
	return models.Character{
		ID:     id,
		Title:  models.Translations{"no": id},
		Type:   constants.CharacterTypeNumerical,
		States: models.CharacterStates{Range: &models.NumericRange{ID: id + "-range", Min: min, Max: max, StepSize: 1, Unit: "cm"}},
	}
}

func stateLeaf(characterID, stateID string, cond constants.Comparator) models.PremiseCondition {
	return models.PremiseCondition{
		CharacterID: characterID,
		StateID:     stateID,
		Value:       models.BoolValue(true),
		Condition:   cond,
	}
}

// testCharacters: colour (EXCLUSIVE), habitat (MULTISTATE), length (NUMERICAL 0..100)
// and wing, the character whose premise is edited.
func testCharacters() []models.Character {
	return []models.Character{
		categorical("wing", constants.CharacterTypeExclusive, "w1", "w2"),
		categorical("colour", constants.CharacterTypeExclusive, "red", "blue", "green"),
		categorical("habitat", constants.CharacterTypeMultistate, "forest", "lake"),
		numerical("length", 0, 100),
	}
}

func testContent() models.RevisionContent {
	return models.RevisionContent{
		Taxa: []models.Taxon{
			{ID: "birds", ScientificName: "Aves", Children: []models.Taxon{
				{ID: "corvids", ScientificName: "Corvidae", Children: []models.Taxon{
					{ID: "raven", ScientificName: "Corvus corax"},
				}},
			}},
			{ID: "fish", ScientificName: "Pisces"},
		},
		Characters: testCharacters(),
		Statements: []models.Statement{},
	}
}
