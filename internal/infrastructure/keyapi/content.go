package keyapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/artsapp/builder/internal/domain/models"
	"github.com/artsapp/builder/internal/domain/repository"
	"github.com/artsapp/builder/pkg/errors"
)

var (
	_ repository.TaxonRepository     = (*TaxonAPI)(nil)
	_ repository.CharacterRepository = (*CharacterAPI)(nil)
)

func refQuery(ref repository.RevisionRef, idKey, id string) url.Values {
	return url.Values{"keyId": {ref.KeyID}, "revisionId": {ref.RevisionID}, idKey: {id}}
}

// ================================================================================
// Taxa
// ================================================================================

// TaxonAPI reaches /taxa
type TaxonAPI struct {
	c *Client
}

// Taxa returns the taxon endpoints
func (c *Client) Taxa() *TaxonAPI {
	return &TaxonAPI{c: c}
}

type taxonBody struct {
	repository.RevisionRef
	Taxon models.Taxon `json:"taxon"`
}

func (a *TaxonAPI) Create(ctx context.Context, ref repository.RevisionRef, taxon models.Taxon) (*models.Revision, error) {
	var rev models.Revision
	if err := a.c.send(ctx, http.MethodPost, errors.EntityTaxon, "/taxa", "/taxa", taxonBody{ref, taxon}, &rev); err != nil {
		return nil, err
	}
	return &rev, nil
}

func (a *TaxonAPI) Update(ctx context.Context, ref repository.RevisionRef, taxon models.Taxon) (*models.Revision, error) {
	var rev models.Revision
	if err := a.c.send(ctx, http.MethodPut, errors.EntityTaxon, "/taxa", "/taxa", taxonBody{ref, taxon}, &rev); err != nil {
		return nil, err
	}
	return &rev, nil
}

func (a *TaxonAPI) Delete(ctx context.Context, ref repository.RevisionRef, taxonID string) (*models.Revision, error) {
	var rev models.Revision
	if err := a.c.delete(ctx, errors.EntityTaxon, "/taxa", "/taxa", refQuery(ref, "taxonId", taxonID), &rev); err != nil {
		return nil, err
	}
	return &rev, nil
}

// ================================================================================
// Characters
// ================================================================================

// CharacterAPI reaches /characters and its state and premise sub-resources
type CharacterAPI struct {
	c *Client
}

// Characters returns the character endpoints
func (c *Client) Characters() *CharacterAPI {
	return &CharacterAPI{c: c}
}

type characterBody struct {
	repository.RevisionRef
	Character models.Character `json:"character"`
}

func (a *CharacterAPI) Create(ctx context.Context, ref repository.RevisionRef, character models.Character) (*models.Revision, error) {
	var rev models.Revision
	if err := a.c.send(ctx, http.MethodPost, errors.EntityCharacter, "/characters", "/characters", characterBody{ref, character}, &rev); err != nil {
		return nil, err
	}
	return &rev, nil
}

func (a *CharacterAPI) Update(ctx context.Context, ref repository.RevisionRef, character models.Character) (*models.Revision, error) {
	var rev models.Revision
	if err := a.c.send(ctx, http.MethodPut, errors.EntityCharacter, "/characters", "/characters", characterBody{ref, character}, &rev); err != nil {
		return nil, err
	}
	return &rev, nil
}

func (a *CharacterAPI) Delete(ctx context.Context, ref repository.RevisionRef, characterID string) (*models.Revision, error) {
	var rev models.Revision
	if err := a.c.delete(ctx, errors.EntityCharacter, "/characters", "/characters", refQuery(ref, "characterId", characterID), &rev); err != nil {
		return nil, err
	}
	return &rev, nil
}

// UpdateStates replaces the states of a character
func (a *CharacterAPI) UpdateStates(ctx context.Context, ref repository.RevisionRef, characterID string, states models.CharacterStates) (*models.Revision, error) {
	body := struct {
		repository.RevisionRef
		CharacterID string                 `json:"characterId"`
		States      models.CharacterStates `json:"states"`
	}{ref, characterID, states}

	var rev models.Revision
	if err := a.c.send(ctx, http.MethodPut, errors.EntityState, "/characters/state", "/characters/state", body, &rev); err != nil {
		return nil, err
	}
	return &rev, nil
}

// UpdatePremise replaces the logical premise of a character
func (a *CharacterAPI) UpdatePremise(ctx context.Context, ref repository.RevisionRef, characterID string, premise models.LogicalPremise) (*models.Revision, error) {
	body := struct {
		repository.RevisionRef
		CharacterID    string                `json:"characterId"`
		LogicalPremise models.LogicalPremise `json:"logicalPremise"`
	}{ref, characterID, premise}

	var rev models.Revision
	path := "/characters/premise/" + escape(ref.RevisionID)
	if err := a.c.send(ctx, http.MethodPut, errors.EntityPremise, "/characters/premise/:revisionId", path, body, &rev); err != nil {
		return nil, err
	}
	return &rev, nil
}

// CleanupPremises strips premise conditions referencing removed states
func (a *CharacterAPI) CleanupPremises(ctx context.Context, ref repository.RevisionRef, characterID string, removedStates []string) (*models.Revision, error) {
	body := struct {
		repository.RevisionRef
		CharacterID   string   `json:"characterId"`
		RemovedStates []string `json:"removedStates"`
	}{ref, characterID, removedStates}

	var rev models.Revision
	path := "/characters/states/revision/" + escape(ref.RevisionID)
	if err := a.c.send(ctx, http.MethodPut, errors.EntityPremise, "/characters/states/revision/:revisionId", path, body, &rev); err != nil {
		return nil, err
	}
	return &rev, nil
}
