package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artsapp/builder/internal/application/dto"
	"github.com/artsapp/builder/internal/domain/models"
	"github.com/artsapp/builder/pkg/constants"
	"github.com/artsapp/builder/pkg/errors"
	"github.com/artsapp/builder/pkg/logger"
)

func newKeyService(env *testEnv) KeyAppService {
	return NewKeyAppService(env.repos, env.audit, env.metrics, logger.NewNoopLogger())
}

func TestCreateKey_EndToEnd(t *testing.T) {
	env := newTestEnv(t)
	svc := newKeyService(env)

	resp, err := svc.CreateKey(context.Background(), &dto.CreateKeyRequest{
		Title:     models.Translations{"no": "Fugler"},
		Languages: map[string]bool{"no": true, "en": false},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"no"}, resp.Key.Languages)
	assert.Equal(t, models.Translations{"no": "Fugler"}, resp.Key.Title)
	assert.Equal(t, 1, env.srv.Calls("POST /keys"))
	assert.Equal(t, 1, env.srv.Calls("POST /revisions"))

	require.NotNil(t, resp.Revision)
	assert.Equal(t, resp.Key.ID, resp.Revision.KeyID)
	assert.True(t, resp.Revision.Content.IsEmpty())
	assert.Equal(t, constants.RevisionStatusDraft, resp.Revision.EffectiveStatus())

	stored, ok := env.srv.Revision(resp.Revision.ID)
	require.True(t, ok)
	assert.True(t, stored.Content.IsEmpty())

	assert.Equal(t, []constants.AuditEventType{constants.AuditEventKeyCreated, constants.AuditEventRevisionCreated}, env.auditedTypes())
}

func TestCreateKey_Validation(t *testing.T) {
	env := newTestEnv(t)
	svc := newKeyService(env)

	tests := []struct {
		name  string
		req   *dto.CreateKeyRequest
		field string
	}{
		{"no language", &dto.CreateKeyRequest{Title: models.Translations{"no": "Fugler"}}, "languages"},
		{"missing english title", &dto.CreateKeyRequest{
			Title:     models.Translations{"no": "Fugler"},
			Languages: map[string]bool{"no": true, "en": true},
		}, "title.en"},
		{"blank title", &dto.CreateKeyRequest{
			Title:     models.Translations{"no": "   "},
			Languages: map[string]bool{"no": true},
		}, "title.no"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateKey(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.CodeValidation))
			be, _ := errors.AsBuilderError(err)
			assert.Contains(t, be.Metadata(), tt.field)
		})
	}
	assert.Equal(t, 0, env.srv.TotalCalls())
}

func TestCreateKey_RevisionFailureKeepsKey(t *testing.T) {
	env := newTestEnv(t)
	env.srv.Fail("POST /revisions", http.StatusInternalServerError)
	svc := newKeyService(env)

	_, err := svc.CreateKey(context.Background(), &dto.CreateKeyRequest{
		Title:     models.Translations{"no": "Fugler", "en": "Birds"},
		Languages: map[string]bool{"no": true, "en": true},
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInternalAPI))
	assert.Len(t, env.srv.Keys, 1)
}

func TestUpdateKey_DirtyDetection(t *testing.T) {
	env := newTestEnv(t)
	keyID, _ := env.seedKey()
	svc := newKeyService(env)
	ctx := context.Background()

	resp, err := svc.UpdateKey(ctx, keyID, &dto.UpdateKeyRequest{Title: models.Translations{"no": "Fugler"}})
	require.NoError(t, err)
	assert.False(t, resp.Changed)
	assert.Equal(t, 0, env.srv.Calls("PUT /keys/:id"))

	resp, err = svc.UpdateKey(ctx, keyID, &dto.UpdateKeyRequest{
		Title:     models.Translations{"no": "Fugler", "en": "Birds"},
		Languages: map[string]bool{"no": true, "en": true},
	})
	require.NoError(t, err)
	assert.True(t, resp.Changed)
	assert.ElementsMatch(t, []string{"title", "languages"}, resp.Fields)
	assert.Equal(t, 1, env.srv.Calls("PUT /keys/:id"))
	assert.Equal(t, []string{"no", "en"}, env.srv.Keys[keyID].Languages)
}

func TestUpdateKey_Hide(t *testing.T) {
	env := newTestEnv(t)
	keyID, _ := env.seedKey()
	svc := newKeyService(env)

	resp, err := svc.UpdateKey(context.Background(), keyID, &dto.UpdateKeyRequest{Hide: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"status"}, resp.Fields)
	assert.True(t, env.srv.Keys[keyID].IsHidden())
	assert.Contains(t, env.auditedTypes(), constants.AuditEventKeyHidden)

	keys, err := svc.ListKeys(context.Background(), &dto.ListKeysRequest{})
	require.NoError(t, err)
	assert.Empty(t, keys)

	keys, err = svc.ListKeys(context.Background(), &dto.ListKeysRequest{IncludeHidden: true})
	require.NoError(t, err)
	assert.Len(t, keys, 1)
}

func TestUpdateKey_RemovingTitleOfSelectedLanguage(t *testing.T) {
	env := newTestEnv(t)
	keyID, _ := env.seedKey()
	svc := newKeyService(env)

	_, err := svc.UpdateKey(context.Background(), keyID, &dto.UpdateKeyRequest{Languages: map[string]bool{"no": true, "en": true}})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeValidation))
	assert.Equal(t, 0, env.srv.Calls("PUT /keys/:id"))
}

func TestGetKeyOverview(t *testing.T) {
	env := newTestEnv(t)
	keyID, revisionID := env.seedKey()
	env.srv.PutRevision(models.Revision{KeyID: keyID, Status: constants.RevisionStatusAccepted, Content: models.EmptyContent()})
	env.srv.Collections["c1"] = &models.Collection{ID: "c1", Name: models.Translations{"no": "Norske fugler"}, Keys: []string{keyID}}
	env.srv.Collections["c2"] = &models.Collection{ID: "c2", Name: models.Translations{"no": "Fisk"}}
	env.srv.Orgs = []models.Organization{{ID: "o1", Name: models.Translations{"no": "Artsdatabanken"}}}
	svc := newKeyService(env)

	ctx := signedIn(&models.User{ID: "u1", OrganizationID: "o1"})
	overview, err := svc.GetKeyOverview(ctx, keyID, false)
	require.NoError(t, err)
	assert.Equal(t, keyID, overview.Key.ID)
	assert.Len(t, overview.Revisions, 2)
	require.Len(t, overview.Collections, 1)
	assert.Equal(t, "c1", overview.Collections[0].ID)
	require.NotNil(t, overview.Organization)
	assert.Equal(t, "o1", overview.Organization.ID)

	accepted, err := svc.GetKeyOverview(ctx, keyID, true)
	require.NoError(t, err)
	require.Len(t, accepted.Revisions, 1)
	assert.NotEqual(t, revisionID, accepted.Revisions[0].ID)
}

func TestGetKeyOverview_OrganizationLookupIsBestEffort(t *testing.T) {
	env := newTestEnv(t)
	keyID, _ := env.seedKey()
	env.srv.Fail("GET /organizations", http.StatusInternalServerError)
	svc := newKeyService(env)

	overview, err := svc.GetKeyOverview(signedIn(&models.User{ID: "u1", OrganizationID: "o1"}), keyID, false)
	require.NoError(t, err)
	assert.Nil(t, overview.Organization)
	require.Len(t, overview.Lookups, 1)
	assert.True(t, overview.Lookups[0].Failed())
	env.metrics.AssertCalled(t, "RecordBestEffortFailure", "organization_lookup")
}

func TestGetKeyOverview_MissingKey(t *testing.T) {
	env := newTestEnv(t)
	svc := newKeyService(env)

	_, err := svc.GetKeyOverview(context.Background(), "nope", false)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestEditors(t *testing.T) {
	env := newTestEnv(t)
	keyID, _ := env.seedKey()
	svc := newKeyService(env)
	ctx := context.Background()

	require.NoError(t, svc.AddEditor(ctx, keyID, &dto.EditorRequest{UserID: "u2", Name: "Kari"}))
	err := svc.AddEditor(ctx, keyID, &dto.EditorRequest{UserID: "u2"})
	assert.True(t, errors.IsConflict(err))

	editors, err := svc.ListEditors(ctx, keyID)
	require.NoError(t, err)
	require.Len(t, editors, 1)
	assert.Equal(t, "u2", editors[0].UserID)

	require.NoError(t, svc.RemoveEditor(ctx, keyID, "u2"))
	editors, err = svc.ListEditors(ctx, keyID)
	require.NoError(t, err)
	assert.Empty(t, editors)
}
