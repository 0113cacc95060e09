package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artsapp/builder/internal/application/dto"
	"github.com/artsapp/builder/internal/domain/models"
	"github.com/artsapp/builder/internal/i18n"
	"github.com/artsapp/builder/internal/infrastructure/persistence/memory"
	"github.com/artsapp/builder/pkg/constants"
	"github.com/artsapp/builder/pkg/errors"
	"github.com/artsapp/builder/pkg/logger"
)

func newSessionService(env *testEnv, store *memory.SessionStore) SessionAppService {
	return NewSessionAppService(env.repos, store, i18n.MustLoad(), "https://login.artsapp.test/",
		env.audit, env.metrics, logger.NewNoopLogger())
}

func TestSession_RefreshAndLoad(t *testing.T) {
	env := newTestEnv(t)
	store := memory.NewSessionStore(time.Hour)
	svc := newSessionService(env, store)
	ctx := context.Background()

	state, err := svc.Load(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, constants.DefaultLanguage, state.Language())
	assert.False(t, state.SignedIn())

	env.srv.User = &models.User{ID: "u1", Name: "Kari", Permissions: []string{"createKey"}, Workgroups: []string{"wg1"}}
	state, err = svc.Refresh(ctx, "sid", state)
	require.NoError(t, err)
	assert.True(t, state.SignedIn())

	loaded, err := svc.Load(ctx, "sid")
	require.NoError(t, err)
	require.NotNil(t, loaded.User())
	assert.Equal(t, "u1", loaded.User().ID)

	// a 401 from the key API signs the session out instead of failing
	env.srv.User = nil
	state, err = svc.Refresh(ctx, "sid", loaded)
	require.NoError(t, err)
	assert.False(t, state.SignedIn())

	env.srv.Fail("GET /auth", http.StatusInternalServerError)
	_, err = svc.Refresh(ctx, "sid", state)
	assert.True(t, errors.IsCode(err, errors.CodeInternalAPI))
}

func TestSession_SetLanguage(t *testing.T) {
	env := newTestEnv(t)
	store := memory.NewSessionStore(time.Hour)
	svc := newSessionService(env, store)
	ctx := context.Background()
	state := models.NewAppState(constants.DefaultLanguage)

	state, err := svc.SetLanguage(ctx, "sid", state, &dto.LanguageRequest{Language: "en"})
	require.NoError(t, err)
	assert.Equal(t, "en", state.Language())
	assert.Equal(t, "en", svc.Describe(state).Language)
	assert.Equal(t, "Sign in", svc.Dictionary(state, "session")["session.signIn"])

	same, err := svc.SetLanguage(ctx, "sid", state, &dto.LanguageRequest{Language: "de"})
	assert.True(t, errors.IsCode(err, errors.CodeValidation))
	assert.Equal(t, "en", same.Language())

	loaded, err := svc.Load(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, "en", loaded.Language())
}

func TestSession_SignOut(t *testing.T) {
	env := newTestEnv(t)
	store := memory.NewSessionStore(time.Hour)
	svc := newSessionService(env, store)
	ctx := context.Background()
	state := models.NewAppState("en").WithUser(&models.User{ID: "u1"})

	resp, next, err := svc.SignOut(ctx, "sid", state)
	require.NoError(t, err)
	assert.Equal(t, env.srv.LogoutURL, resp.LogoutURL)
	assert.True(t, resp.Lookup.Succeeded)
	assert.False(t, next.SignedIn())
	assert.Equal(t, "en", next.Language())
	assert.Contains(t, env.auditedTypes(), constants.AuditEventSignedOut)

	env.srv.Fail("GET /auth/logout/url", http.StatusInternalServerError)
	resp, next, err = svc.SignOut(ctx, "sid", state)
	require.NoError(t, err, "the logout URL lookup is best effort")
	assert.Empty(t, resp.LogoutURL)
	assert.True(t, resp.Lookup.Failed())
	assert.False(t, next.SignedIn())
	env.metrics.AssertCalled(t, "RecordBestEffortFailure", logoutLookup)
}

func TestSession_SignInURL(t *testing.T) {
	env := newTestEnv(t)
	svc := newSessionService(env, memory.NewSessionStore(time.Hour))

	assert.Equal(t, "https://login.artsapp.test/", svc.SignInURL(""))
	assert.Equal(t, "https://login.artsapp.test/?redirect=https%3A%2F%2Fbuilder.test%2Fkeys%3Fx%3D1",
		svc.SignInURL("https://builder.test/keys?x=1"))

	withQuery := NewSessionAppService(env.repos, memory.NewSessionStore(time.Hour), i18n.MustLoad(),
		"https://login.artsapp.test/?app=builder", nil, nil, logger.NewNoopLogger())
	assert.Equal(t, "https://login.artsapp.test/?app=builder&redirect=%2Fkeys", withQuery.SignInURL("/keys"))
}

func TestSession_Permitted(t *testing.T) {
	env := newTestEnv(t)
	svc := newSessionService(env, memory.NewSessionStore(time.Hour))
	user := &models.User{ID: "u1", Permissions: []string{"createKey", "editKey"}, Workgroups: []string{"wg1"}}
	state := models.NewAppState("no").WithUser(user)

	tests := []struct {
		name string
		req  dto.PermittedRequest
		want bool
	}{
		{"held", dto.PermittedRequest{Permissions: []string{"createKey"}}, true},
		{"all held", dto.PermittedRequest{Permissions: []string{"createKey", "editKey"}}, true},
		{"one missing", dto.PermittedRequest{Permissions: []string{"createKey", "admin"}}, false},
		{"member", dto.PermittedRequest{Permissions: []string{"editKey"}, WorkgroupID: "wg1"}, true},
		{"not member", dto.PermittedRequest{Permissions: []string{"editKey"}, WorkgroupID: "wg2"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.Permitted(state, &tt.req).Permitted)
		})
	}

	signedOut := models.NewAppState("no")
	assert.False(t, svc.Permitted(signedOut, &dto.PermittedRequest{}).Permitted)
}
