package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artsapp/builder/internal/application/dto"
	"github.com/artsapp/builder/internal/domain/models"
	"github.com/artsapp/builder/internal/testutil/fakeapi"
	"github.com/artsapp/builder/pkg/constants"
)

func execute(t *testing.T, srv *fakeapi.Server, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--api-url", srv.URL, "--session", "abc"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestKeysCreateAndList(t *testing.T) {
	srv := fakeapi.New()
	t.Cleanup(srv.Close)

	out, err := execute(t, srv, "-o", "json", "keys", "create", "--title", "no=Fugler", "--title", "en=Birds", "--language", "no", "--language", "en")
	require.NoError(t, err)

	var created dto.CreateKeyResponse
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	assert.Equal(t, "Fugler", created.Key.Title["no"])
	assert.NotEmpty(t, created.Revision.ID)

	out, err = execute(t, srv, "-o", "table", "keys", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, created.Key.ID)
	assert.Contains(t, out, "Fugler")

	out, err = execute(t, srv, "-o", "yaml", "revisions", "list", created.Key.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "id: "+created.Revision.ID)
}

func TestKeysCreate_BadTitle(t *testing.T) {
	srv := fakeapi.New()
	t.Cleanup(srv.Close)

	_, err := execute(t, srv, "keys", "create", "--title", "Fugler")
	assert.Error(t, err)
	assert.Equal(t, 0, srv.TotalCalls())
}

func TestPermissionsCheck(t *testing.T) {
	srv := fakeapi.New()
	t.Cleanup(srv.Close)
	srv.RequireSession()
	srv.User = &models.User{ID: "u1", Permissions: []string{constants.PermissionEditKey}}

	out, err := execute(t, srv, "-o", "table", "permissions", "check", constants.PermissionEditKey)
	require.NoError(t, err)
	assert.Equal(t, "u1: permitted\n", out)

	out, err = execute(t, srv, "-o", "json", "permissions", "check", constants.PermissionEditKey, constants.PermissionCreateKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"permitted":false}`, out)
}

func TestParseTranslations(t *testing.T) {
	tr, err := parseTranslations([]string{"no=Fugler", "en=Birds = fowl"})
	require.NoError(t, err)
	assert.Equal(t, models.Translations{"no": "Fugler", "en": "Birds = fowl"}, tr)

	_, err = parseTranslations([]string{"=x"})
	assert.Error(t, err)
}
