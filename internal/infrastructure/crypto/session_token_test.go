package crypto

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artsapp/builder/internal/config"
	"github.com/artsapp/builder/pkg/errors"
	"github.com/artsapp/builder/pkg/logger"
)

var testSecret = StaticSecret("0123456789abcdef0123456789abcdef")

func TestSessionTokens_IssueVerify(t *testing.T) {
	tokens := NewSessionTokens(testSecret, time.Hour, logger.NewNoopLogger())
	ctx := context.Background()

	token, expires, err := tokens.Issue(ctx, "session-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	sid, err := tokens.Verify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "session-1", sid)
}

func TestSessionTokens_Rejects(t *testing.T) {
	tokens := NewSessionTokens(testSecret, time.Hour, logger.NewNoopLogger())
	ctx := context.Background()
	token, _, err := tokens.Issue(ctx, "session-1")
	require.NoError(t, err)

	t.Run("tampered", func(t *testing.T) {
		_, err := tokens.Verify(ctx, token+"x")
		assert.True(t, errors.IsCode(err, errors.CodeUnauthorized))
	})

	t.Run("other secret", func(t *testing.T) {
		other := NewSessionTokens(StaticSecret(strings.Repeat("z", 32)), time.Hour, logger.NewNoopLogger())
		_, err := other.Verify(ctx, token)
		assert.True(t, errors.IsCode(err, errors.CodeUnauthorized))
	})

	t.Run("expired", func(t *testing.T) {
		later := NewSessionTokens(testSecret, time.Hour, logger.NewNoopLogger())
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.Verify(ctx, token)
		assert.True(t, errors.IsCode(err, errors.CodeUnauthorized))
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		none, err := jwt.NewWithClaims(jwt.SigningMethodNone, SessionClaims{SessionID: "x"}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = tokens.Verify(ctx, none)
		assert.True(t, errors.IsCode(err, errors.CodeUnauthorized))
	})
}

func TestVaultSecretProvider(t *testing.T) {
	reads := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/secret/data/builder/session" {
			http.NotFound(w, r)
			return
		}
		reads++
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"data": map[string]interface{}{"session_secret": strings.Repeat("v", 40)},
				"metadata": map[string]interface{}{
					"created_time":  "2024-01-01T00:00:00Z",
					"deletion_time": "",
					"destroyed":     false,
					"version":       1,
				},
			},
		})
	}))
	defer srv.Close()

	provider, err := NewVaultSecretProvider(&config.VaultConfig{
		Address:    srv.URL,
		Token:      "dev-token",
		SecretPath: "builder/session",
	}, logger.NewNoopLogger())
	require.NoError(t, err)

	secret, err := provider.SigningSecret(context.Background())
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("v", 40), string(secret))

	_, err = provider.SigningSecret(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, reads)
}

func TestStaticSecret_Empty(t *testing.T) {
	_, err := StaticSecret(nil).SigningSecret(context.Background())
	assert.Error(t, err)
}
