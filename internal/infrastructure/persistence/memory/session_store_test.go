package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artsapp/builder/internal/domain/models"
	"github.com/artsapp/builder/internal/domain/repository"
)

func TestSessionStore(t *testing.T) {
	store := NewSessionStore(time.Hour)
	ctx := context.Background()

	user := &models.User{ID: "u1", Name: "Kari"}
	require.NoError(t, store.Save(ctx, "s1", repository.SessionState{Language: "en", User: user}))
	assert.Equal(t, 1, store.Len())

	// the stored user is a copy
	user.Name = "Changed"
	state, ok, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Kari", state.User.Name)
	assert.Equal(t, "en", state.Language)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, ok, _ = store.Load(ctx, "s1")
	assert.False(t, ok)
}

func TestSessionStore_Expiry(t *testing.T) {
	store := NewSessionStore(20 * time.Millisecond)
	require.NoError(t, store.Save(context.Background(), "s1", repository.SessionState{Language: "no"}))

	time.Sleep(40 * time.Millisecond)
	_, ok, err := store.Load(context.Background(), "s1")
	require.NoError(t, err)
	assert.False(t, ok)
}
