package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artsapp/builder/internal/application/dto"
	"github.com/artsapp/builder/internal/domain/models"
	"github.com/artsapp/builder/internal/domain/repository"
	"github.com/artsapp/builder/pkg/errors"
	"github.com/artsapp/builder/pkg/logger"
)

func TestMedia_Upload(t *testing.T) {
	env := newTestEnv(t)
	keyID, revID := env.seedKey()
	svc := NewMediaAppService(env.repos, 1024, env.audit, logger.NewNoopLogger())
	ctx := context.Background()
	ref := repository.RevisionRef{KeyID: keyID, RevisionID: revID}

	body := "raven.jpg contents"
	media, err := svc.Upload(ctx, models.MediaEntityTaxon, ref, repository.Upload{
		EntityID: "raven",
		FileName: "raven.jpg",
		Size:     int64(len(body)),
		Body:     strings.NewReader(body),
	})
	require.NoError(t, err)
	assert.Equal(t, "raven.jpg", media.FileName)
	assert.Len(t, env.srv.Media, 1)

	updated, err := svc.UpdateMetadata(ctx, models.MediaEntityTaxon, media.ID, &dto.MediaMetadataRequest{
		Title:   models.Translations{"no": "Ravn"},
		License: "CC BY 4.0",
	})
	require.NoError(t, err)
	assert.Equal(t, "CC BY 4.0", updated.License)

	require.NoError(t, svc.Delete(ctx, models.MediaEntityTaxon, "raven", media.ID))
	assert.Empty(t, env.srv.Media)
}

func TestMedia_Rejections(t *testing.T) {
	env := newTestEnv(t)
	keyID, revID := env.seedKey()
	svc := NewMediaAppService(env.repos, 1024, env.audit, logger.NewNoopLogger())
	ctx := context.Background()
	ref := repository.RevisionRef{KeyID: keyID, RevisionID: revID}
	before := env.srv.TotalCalls()

	_, err := svc.Upload(ctx, models.MediaEntityKey, ref, repository.Upload{
		EntityID: keyID, FileName: "big.png", Size: 4096, Body: strings.NewReader("x"),
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodePayloadTooLarge))

	_, err = svc.Upload(ctx, "planet", ref, repository.Upload{FileName: "a.png", Size: 1, Body: strings.NewReader("x")})
	assert.True(t, errors.IsCode(err, errors.CodeValidation))

	assert.Equal(t, before, env.srv.TotalCalls())
	assert.Equal(t, int64(1024), svc.MaxUploadBytes())
}
