package service

import (
	"context"

	"github.com/artsapp/builder/internal/application/dto"
	"github.com/artsapp/builder/internal/domain/models"
	"github.com/artsapp/builder/internal/domain/repository"
	domainservice "github.com/artsapp/builder/internal/domain/service"
	"github.com/artsapp/builder/pkg/constants"
	"github.com/artsapp/builder/pkg/errors"
	"github.com/artsapp/builder/pkg/logger"
	"github.com/artsapp/builder/pkg/utils"
)

// MediaAppService defines the application service interface for media
// attached to keys, taxa, characters and states.
// MediaAppService 媒体应用服务接口。
type MediaAppService interface {
	// MaxUploadBytes is the largest accepted upload
	MaxUploadBytes() int64
	Upload(ctx context.Context, entity models.MediaEntity, ref repository.RevisionRef, file repository.Upload) (*models.Media, error)
	UpdateMetadata(ctx context.Context, entity models.MediaEntity, mediaID string, req *dto.MediaMetadataRequest) (*models.Media, error)
	Delete(ctx context.Context, entity models.MediaEntity, entityID, mediaID string) error
}

type mediaAppServiceImpl struct {
	media    repository.MediaRepository
	maxBytes int64
	audit    auditor
	logger   logger.Logger
}

// NewMediaAppService creates a new instance of MediaAppService accepting
// uploads of at most maxBytes.
func NewMediaAppService(
	repos repository.Repositories,
	maxBytes int64,
	auditService domainservice.AuditService,
	log logger.Logger,
) MediaAppService {
	log = log.WithComponent("media_service")
	return &mediaAppServiceImpl{
		media:    repos.Media,
		maxBytes: maxBytes,
		audit:    newAuditor(auditService, log),
		logger:   log,
	}
}

func (s *mediaAppServiceImpl) MaxUploadBytes() int64 {
	return s.maxBytes
}

func checkEntity(entity models.MediaEntity) error {
	if !entity.Valid() {
		return errors.ErrValidation(map[string]string{"entity": "must be one of: key, taxon, character, state"})
	}
	return nil
}

func (s *mediaAppServiceImpl) Upload(ctx context.Context, entity models.MediaEntity, ref repository.RevisionRef, file repository.Upload) (*models.Media, error) {
	if err := checkEntity(entity); err != nil {
		return nil, err
	}
	if s.maxBytes > 0 && file.Size > s.maxBytes {
		s.logger.Info(ctx, "Upload rejected",
			logger.String("file_name", file.FileName),
			logger.String("size", utils.FormatFileSize(file.Size)),
		)
		return nil, errors.ErrPayloadTooLarge(utils.FormatFileSize(s.maxBytes))
	}
	media, err := s.media.Upload(ctx, entity, ref, file)
	id := ""
	if media != nil {
		id = media.ID
	}
	event := models.NewAuditEvent(constants.AuditEventMediaChanged, string(entity), file.EntityID).
		WithRevision(ref.KeyID, ref.RevisionID).
		WithMetadata(map[string]string{"media_id": id, "file_name": file.FileName})
	s.audit.record(ctx, event, err)
	return media, err
}

func (s *mediaAppServiceImpl) UpdateMetadata(ctx context.Context, entity models.MediaEntity, mediaID string, req *dto.MediaMetadataRequest) (*models.Media, error) {
	if err := checkEntity(entity); err != nil {
		return nil, err
	}
	media, err := s.media.UpdateMetadata(ctx, entity, &models.Media{
		ID:       mediaID,
		Title:    req.Title,
		Creators: req.Creators,
		License:  req.License,
	})
	s.audit.record(ctx, models.NewAuditEvent(constants.AuditEventMediaChanged, string(entity), mediaID), err)
	return media, err
}

func (s *mediaAppServiceImpl) Delete(ctx context.Context, entity models.MediaEntity, entityID, mediaID string) error {
	if err := checkEntity(entity); err != nil {
		return err
	}
	err := s.media.Delete(ctx, entity, entityID, mediaID)
	event := models.NewAuditEvent(constants.AuditEventMediaChanged, string(entity), entityID).WithMessage("deleted: " + mediaID)
	s.audit.record(ctx, event, err)
	return err
}
