package service

import (
	"context"
	"fmt"
	"time"

	"github.com/artsapp/builder/internal/application/dto"
	"github.com/artsapp/builder/internal/domain/models"
	"github.com/artsapp/builder/internal/domain/repository"
	domainservice "github.com/artsapp/builder/internal/domain/service"
	"github.com/artsapp/builder/pkg/constants"
	"github.com/artsapp/builder/pkg/errors"
	"github.com/artsapp/builder/pkg/logger"
	"github.com/artsapp/builder/pkg/utils"
)

// RevisionAppService defines the application service interface for revisions
// and the build-key page.
// RevisionAppService 修订应用服务接口。
type RevisionAppService interface {
	ListRevisions(ctx context.Context, keyID string, acceptedOnly bool) ([]models.Revision, error)
	GetRevision(ctx context.Context, keyID, revisionID string) (*models.Revision, error)

	// BuildKey applies statement matrix edits to a base revision and stores the
	// result as a new revision. Nothing is stored when a statement has no value.
	// BuildKey 保存构建结果为新修订。
	BuildKey(ctx context.Context, keyID string, req *dto.BuildKeyRequest) (*dto.BuildKeyResponse, error)

	// Candidates lists the characters a taxon can get a statement for.
	// Candidates 列出可用特征。
	Candidates(ctx context.Context, keyID, revisionID, taxonID string) (*dto.CandidatesResponse, error)

	SetStatus(ctx context.Context, keyID, revisionID string, req *dto.RevisionStatusRequest) error
	SetMode(ctx context.Context, keyID, revisionID string, req *dto.RevisionModeRequest) error
	SetNote(ctx context.Context, keyID, revisionID string, req *dto.RevisionNoteRequest) error

	// Diff compares the content of two revisions of a key.
	// Diff 比较两个修订。
	Diff(ctx context.Context, keyID, revisionID, otherID string) (domainservice.ContentDiff, error)
}

type revisionAppServiceImpl struct {
	revisions repository.RevisionRepository
	metrics   domainservice.Metrics
	audit     auditor
	logger    logger.Logger
}

// NewRevisionAppService creates a new instance of RevisionAppService.
func NewRevisionAppService(
	repos repository.Repositories,
	auditService domainservice.AuditService,
	metrics domainservice.Metrics,
	log logger.Logger,
) RevisionAppService {
	if metrics == nil {
		metrics = domainservice.NoopMetrics{}
	}
	log = log.WithComponent("revision_service")
	return &revisionAppServiceImpl{
		revisions: repos.Revisions,
		metrics:   metrics,
		audit:     newAuditor(auditService, log),
		logger:    log,
	}
}

func revisionTime(r models.Revision) time.Time {
	if r.CreatedAt == nil {
		return time.Time{}
	}
	return *r.CreatedAt
}

func (s *revisionAppServiceImpl) ListRevisions(ctx context.Context, keyID string, acceptedOnly bool) ([]models.Revision, error) {
	revisions, err := s.revisions.ListByKey(ctx, keyID)
	if err != nil {
		return nil, err
	}
	if acceptedOnly {
		return models.AcceptedOnly(revisions), nil
	}
	return revisions, nil
}

// GetRevision loads a revision and checks that it belongs to keyID
func (s *revisionAppServiceImpl) GetRevision(ctx context.Context, keyID, revisionID string) (*models.Revision, error) {
	return loadRevision(ctx, s.revisions, keyID, revisionID)
}

func loadRevision(ctx context.Context, revisions repository.RevisionRepository, keyID, revisionID string) (*models.Revision, error) {
	rev, err := revisions.Get(ctx, revisionID)
	if err != nil {
		return nil, err
	}
	if keyID != "" && rev.KeyID != keyID {
		return nil, errors.ErrNotFound(errors.EntityRevision, revisionID)
	}
	return rev, nil
}

// BuildKey is the save of the build-key page
func (s *revisionAppServiceImpl) BuildKey(ctx context.Context, keyID string, req *dto.BuildKeyRequest) (*dto.BuildKeyResponse, error) {
	start := time.Now()
	resp, err := s.buildKey(ctx, keyID, req)

	code := ""
	if be, ok := errors.AsBuilderError(err); ok {
		code = string(be.Code())
	} else if err != nil {
		code = string(errors.CodeInternal)
	}
	s.metrics.RecordRevisionBuild(err == nil, code, time.Since(start))
	return resp, err
}

func (s *revisionAppServiceImpl) buildKey(ctx context.Context, keyID string, req *dto.BuildKeyRequest) (*dto.BuildKeyResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	base, err := loadRevision(ctx, s.revisions, keyID, req.BaseRevisionID)
	if err != nil {
		return nil, err
	}

	content := base.Content
	if req.Content != nil {
		content = *req.Content
	}
	matrix := domainservice.NewStatementMatrix(content)
	for i, op := range req.Operations {
		if err := applyMatrixOperation(matrix, op); err != nil {
			s.logger.Warn(ctx, "Rejected build operation",
				logger.Int("index", i),
				logger.String("op", op.Op),
				logger.Err(err),
			)
			return nil, err
		}
	}
	if err := matrix.Validate(); err != nil {
		s.logger.Info(ctx, "Build not saved: statement without value", logger.String("key_id", keyID))
		return nil, err
	}

	mode := req.Mode
	if mode == 0 {
		mode = base.Mode
	}
	created, err := s.revisions.Create(ctx, repository.NewRevision{
		KeyID:   keyID,
		Content: matrix.Snapshot(),
		Mode:    mode,
		Note:    req.Note,
	})
	event := models.NewAuditEvent(constants.AuditEventRevisionCreated, "revision", revisionIDOf(created)).
		WithRevision(keyID, revisionIDOf(created)).
		WithMetadata(map[string]string{"base_revision_id": base.ID})
	s.audit.record(ctx, event, err)
	if err != nil {
		s.logger.Error(ctx, "Failed to create revision", err, logger.String("key_id", keyID))
		return nil, err
	}

	s.logger.Info(ctx, "Revision created",
		logger.String("key_id", keyID),
		logger.String("base_revision_id", base.ID),
		logger.String("revision_id", created.ID),
	)
	return &dto.BuildKeyResponse{
		Revision: created,
		Diff:     domainservice.DiffContent(base.Content, created.Content),
	}, nil
}

func applyMatrixOperation(m *domainservice.StatementMatrix, op dto.MatrixOperation) error {
	switch op.Op {
	case dto.MatrixToggle:
		return m.Toggle(op.TaxonID, op.CharacterID, op.Enabled)
	case dto.MatrixSet:
		return m.SetValue(op.TaxonID, op.CharacterID, op.Value)
	case dto.MatrixMove:
		return m.MoveCharacter(op.From, op.To)
	default:
		return errors.ErrInvalidRequest(fmt.Sprintf("unknown matrix operation %q", op.Op))
	}
}

func (s *revisionAppServiceImpl) Candidates(ctx context.Context, keyID, revisionID, taxonID string) (*dto.CandidatesResponse, error) {
	rev, err := loadRevision(ctx, s.revisions, keyID, revisionID)
	if err != nil {
		return nil, err
	}
	chars, err := domainservice.NewStatementMatrix(rev.Content).CandidateCharacters(taxonID)
	if err != nil {
		return nil, err
	}
	return &dto.CandidatesResponse{TaxonID: taxonID, Characters: chars}, nil
}

func (s *revisionAppServiceImpl) SetStatus(ctx context.Context, keyID, revisionID string, req *dto.RevisionStatusRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}
	if _, err := loadRevision(ctx, s.revisions, keyID, revisionID); err != nil {
		return err
	}
	err := s.revisions.SetStatus(ctx, revisionID, req.Status)
	event := models.NewAuditEvent(constants.AuditEventRevisionStatusChanged, "revision", revisionID).
		WithRevision(keyID, revisionID).
		WithMessage(string(req.Status))
	s.audit.record(ctx, event, err)
	return err
}

func (s *revisionAppServiceImpl) SetMode(ctx context.Context, keyID, revisionID string, req *dto.RevisionModeRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}
	if _, err := loadRevision(ctx, s.revisions, keyID, revisionID); err != nil {
		return err
	}
	err := s.revisions.SetMode(ctx, revisionID, req.Mode)
	event := models.NewAuditEvent(constants.AuditEventRevisionModeChanged, "revision", revisionID).
		WithRevision(keyID, revisionID).
		WithMessage(fmt.Sprint(int(req.Mode)))
	s.audit.record(ctx, event, err)
	return err
}

func (s *revisionAppServiceImpl) SetNote(ctx context.Context, keyID, revisionID string, req *dto.RevisionNoteRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}
	if _, err := loadRevision(ctx, s.revisions, keyID, revisionID); err != nil {
		return err
	}
	return s.revisions.SetNote(ctx, revisionID, req.Note)
}

func (s *revisionAppServiceImpl) Diff(ctx context.Context, keyID, revisionID, otherID string) (domainservice.ContentDiff, error) {
	base, err := loadRevision(ctx, s.revisions, keyID, revisionID)
	if err != nil {
		return domainservice.ContentDiff{}, err
	}
	other, err := loadRevision(ctx, s.revisions, keyID, otherID)
	if err != nil {
		return domainservice.ContentDiff{}, err
	}
	return domainservice.DiffContent(base.Content, other.Content), nil
}
