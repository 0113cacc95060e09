package service

import (
	"context"
	"fmt"

	"github.com/artsapp/builder/internal/application/dto"
	"github.com/artsapp/builder/internal/domain/models"
	"github.com/artsapp/builder/internal/domain/repository"
	domainservice "github.com/artsapp/builder/internal/domain/service"
	"github.com/artsapp/builder/pkg/constants"
	"github.com/artsapp/builder/pkg/errors"
	"github.com/artsapp/builder/pkg/logger"
	"github.com/artsapp/builder/pkg/utils"
)

// PremiseAppService defines the application service interface for the logical
// premise editor of a character.
// PremiseAppService 逻辑前提应用服务接口。
type PremiseAppService interface {
	// GetPremise loads the premise of a character as editor groups.
	// GetPremise 获取逻辑前提。
	GetPremise(ctx context.Context, ref repository.RevisionRef, characterID string) (*dto.PremiseResponse, error)

	// EditPremise applies editor operations and saves the premise when it changed.
	// EditPremise 编辑并保存逻辑前提。
	EditPremise(ctx context.Context, ref repository.RevisionRef, characterID string, req *dto.EditPremiseRequest) (*dto.PremiseResponse, error)
}

type premiseAppServiceImpl struct {
	revisions  repository.RevisionRepository
	characters repository.CharacterRepository
	metrics    domainservice.Metrics
	audit      auditor
	logger     logger.Logger
}

// NewPremiseAppService creates a new instance of PremiseAppService.
func NewPremiseAppService(
	repos repository.Repositories,
	auditService domainservice.AuditService,
	metrics domainservice.Metrics,
	log logger.Logger,
) PremiseAppService {
	if metrics == nil {
		metrics = domainservice.NoopMetrics{}
	}
	log = log.WithComponent("premise_service")
	return &premiseAppServiceImpl{
		revisions:  repos.Revisions,
		characters: repos.Characters,
		metrics:    metrics,
		audit:      newAuditor(auditService, log),
		logger:     log,
	}
}

func (s *premiseAppServiceImpl) load(ctx context.Context, ref repository.RevisionRef, characterID string) (*domainservice.PremiseBuilder, error) {
	rev, err := loadRevision(ctx, s.revisions, ref.KeyID, ref.RevisionID)
	if err != nil {
		return nil, err
	}
	character, ok := rev.Content.FindCharacter(characterID)
	if !ok {
		return nil, errors.ErrNotFound(errors.EntityCharacter, characterID)
	}
	return domainservice.NewPremiseBuilder(*character, rev.Content.Characters), nil
}

func (s *premiseAppServiceImpl) GetPremise(ctx context.Context, ref repository.RevisionRef, characterID string) (*dto.PremiseResponse, error) {
	b, err := s.load(ctx, ref, characterID)
	if err != nil {
		return nil, err
	}
	return premiseView(b), nil
}

func (s *premiseAppServiceImpl) EditPremise(ctx context.Context, ref repository.RevisionRef, characterID string, req *dto.EditPremiseRequest) (*dto.PremiseResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	b, err := s.load(ctx, ref, characterID)
	if err != nil {
		return nil, err
	}
	for i, op := range req.Operations {
		if err := applyPremiseOperation(b, op); err != nil {
			s.logger.Warn(ctx, "Rejected premise operation",
				logger.Int("index", i),
				logger.String("op", op.Op),
				logger.Err(err),
			)
			return nil, err
		}
	}
	resp := premiseView(b)
	if !resp.Changed || req.DryRun {
		if !req.DryRun {
			s.metrics.RecordPremiseSave(false, true)
		}
		return resp, nil
	}

	rev, err := s.characters.UpdatePremise(ctx, ref, characterID, resp.LogicalPremise)
	s.metrics.RecordPremiseSave(true, err == nil)
	event := models.NewAuditEvent(constants.AuditEventPremiseUpdated, "character", characterID).
		WithRevision(ref.KeyID, revisionIDOf(rev))
	s.audit.record(ctx, event, err)
	if err != nil {
		s.logger.Error(ctx, "Failed to save premise", err,
			logger.String("revision_id", ref.RevisionID),
			logger.String("character_id", characterID),
		)
		return nil, err
	}

	resp.Saved = true
	resp.Revision = rev
	return resp, nil
}

func applyPremiseOperation(b *domainservice.PremiseBuilder, op dto.PremiseOperation) error {
	switch op.Op {
	case dto.PremiseSetOperator:
		return b.SetOperator(op.Operator)
	case dto.PremiseToggleOperator:
		b.ToggleOperator()
	case dto.PremiseClear:
		b.Clear()
	case dto.PremiseRemoveGroup:
		return b.RemoveGroup(op.Group)
	case dto.PremiseEditGroup:
		ed, err := b.OpenGroup(op.Group)
		if err != nil {
			return err
		}
		for _, e := range op.Edits {
			if err := applyGroupEdit(ed, e); err != nil {
				return err
			}
		}
		b.CloseGroup(ed)
	default:
		return errors.ErrInvalidRequest(fmt.Sprintf("unknown premise operation %q", op.Op))
	}
	return nil
}

func applyGroupEdit(ed *domainservice.GroupEditor, e dto.GroupEdit) error {
	switch e.Op {
	case dto.GroupSelectStates:
		return ed.SelectStates(e.CharacterID, e.StateIDs, e.Not)
	case dto.GroupSelectRange:
		return ed.SelectRange(e.CharacterID, e.Min, e.Max)
	case dto.GroupToggleNot:
		return ed.ToggleNot(e.Row)
	case dto.GroupRemoveRow:
		return ed.RemoveRow(e.Row)
	default:
		return errors.ErrInvalidRequest(fmt.Sprintf("unknown group edit %q", e.Op))
	}
}

func premiseView(b *domainservice.PremiseBuilder) *dto.PremiseResponse {
	resp := &dto.PremiseResponse{
		CharacterID:    b.CharacterID(),
		Operator:       b.Operator(),
		Groups:         make([]dto.PremiseGroupView, 0, b.GroupCount()),
		LogicalPremise: b.Serialize(),
		Changed:        b.Changed(),
	}
	for i := 0; i < b.GroupCount(); i++ {
		resp.Groups = append(resp.Groups, dto.PremiseGroupView{
			Index:    i,
			Operator: b.GroupOperator(i),
			Rows:     b.Rows(i),
		})
	}
	return resp
}
