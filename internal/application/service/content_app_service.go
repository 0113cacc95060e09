package service

import (
	"context"
	"strings"

	"github.com/artsapp/builder/internal/application/dto"
	"github.com/artsapp/builder/internal/domain/models"
	"github.com/artsapp/builder/internal/domain/repository"
	domainservice "github.com/artsapp/builder/internal/domain/service"
	"github.com/artsapp/builder/pkg/constants"
	"github.com/artsapp/builder/pkg/errors"
	"github.com/artsapp/builder/pkg/logger"
)

const premiseCleanup = "premise_cleanup"

// ContentAppService defines the application service interface for taxa,
// characters and states. Every change answers the revision it produced.
// ContentAppService 内容应用服务接口。
type ContentAppService interface {
	CreateTaxon(ctx context.Context, ref repository.RevisionRef, req *dto.TaxonRequest) (*models.Revision, error)
	UpdateTaxon(ctx context.Context, ref repository.RevisionRef, taxonID string, req *dto.TaxonRequest) (*models.Revision, error)
	DeleteTaxon(ctx context.Context, ref repository.RevisionRef, taxonID string) (*models.Revision, error)

	CreateCharacter(ctx context.Context, ref repository.RevisionRef, req *dto.CharacterRequest) (*models.Revision, error)
	UpdateCharacter(ctx context.Context, ref repository.RevisionRef, characterID string, req *dto.CharacterRequest) (*models.Revision, error)
	DeleteCharacter(ctx context.Context, ref repository.RevisionRef, characterID string) (*models.Revision, error)

	// UpdateStates replaces a character's states. When states were removed, the
	// premises referencing them are cleaned up on a best-effort basis.
	// UpdateStates 更新特征状态并尽力清理逻辑前提。
	UpdateStates(ctx context.Context, ref repository.RevisionRef, characterID string, req *dto.StatesRequest) (*dto.StatesResponse, error)
}

type contentAppServiceImpl struct {
	revisions  repository.RevisionRepository
	taxa       repository.TaxonRepository
	characters repository.CharacterRepository
	metrics    domainservice.Metrics
	audit      auditor
	logger     logger.Logger
}

// NewContentAppService creates a new instance of ContentAppService.
func NewContentAppService(
	repos repository.Repositories,
	auditService domainservice.AuditService,
	metrics domainservice.Metrics,
	log logger.Logger,
) ContentAppService {
	if metrics == nil {
		metrics = domainservice.NoopMetrics{}
	}
	log = log.WithComponent("content_service")
	return &contentAppServiceImpl{
		revisions:  repos.Revisions,
		taxa:       repos.Taxa,
		characters: repos.Characters,
		metrics:    metrics,
		audit:      newAuditor(auditService, log),
		logger:     log,
	}
}

// ================================================================================
// Taxa
// ================================================================================

func validateTaxon(t models.Taxon) error {
	if strings.TrimSpace(t.ScientificName) == "" {
		return errors.ErrValidation(map[string]string{"taxon.scientificName": "is required"})
	}
	return nil
}

func (s *contentAppServiceImpl) CreateTaxon(ctx context.Context, ref repository.RevisionRef, req *dto.TaxonRequest) (*models.Revision, error) {
	if err := validateTaxon(req.Taxon); err != nil {
		return nil, err
	}
	taxon := req.Taxon
	taxon.ID = ""
	rev, err := s.taxa.Create(ctx, ref, taxon)
	s.recordContent(ctx, constants.AuditEventTaxonChanged, "taxon", "", ref, rev, err)
	return rev, err
}

func (s *contentAppServiceImpl) UpdateTaxon(ctx context.Context, ref repository.RevisionRef, taxonID string, req *dto.TaxonRequest) (*models.Revision, error) {
	if err := validateTaxon(req.Taxon); err != nil {
		return nil, err
	}
	taxon := req.Taxon
	taxon.ID = taxonID
	rev, err := s.taxa.Update(ctx, ref, taxon)
	s.recordContent(ctx, constants.AuditEventTaxonChanged, "taxon", taxonID, ref, rev, err)
	return rev, err
}

func (s *contentAppServiceImpl) DeleteTaxon(ctx context.Context, ref repository.RevisionRef, taxonID string) (*models.Revision, error) {
	rev, err := s.taxa.Delete(ctx, ref, taxonID)
	s.recordContent(ctx, constants.AuditEventTaxonChanged, "taxon", taxonID, ref, rev, err)
	return rev, err
}

// ================================================================================
// Characters
// ================================================================================

func validateCharacter(c models.Character) error {
	details := make(map[string]string)
	if !c.Type.Valid() {
		details["character.type"] = "must be one of: EXCLUSIVE, MULTISTATE, NUMERICAL"
	}
	if len(c.Title) == 0 {
		details["character.title"] = "is required"
	}
	if c.Type == constants.CharacterTypeNumerical {
		if r, ok := c.Range(); ok && r.Min > r.Max {
			details["character.states.min"] = "must not be greater than max"
		}
	}
	if len(details) > 0 {
		return errors.ErrValidation(details)
	}
	return nil
}

func (s *contentAppServiceImpl) CreateCharacter(ctx context.Context, ref repository.RevisionRef, req *dto.CharacterRequest) (*models.Revision, error) {
	if err := validateCharacter(req.Character); err != nil {
		return nil, err
	}
	character := req.Character
	character.ID = ""
	rev, err := s.characters.Create(ctx, ref, character)
	s.recordContent(ctx, constants.AuditEventCharacterChanged, "character", "", ref, rev, err)
	return rev, err
}

func (s *contentAppServiceImpl) UpdateCharacter(ctx context.Context, ref repository.RevisionRef, characterID string, req *dto.CharacterRequest) (*models.Revision, error) {
	if err := validateCharacter(req.Character); err != nil {
		return nil, err
	}
	character := req.Character
	character.ID = characterID
	rev, err := s.characters.Update(ctx, ref, character)
	s.recordContent(ctx, constants.AuditEventCharacterChanged, "character", characterID, ref, rev, err)
	return rev, err
}

func (s *contentAppServiceImpl) DeleteCharacter(ctx context.Context, ref repository.RevisionRef, characterID string) (*models.Revision, error) {
	rev, err := s.characters.Delete(ctx, ref, characterID)
	s.recordContent(ctx, constants.AuditEventCharacterChanged, "character", characterID, ref, rev, err)
	return rev, err
}

// UpdateStates saves the new states, then strips premise conditions that point
// at removed states. A failed cleanup is reported, not returned.
func (s *contentAppServiceImpl) UpdateStates(ctx context.Context, ref repository.RevisionRef, characterID string, req *dto.StatesRequest) (*dto.StatesResponse, error) {
	base, err := loadRevision(ctx, s.revisions, ref.KeyID, ref.RevisionID)
	if err != nil {
		return nil, err
	}
	character, ok := base.Content.FindCharacter(characterID)
	if !ok {
		return nil, errors.ErrNotFound(errors.EntityCharacter, characterID)
	}
	if character.Type.Categorical() != (req.States.Range == nil) {
		return nil, errors.ErrValidation(map[string]string{"states": "do not match the character type"})
	}

	rev, err := s.characters.UpdateStates(ctx, ref, characterID, req.States)
	s.recordContent(ctx, constants.AuditEventStatesChanged, "character", characterID, ref, rev, err)
	if err != nil {
		return nil, err
	}

	resp := &dto.StatesResponse{Revision: rev, Cleanup: domainservice.Skipped(premiseCleanup)}
	if !character.Type.Categorical() {
		return resp, nil
	}
	resp.RemovedStates = domainservice.RemovedStates(character.States.List, req.States.List)
	if len(resp.RemovedStates) == 0 {
		return resp, nil
	}

	// an update answered without a body leaves the caller's revision current
	next := repository.RevisionRef{KeyID: ref.KeyID, RevisionID: revisionIDOf(rev)}
	if next.RevisionID == "" {
		next.RevisionID = ref.RevisionID
	}
	cleaned, err := s.characters.CleanupPremises(ctx, next, characterID, resp.RemovedStates)
	resp.Cleanup = domainservice.Outcome(premiseCleanup, err)
	event := models.NewAuditEvent(constants.AuditEventPremiseCleanup, "character", characterID).
		WithRevision(ref.KeyID, next.RevisionID).
		WithMetadata(map[string][]string{"removed_states": resp.RemovedStates})
	s.audit.record(ctx, event, err)
	if err != nil {
		s.metrics.RecordBestEffortFailure(premiseCleanup)
		s.logger.Warn(ctx, "Premise cleanup failed after state update",
			logger.String("revision_id", next.RevisionID),
			logger.String("character_id", characterID),
			logger.Any("removed_states", resp.RemovedStates),
			logger.Err(err),
		)
		return resp, nil
	}
	if cleaned != nil {
		resp.Revision = cleaned
	}
	return resp, nil
}

func (s *contentAppServiceImpl) recordContent(ctx context.Context, eventType constants.AuditEventType, entity, entityID string, ref repository.RevisionRef, rev *models.Revision, err error) {
	event := models.NewAuditEvent(eventType, entity, entityID).WithRevision(ref.KeyID, revisionIDOf(rev))
	s.audit.record(ctx, event, err)
}
