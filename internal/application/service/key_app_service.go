package service

import (
	"context"
	"sort"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"golang.org/x/sync/errgroup"

	"github.com/artsapp/builder/internal/application/dto"
	"github.com/artsapp/builder/internal/domain/models"
	"github.com/artsapp/builder/internal/domain/repository"
	domainservice "github.com/artsapp/builder/internal/domain/service"
	"github.com/artsapp/builder/pkg/constants"
	"github.com/artsapp/builder/pkg/errors"
	"github.com/artsapp/builder/pkg/logger"
	"github.com/artsapp/builder/pkg/utils"
)

// KeyAppService defines the application service interface for the key pages:
// listing, overview, creation and key info editing.
// KeyAppService 密钥应用服务接口。
type KeyAppService interface {
	// ListKeys retrieves the keys visible to the session, filtered.
	// ListKeys 列出密钥。
	ListKeys(ctx context.Context, req *dto.ListKeysRequest) ([]models.Key, error)

	// GetKeyOverview loads a key with its revisions and collections.
	// GetKeyOverview 获取密钥概览。
	GetKeyOverview(ctx context.Context, keyID string, acceptedOnly bool) (*dto.KeyOverviewResponse, error)

	// CreateKey creates a key and its initial, empty revision.
	// CreateKey 创建密钥及其初始修订。
	CreateKey(ctx context.Context, req *dto.CreateKeyRequest) (*dto.CreateKeyResponse, error)

	// UpdateKey saves the edited key info when anything changed.
	// UpdateKey 更新密钥信息。
	UpdateKey(ctx context.Context, keyID string, req *dto.UpdateKeyRequest) (*dto.UpdateKeyResponse, error)

	ListEditors(ctx context.Context, keyID string) ([]models.KeyEditor, error)
	AddEditor(ctx context.Context, keyID string, req *dto.EditorRequest) error
	RemoveEditor(ctx context.Context, keyID, userID string) error
}

// keyAppServiceImpl is the concrete implementation of the KeyAppService interface.
type keyAppServiceImpl struct {
	keys          repository.KeyRepository
	revisions     repository.RevisionRepository
	collections   repository.CollectionRepository
	organizations repository.OrganizationRepository
	metrics       domainservice.Metrics
	audit         auditor
	logger        logger.Logger
}

// NewKeyAppService creates a new instance of KeyAppService.
// NewKeyAppService 创建密钥应用服务实例。
func NewKeyAppService(
	repos repository.Repositories,
	auditService domainservice.AuditService,
	metrics domainservice.Metrics,
	log logger.Logger,
) KeyAppService {
	if metrics == nil {
		metrics = domainservice.NoopMetrics{}
	}
	log = log.WithComponent("key_service")
	return &keyAppServiceImpl{
		keys:          repos.Keys,
		revisions:     repos.Revisions,
		collections:   repos.Collections,
		organizations: repos.Organizations,
		metrics:       metrics,
		audit:         newAuditor(auditService, log),
		logger:        log,
	}
}

// ListKeys retrieves the keys visible to the session.
func (s *keyAppServiceImpl) ListKeys(ctx context.Context, req *dto.ListKeysRequest) ([]models.Key, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	keys, err := s.keys.List(ctx)
	if err != nil {
		s.logger.Error(ctx, "Failed to list keys", err)
		return nil, err
	}

	filter := models.KeyFilter{WorkgroupID: req.WorkgroupID, Status: req.Status, IncludeHidden: req.IncludeHidden}
	out := make([]models.Key, 0, len(keys))
	for i := range keys {
		if filter.Match(&keys[i]) {
			out = append(out, keys[i])
		}
	}
	return out, nil
}

// GetKeyOverview loads the key, its revisions and the collections containing it
// concurrently. The organization lookup is best effort.
func (s *keyAppServiceImpl) GetKeyOverview(ctx context.Context, keyID string, acceptedOnly bool) (*dto.KeyOverviewResponse, error) {
	resp := &dto.KeyOverviewResponse{}
	var org *models.Organization
	var lookup domainservice.BestEffortResult

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		key, err := s.keys.Get(gctx, keyID)
		resp.Key = key
		return err
	})
	g.Go(func() error {
		revisions, err := s.revisions.ListByKey(gctx, keyID)
		if err != nil {
			return err
		}
		sort.SliceStable(revisions, func(i, j int) bool {
			return revisionTime(revisions[i]).After(revisionTime(revisions[j]))
		})
		if acceptedOnly {
			revisions = models.AcceptedOnly(revisions)
		}
		resp.Revisions = revisions
		return nil
	})
	g.Go(func() error {
		collections, err := s.collections.List(gctx)
		if err != nil {
			return err
		}
		resp.Collections = []models.Collection{}
		for _, c := range collections {
			if utils.Contains(c.Keys, keyID) {
				resp.Collections = append(resp.Collections, c)
			}
		}
		return nil
	})
	g.Go(func() error {
		org, lookup = s.lookupOrganization(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error(ctx, "Failed to load key overview", err, logger.String("key_id", keyID))
		return nil, err
	}

	resp.Organization = org
	if lookup.Attempted {
		resp.Lookups = append(resp.Lookups, lookup)
	}
	return resp, nil
}

// lookupOrganization resolves the organization of the session user
func (s *keyAppServiceImpl) lookupOrganization(ctx context.Context) (*models.Organization, domainservice.BestEffortResult) {
	const op = "organization_lookup"
	user := AppStateFrom(ctx).User()
	if user == nil || user.OrganizationID == "" {
		return nil, domainservice.Skipped(op)
	}
	orgs, err := s.organizations.List(ctx)
	if err != nil {
		s.logger.Warn(ctx, "Organization lookup failed", logger.Err(err))
		s.metrics.RecordBestEffortFailure(op)
		return nil, domainservice.Outcome(op, err)
	}
	for i := range orgs {
		if orgs[i].ID == user.OrganizationID {
			return &orgs[i], domainservice.Outcome(op, nil)
		}
	}
	return nil, domainservice.Outcome(op, nil)
}

// CreateKey validates the form, creates the key and then its initial revision
// with empty content. The two calls are not rolled back as a unit.
func (s *keyAppServiceImpl) CreateKey(ctx context.Context, req *dto.CreateKeyRequest) (*dto.CreateKeyResponse, error) {
	if err := validateKeyForm(req.Title, req.Languages, true); err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	languages := models.LanguageList(req.Languages)
	key := &models.Key{
		Title:       pick(req.Title, languages),
		Description: pick(req.Description, languages),
		Languages:   languages,
		Status:      req.Status,
		WorkgroupID: req.WorkgroupID,
		GroupID:     req.GroupID,
	}

	created, err := s.keys.Create(ctx, key)
	s.audit.record(ctx, models.NewAuditEvent(constants.AuditEventKeyCreated, "key", keyIDOf(created)), err)
	if err != nil {
		s.logger.Error(ctx, "Failed to create key", err)
		return nil, err
	}

	rev, err := s.revisions.Create(ctx, repository.NewRevision{KeyID: created.ID, Content: models.EmptyContent()})
	revEvent := models.NewAuditEvent(constants.AuditEventRevisionCreated, "revision", revisionIDOf(rev))
	s.audit.record(ctx, revEvent.WithRevision(created.ID, revisionIDOf(rev)), err)
	if err != nil {
		s.logger.Error(ctx, "Key created without initial revision", err, logger.String("key_id", created.ID))
		return nil, err
	}

	s.logger.Info(ctx, "Key created",
		logger.String("key_id", created.ID),
		logger.String("revision_id", rev.ID),
		logger.Any("languages", languages),
	)
	return &dto.CreateKeyResponse{Key: created, Revision: rev}, nil
}

// UpdateKey applies the request to the stored key and saves it only when a
// field changed.
func (s *keyAppServiceImpl) UpdateKey(ctx context.Context, keyID string, req *dto.UpdateKeyRequest) (*dto.UpdateKeyResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	current, err := s.keys.Get(ctx, keyID)
	if err != nil {
		return nil, err
	}

	next := applyKeyUpdate(*current, req)
	if err := validateKeyForm(next.Title, languageSet(next.Languages), req.Languages != nil); err != nil {
		return nil, err
	}

	fields := changedKeyFields(current, &next)
	if len(fields) == 0 {
		s.logger.Debug(ctx, "Key info unchanged", logger.String("key_id", keyID))
		return &dto.UpdateKeyResponse{Key: current, Changed: false}, nil
	}

	updated, err := s.keys.Update(ctx, &next)
	eventType := constants.AuditEventKeyUpdated
	if next.IsHidden() && !current.IsHidden() {
		eventType = constants.AuditEventKeyHidden
	}
	s.audit.record(ctx, models.NewAuditEvent(eventType, "key", keyID).WithRevision(keyID, "").WithMetadata(fields), err)
	if err != nil {
		s.logger.Error(ctx, "Failed to update key", err, logger.String("key_id", keyID))
		return nil, err
	}
	return &dto.UpdateKeyResponse{Key: updated, Changed: true, Fields: fields}, nil
}

func (s *keyAppServiceImpl) ListEditors(ctx context.Context, keyID string) ([]models.KeyEditor, error) {
	return s.keys.ListEditors(ctx, keyID)
}

func (s *keyAppServiceImpl) AddEditor(ctx context.Context, keyID string, req *dto.EditorRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}
	err := s.keys.AddEditor(ctx, models.KeyEditor{KeyID: keyID, UserID: req.UserID, Name: req.Name, Role: req.Role})
	s.audit.record(ctx, models.NewAuditEvent(constants.AuditEventKeyUpdated, "editor", req.UserID).WithRevision(keyID, ""), err)
	return err
}

func (s *keyAppServiceImpl) RemoveEditor(ctx context.Context, keyID, userID string) error {
	err := s.keys.RemoveEditor(ctx, keyID, userID)
	s.audit.record(ctx, models.NewAuditEvent(constants.AuditEventKeyUpdated, "editor", userID).WithRevision(keyID, ""), err)
	return err
}

// ================================================================================
// Key form helpers
// ================================================================================

// validateKeyForm requires a title for every selected language and, when
// requireLanguage is set, at least one selected language.
func validateKeyForm(title models.Translations, selected map[string]bool, requireLanguage bool) error {
	details := make(map[string]string)
	languages := models.LanguageList(selected)
	if requireLanguage && len(languages) == 0 {
		details["languages"] = "select at least one language"
	}
	for _, lang := range languages {
		if strings.TrimSpace(title[lang]) == "" {
			details["title."+lang] = "is required"
		}
	}
	if len(details) > 0 {
		return errors.ErrValidation(details)
	}
	return nil
}

// pick keeps the trimmed, non-empty translations of languages
func pick(t models.Translations, languages []string) models.Translations {
	out := models.Translations{}
	for _, lang := range languages {
		if v := strings.TrimSpace(t[lang]); v != "" {
			out[lang] = v
		}
	}
	return out
}

func languageSet(languages []string) map[string]bool {
	out := make(map[string]bool, len(languages))
	for _, l := range languages {
		out[l] = true
	}
	return out
}

func applyKeyUpdate(key models.Key, req *dto.UpdateKeyRequest) models.Key {
	if req.Languages != nil {
		key.Languages = models.LanguageList(req.Languages)
	}
	if req.Title != nil {
		key.Title = pick(req.Title, key.Languages)
	}
	if req.Description != nil {
		key.Description = pick(req.Description, key.Languages)
	}
	if req.Status != nil {
		key.Status = *req.Status
	}
	if req.Hide {
		key.Status = constants.KeyStatusHidden
	}
	if req.WorkgroupID != nil {
		key.WorkgroupID = *req.WorkgroupID
	}
	if req.GroupID != nil {
		key.GroupID = *req.GroupID
	}
	if req.Creators != nil {
		key.Creators = req.Creators
	}
	if req.Contributors != nil {
		key.Contributors = req.Contributors
	}
	if req.Publishers != nil {
		key.Publishers = req.Publishers
	}
	return key
}

// changedKeyFields names the editable fields that differ between a and b
func changedKeyFields(a, b *models.Key) []string {
	opt := cmpopts.EquateEmpty()
	fields := []struct {
		name string
		x, y interface{}
	}{
		{"title", a.Title, b.Title},
		{"description", a.Description, b.Description},
		{"languages", a.Languages, b.Languages},
		{"status", a.Status, b.Status},
		{"workgroupId", a.WorkgroupID, b.WorkgroupID},
		{"groupId", a.GroupID, b.GroupID},
		{"creators", a.Creators, b.Creators},
		{"contributors", a.Contributors, b.Contributors},
		{"publishers", a.Publishers, b.Publishers},
	}
	var changed []string
	for _, f := range fields {
		if !cmp.Equal(f.x, f.y, opt) {
			changed = append(changed, f.name)
		}
	}
	return changed
}

func keyIDOf(k *models.Key) string {
	if k == nil {
		return ""
	}
	return k.ID
}

func revisionIDOf(r *models.Revision) string {
	if r == nil {
		return ""
	}
	return r.ID
}
