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
	"github.com/artsapp/builder/pkg/utils"
)

// OrganizationAppService defines the application service interface for
// collections, key groups, workgroups and organizations.
// OrganizationAppService 组织应用服务接口。
type OrganizationAppService interface {
	ListCollections(ctx context.Context) ([]models.Collection, error)
	CreateCollection(ctx context.Context, req *dto.CollectionRequest) (*models.Collection, error)
	UpdateCollection(ctx context.Context, id string, req *dto.CollectionRequest) (*models.Collection, error)
	DeleteCollection(ctx context.Context, id string) error
	AddCollectionKey(ctx context.Context, collectionID string, req *dto.CollectionKeyRequest) error
	RemoveCollectionKey(ctx context.Context, collectionID, keyID string) error

	ListGroups(ctx context.Context) ([]models.Group, error)
	// CreateGroup and UpdateGroup reject a parent that would make the hierarchy cyclic.
	CreateGroup(ctx context.Context, req *dto.GroupRequest) (*models.Group, error)
	UpdateGroup(ctx context.Context, id string, req *dto.GroupRequest) (*models.Group, error)
	DeleteGroup(ctx context.Context, id string) error

	ListWorkgroups(ctx context.Context) ([]models.Workgroup, error)
	CreateWorkgroup(ctx context.Context, req *dto.WorkgroupRequest) (*models.Workgroup, error)
	UpdateWorkgroup(ctx context.Context, id string, req *dto.WorkgroupRequest) (*models.Workgroup, error)
	DeleteWorkgroup(ctx context.Context, id string) error
	AddWorkgroupUser(ctx context.Context, workgroupID string, req *dto.WorkgroupUserRequest) error
	RemoveWorkgroupUser(ctx context.Context, workgroupID, userID string) error

	ListOrganizations(ctx context.Context) ([]models.Organization, error)
}

type organizationAppServiceImpl struct {
	collections   repository.CollectionRepository
	groups        repository.GroupRepository
	workgroups    repository.WorkgroupRepository
	organizations repository.OrganizationRepository
	audit         auditor
	logger        logger.Logger
}

// NewOrganizationAppService creates a new instance of OrganizationAppService.
func NewOrganizationAppService(
	repos repository.Repositories,
	auditService domainservice.AuditService,
	log logger.Logger,
) OrganizationAppService {
	log = log.WithComponent("organization_service")
	return &organizationAppServiceImpl{
		collections:   repos.Collections,
		groups:        repos.Groups,
		workgroups:    repos.Workgroups,
		organizations: repos.Organizations,
		audit:         newAuditor(auditService, log),
		logger:        log,
	}
}

// requireName checks that at least one language carries a name
func requireName(name models.Translations) error {
	for _, lang := range constants.SupportedLanguages {
		if strings.TrimSpace(name[lang]) != "" {
			return nil
		}
	}
	return errors.ErrValidation(map[string]string{"name": "is required"})
}

// ================================================================================
// Collections
// ================================================================================

func (s *organizationAppServiceImpl) ListCollections(ctx context.Context) ([]models.Collection, error) {
	return s.collections.List(ctx)
}

func (s *organizationAppServiceImpl) CreateCollection(ctx context.Context, req *dto.CollectionRequest) (*models.Collection, error) {
	if err := requireName(req.Name); err != nil {
		return nil, err
	}
	created, err := s.collections.Create(ctx, &models.Collection{Name: req.Name, Description: req.Description, WorkgroupID: req.WorkgroupID})
	id := ""
	if created != nil {
		id = created.ID
	}
	s.audit.record(ctx, models.NewAuditEvent(constants.AuditEventCollectionChanged, "collection", id), err)
	return created, err
}

func (s *organizationAppServiceImpl) UpdateCollection(ctx context.Context, id string, req *dto.CollectionRequest) (*models.Collection, error) {
	if err := requireName(req.Name); err != nil {
		return nil, err
	}
	updated, err := s.collections.Update(ctx, &models.Collection{ID: id, Name: req.Name, Description: req.Description, WorkgroupID: req.WorkgroupID})
	s.audit.record(ctx, models.NewAuditEvent(constants.AuditEventCollectionChanged, "collection", id), err)
	return updated, err
}

func (s *organizationAppServiceImpl) DeleteCollection(ctx context.Context, id string) error {
	err := s.collections.Delete(ctx, id)
	s.audit.record(ctx, models.NewAuditEvent(constants.AuditEventCollectionChanged, "collection", id).WithMessage("deleted"), err)
	return err
}

func (s *organizationAppServiceImpl) AddCollectionKey(ctx context.Context, collectionID string, req *dto.CollectionKeyRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}
	err := s.collections.AddKey(ctx, collectionID, req.KeyID)
	event := models.NewAuditEvent(constants.AuditEventCollectionChanged, "collection", collectionID).WithRevision(req.KeyID, "")
	s.audit.record(ctx, event, err)
	return err
}

func (s *organizationAppServiceImpl) RemoveCollectionKey(ctx context.Context, collectionID, keyID string) error {
	err := s.collections.RemoveKey(ctx, collectionID, keyID)
	event := models.NewAuditEvent(constants.AuditEventCollectionChanged, "collection", collectionID).WithRevision(keyID, "")
	s.audit.record(ctx, event, err)
	return err
}

// ================================================================================
// Groups
// ================================================================================

func (s *organizationAppServiceImpl) ListGroups(ctx context.Context) ([]models.Group, error) {
	return s.groups.List(ctx)
}

func (s *organizationAppServiceImpl) checkParent(ctx context.Context, groupID, parentID string) error {
	if parentID == "" {
		return nil
	}
	groups, err := s.groups.List(ctx)
	if err != nil {
		return err
	}
	found := false
	for _, g := range groups {
		if g.ID == parentID {
			found = true
			break
		}
	}
	if !found {
		return errors.ErrNotFound(errors.EntityGroup, parentID)
	}
	if models.GroupCreatesCycle(groups, groupID, parentID) {
		return errors.ErrValidation(map[string]string{"parentId": "would make the group its own ancestor"})
	}
	return nil
}

func (s *organizationAppServiceImpl) CreateGroup(ctx context.Context, req *dto.GroupRequest) (*models.Group, error) {
	if err := requireName(req.Name); err != nil {
		return nil, err
	}
	if err := s.checkParent(ctx, "", req.ParentID); err != nil {
		return nil, err
	}
	created, err := s.groups.Create(ctx, &models.Group{Name: req.Name, Description: req.Description, ParentID: req.ParentID})
	id := ""
	if created != nil {
		id = created.ID
	}
	s.audit.record(ctx, models.NewAuditEvent(constants.AuditEventGroupChanged, "group", id), err)
	return created, err
}

func (s *organizationAppServiceImpl) UpdateGroup(ctx context.Context, id string, req *dto.GroupRequest) (*models.Group, error) {
	if err := requireName(req.Name); err != nil {
		return nil, err
	}
	if err := s.checkParent(ctx, id, req.ParentID); err != nil {
		return nil, err
	}
	updated, err := s.groups.Update(ctx, &models.Group{ID: id, Name: req.Name, Description: req.Description, ParentID: req.ParentID})
	s.audit.record(ctx, models.NewAuditEvent(constants.AuditEventGroupChanged, "group", id), err)
	return updated, err
}

func (s *organizationAppServiceImpl) DeleteGroup(ctx context.Context, id string) error {
	err := s.groups.Delete(ctx, id)
	s.audit.record(ctx, models.NewAuditEvent(constants.AuditEventGroupChanged, "group", id).WithMessage("deleted"), err)
	return err
}

// ================================================================================
// Workgroups
// ================================================================================

func (s *organizationAppServiceImpl) ListWorkgroups(ctx context.Context) ([]models.Workgroup, error) {
	return s.workgroups.List(ctx)
}

func (s *organizationAppServiceImpl) CreateWorkgroup(ctx context.Context, req *dto.WorkgroupRequest) (*models.Workgroup, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	created, err := s.workgroups.Create(ctx, &models.Workgroup{Name: strings.TrimSpace(req.Name), Description: req.Description})
	id := ""
	if created != nil {
		id = created.ID
	}
	s.audit.record(ctx, models.NewAuditEvent(constants.AuditEventWorkgroupChanged, "workgroup", id), err)
	return created, err
}

func (s *organizationAppServiceImpl) UpdateWorkgroup(ctx context.Context, id string, req *dto.WorkgroupRequest) (*models.Workgroup, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	updated, err := s.workgroups.Update(ctx, &models.Workgroup{ID: id, Name: strings.TrimSpace(req.Name), Description: req.Description})
	s.audit.record(ctx, models.NewAuditEvent(constants.AuditEventWorkgroupChanged, "workgroup", id), err)
	return updated, err
}

func (s *organizationAppServiceImpl) DeleteWorkgroup(ctx context.Context, id string) error {
	err := s.workgroups.Delete(ctx, id)
	s.audit.record(ctx, models.NewAuditEvent(constants.AuditEventWorkgroupChanged, "workgroup", id).WithMessage("deleted"), err)
	return err
}

func (s *organizationAppServiceImpl) AddWorkgroupUser(ctx context.Context, workgroupID string, req *dto.WorkgroupUserRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}
	err := s.workgroups.AddUser(ctx, workgroupID, models.WorkgroupUser{UserID: req.UserID, Name: req.Name, Role: req.Role})
	event := models.NewAuditEvent(constants.AuditEventWorkgroupChanged, "workgroup", workgroupID).WithMessage("user added: " + req.UserID)
	s.audit.record(ctx, event, err)
	return err
}

func (s *organizationAppServiceImpl) RemoveWorkgroupUser(ctx context.Context, workgroupID, userID string) error {
	err := s.workgroups.RemoveUser(ctx, workgroupID, userID)
	event := models.NewAuditEvent(constants.AuditEventWorkgroupChanged, "workgroup", workgroupID).WithMessage("user removed: " + userID)
	s.audit.record(ctx, event, err)
	return err
}

func (s *organizationAppServiceImpl) ListOrganizations(ctx context.Context) ([]models.Organization, error) {
	return s.organizations.List(ctx)
}
