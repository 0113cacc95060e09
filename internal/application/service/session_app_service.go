package service

import (
	"context"
	"net/url"
	"strings"

	"github.com/artsapp/builder/internal/application/dto"
	"github.com/artsapp/builder/internal/domain/models"
	"github.com/artsapp/builder/internal/domain/repository"
	domainservice "github.com/artsapp/builder/internal/domain/service"
	"github.com/artsapp/builder/internal/i18n"
	"github.com/artsapp/builder/pkg/constants"
	"github.com/artsapp/builder/pkg/errors"
	"github.com/artsapp/builder/pkg/logger"
	"github.com/artsapp/builder/pkg/utils"
)

const logoutLookup = "logout_url"

// SessionAppService defines the application service interface for the
// language and user state of a browser session.
// SessionAppService 会话应用服务接口。
type SessionAppService interface {
	// Load returns the stored state of a session, or a fresh state.
	// Load 加载会话状态。
	Load(ctx context.Context, sessionID string) (models.AppState, error)

	// Refresh asks the key API who is signed in and stores the answer.
	// Refresh 刷新当前用户。
	Refresh(ctx context.Context, sessionID string, state models.AppState) (models.AppState, error)

	// SetLanguage selects and stores the session language.
	SetLanguage(ctx context.Context, sessionID string, state models.AppState, req *dto.LanguageRequest) (models.AppState, error)

	// SignInURL returns where the browser logs in; returnTo is passed along.
	SignInURL(returnTo string) string

	// SignOut forgets the user and fetches the identity provider logout URL
	// on a best-effort basis.
	// SignOut 退出登录。
	SignOut(ctx context.Context, sessionID string, state models.AppState) (*dto.SignOutResponse, models.AppState, error)

	// Describe renders a state for the client
	Describe(state models.AppState) *dto.SessionResponse

	// Dictionary returns the texts of the state's language below section
	Dictionary(state models.AppState, section string) i18n.Dictionary

	// Permitted applies the permission gate to the session user
	Permitted(state models.AppState, req *dto.PermittedRequest) *dto.PermittedResponse
}

type sessionAppServiceImpl struct {
	auth         repository.AuthRepository
	store        repository.SessionStore
	dictionaries *i18n.Dictionaries
	loginURL     string
	metrics      domainservice.Metrics
	audit        auditor
	logger       logger.Logger
}

// NewSessionAppService creates a new instance of SessionAppService. loginURL is
// the identity provider entry point of the key API.
func NewSessionAppService(
	repos repository.Repositories,
	store repository.SessionStore,
	dictionaries *i18n.Dictionaries,
	loginURL string,
	auditService domainservice.AuditService,
	metrics domainservice.Metrics,
	log logger.Logger,
) SessionAppService {
	if metrics == nil {
		metrics = domainservice.NoopMetrics{}
	}
	log = log.WithComponent("session_service")
	return &sessionAppServiceImpl{
		auth:         repos.Auth,
		store:        store,
		dictionaries: dictionaries,
		loginURL:     loginURL,
		metrics:      metrics,
		audit:        newAuditor(auditService, log),
		logger:       log,
	}
}

func (s *sessionAppServiceImpl) Load(ctx context.Context, sessionID string) (models.AppState, error) {
	fresh := models.NewAppState(constants.DefaultLanguage)
	if sessionID == "" {
		return fresh, nil
	}
	stored, ok, err := s.store.Load(ctx, sessionID)
	if err != nil {
		s.logger.Error(ctx, "Failed to load session", err)
		return fresh, errors.ErrInternal("session store unavailable").WithCause(err)
	}
	if !ok {
		return fresh, nil
	}
	return stored.AppState(), nil
}

func (s *sessionAppServiceImpl) save(ctx context.Context, sessionID string, state models.AppState) error {
	if err := s.store.Save(ctx, sessionID, repository.FromAppState(state)); err != nil {
		s.logger.Error(ctx, "Failed to save session", err)
		return errors.ErrInternal("session store unavailable").WithCause(err)
	}
	return nil
}

// Refresh treats a 401 from /auth as signed out rather than as an error
func (s *sessionAppServiceImpl) Refresh(ctx context.Context, sessionID string, state models.AppState) (models.AppState, error) {
	user, err := s.auth.CurrentUser(ctx)
	switch {
	case errors.IsCode(err, errors.CodeUnauthorized):
		state = state.SignedOut()
	case err != nil:
		return state, err
	default:
		state = state.WithUser(user)
	}
	if err := s.save(ctx, sessionID, state); err != nil {
		return state, err
	}
	return state, nil
}

func (s *sessionAppServiceImpl) SetLanguage(ctx context.Context, sessionID string, state models.AppState, req *dto.LanguageRequest) (models.AppState, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return state, err
	}
	next := state.WithLanguage(req.Language)
	if err := s.save(ctx, sessionID, next); err != nil {
		return state, err
	}
	return next, nil
}

func (s *sessionAppServiceImpl) SignInURL(returnTo string) string {
	if returnTo == "" {
		return s.loginURL
	}
	sep := "?"
	if strings.Contains(s.loginURL, "?") {
		sep = "&"
	}
	return s.loginURL + sep + "redirect=" + url.QueryEscape(returnTo)
}

func (s *sessionAppServiceImpl) SignOut(ctx context.Context, sessionID string, state models.AppState) (*dto.SignOutResponse, models.AppState, error) {
	resp := &dto.SignOutResponse{}
	logoutURL, err := s.auth.LogoutURL(ctx)
	resp.Lookup = domainservice.Outcome(logoutLookup, err)
	if err != nil {
		s.metrics.RecordBestEffortFailure(logoutLookup)
		s.logger.Warn(ctx, "Logout URL lookup failed", logger.Err(err))
	} else {
		resp.LogoutURL = logoutURL
	}

	s.audit.record(ctx, models.NewAuditEvent(constants.AuditEventSignedOut, "session", ""), nil)
	next := state.SignedOut()
	if err := s.save(ctx, sessionID, next); err != nil {
		return nil, state, err
	}
	return resp, next, nil
}

func (s *sessionAppServiceImpl) Describe(state models.AppState) *dto.SessionResponse {
	return &dto.SessionResponse{
		Language:  state.Language(),
		Languages: append([]string(nil), constants.SupportedLanguages...),
		SignedIn:  state.SignedIn(),
		User:      state.User(),
	}
}

func (s *sessionAppServiceImpl) Dictionary(state models.AppState, section string) i18n.Dictionary {
	return s.dictionaries.Section(state.Language(), section)
}

func (s *sessionAppServiceImpl) Permitted(state models.AppState, req *dto.PermittedRequest) *dto.PermittedResponse {
	return &dto.PermittedResponse{Permitted: domainservice.IsPermitted(state.User(), req.Permissions, req.WorkgroupID)}
}
