package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/artsapp/builder/internal/application/dto"
	"github.com/artsapp/builder/internal/application/service"
	"github.com/artsapp/builder/internal/interfaces/http/middleware"
	"github.com/artsapp/builder/internal/interfaces/http/response"
)

// SessionHandler serves the language and user state of the browser session
type SessionHandler struct {
	sessions service.SessionAppService
	resp     *response.Responder
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions service.SessionAppService, resp *response.Responder) *SessionHandler {
	return &SessionHandler{sessions: sessions, resp: resp}
}

// GetSession GET /session asks the key API who is signed in and stores the answer.
func (h *SessionHandler) GetSession(c *gin.Context) {
	ctx := c.Request.Context()
	state, err := h.sessions.Refresh(ctx, middleware.SessionID(c), service.AppStateFrom(ctx))
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.Success(c, http.StatusOK, h.sessions.Describe(state))
}

// SignIn GET /session/signin?returnTo=
func (h *SessionHandler) SignIn(c *gin.Context) {
	h.resp.Success(c, http.StatusOK, &dto.SignInResponse{URL: h.sessions.SignInURL(c.Query("returnTo"))})
}

// SignOut POST /session/signout
func (h *SessionHandler) SignOut(c *gin.Context) {
	ctx := c.Request.Context()
	out, _, err := h.sessions.SignOut(ctx, middleware.SessionID(c), service.AppStateFrom(ctx))
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.Success(c, http.StatusOK, out)
}

// SetLanguage PUT /session/language
func (h *SessionHandler) SetLanguage(c *gin.Context) {
	var req dto.LanguageRequest
	if err := bindJSON(c, &req); err != nil {
		h.resp.Error(c, err)
		return
	}
	ctx := c.Request.Context()
	state, err := h.sessions.SetLanguage(ctx, middleware.SessionID(c), service.AppStateFrom(ctx), &req)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.Success(c, http.StatusOK, h.sessions.Describe(state))
}

// Dictionary GET /session/dictionary?section=
func (h *SessionHandler) Dictionary(c *gin.Context) {
	state := service.AppStateFrom(c.Request.Context())
	h.resp.Success(c, http.StatusOK, h.sessions.Dictionary(state, c.Query("section")))
}

// Permitted GET /session/permitted?permission=&workgroupId=
func (h *SessionHandler) Permitted(c *gin.Context) {
	var req dto.PermittedRequest
	if err := bindQuery(c, &req); err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.Success(c, http.StatusOK, h.sessions.Permitted(service.AppStateFrom(c.Request.Context()), &req))
}
