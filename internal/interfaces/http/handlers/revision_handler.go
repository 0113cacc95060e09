package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/artsapp/builder/internal/application/dto"
	"github.com/artsapp/builder/internal/application/service"
	"github.com/artsapp/builder/internal/interfaces/http/response"
)

// RevisionHandler serves revisions and the build-key editor
type RevisionHandler struct {
	revisions service.RevisionAppService
	resp      *response.Responder
}

// NewRevisionHandler creates a new RevisionHandler.
func NewRevisionHandler(revisions service.RevisionAppService, resp *response.Responder) *RevisionHandler {
	return &RevisionHandler{revisions: revisions, resp: resp}
}

// ListRevisions GET /keys/:keyId/revisions
func (h *RevisionHandler) ListRevisions(c *gin.Context) {
	var req dto.ListRevisionsRequest
	if err := bindQuery(c, &req); err != nil {
		h.resp.Error(c, err)
		return
	}
	revisions, err := h.revisions.ListRevisions(c.Request.Context(), c.Param("keyId"), req.AcceptedOnly)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.Success(c, http.StatusOK, revisions)
}

// GetRevision GET /keys/:keyId/revisions/:revisionId
func (h *RevisionHandler) GetRevision(c *gin.Context) {
	rev, err := h.revisions.GetRevision(c.Request.Context(), c.Param("keyId"), c.Param("revisionId"))
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.Success(c, http.StatusOK, rev)
}

// BuildKey POST /keys/:keyId/build saves the edited statement matrix as a new revision.
func (h *RevisionHandler) BuildKey(c *gin.Context) {
	var req dto.BuildKeyRequest
	if err := bindJSON(c, &req); err != nil {
		h.resp.Error(c, err)
		return
	}
	built, err := h.revisions.BuildKey(c.Request.Context(), c.Param("keyId"), &req)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.Success(c, http.StatusCreated, built)
}

// Candidates GET /keys/:keyId/revisions/:revisionId/candidates/:taxonId
func (h *RevisionHandler) Candidates(c *gin.Context) {
	out, err := h.revisions.Candidates(c.Request.Context(), c.Param("keyId"), c.Param("revisionId"), c.Param("taxonId"))
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.Success(c, http.StatusOK, out)
}

func (h *RevisionHandler) SetStatus(c *gin.Context) {
	var req dto.RevisionStatusRequest
	if err := bindJSON(c, &req); err != nil {
		h.resp.Error(c, err)
		return
	}
	if err := h.revisions.SetStatus(c.Request.Context(), c.Param("keyId"), c.Param("revisionId"), &req); err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.NoContent(c)
}

func (h *RevisionHandler) SetMode(c *gin.Context) {
	var req dto.RevisionModeRequest
	if err := bindJSON(c, &req); err != nil {
		h.resp.Error(c, err)
		return
	}
	if err := h.revisions.SetMode(c.Request.Context(), c.Param("keyId"), c.Param("revisionId"), &req); err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.NoContent(c)
}

func (h *RevisionHandler) SetNote(c *gin.Context) {
	var req dto.RevisionNoteRequest
	if err := bindJSON(c, &req); err != nil {
		h.resp.Error(c, err)
		return
	}
	if err := h.revisions.SetNote(c.Request.Context(), c.Param("keyId"), c.Param("revisionId"), &req); err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.NoContent(c)
}

// Diff GET /keys/:keyId/revisions/:revisionId/diff/:otherId
func (h *RevisionHandler) Diff(c *gin.Context) {
	diff, err := h.revisions.Diff(c.Request.Context(), c.Param("keyId"), c.Param("revisionId"), c.Param("otherId"))
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.Success(c, http.StatusOK, diff)
}
