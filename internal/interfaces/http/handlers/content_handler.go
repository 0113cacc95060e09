package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/artsapp/builder/internal/application/dto"
	"github.com/artsapp/builder/internal/application/service"
	"github.com/artsapp/builder/internal/domain/models"
	"github.com/artsapp/builder/internal/interfaces/http/response"
)

// ContentHandler serves the taxa, characters, states and logical premises of
// a revision. Every change answers the revision it produced.
type ContentHandler struct {
	content  service.ContentAppService
	premises service.PremiseAppService
	resp     *response.Responder
}

// NewContentHandler creates a new ContentHandler.
func NewContentHandler(content service.ContentAppService, premises service.PremiseAppService, resp *response.Responder) *ContentHandler {
	return &ContentHandler{content: content, premises: premises, resp: resp}
}

func (h *ContentHandler) revision(c *gin.Context, status int, rev *models.Revision, err error) {
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.Success(c, status, rev)
}

// ================================================================================
// Taxa
// ================================================================================

func (h *ContentHandler) CreateTaxon(c *gin.Context) {
	var req dto.TaxonRequest
	if err := bindJSON(c, &req); err != nil {
		h.resp.Error(c, err)
		return
	}
	rev, err := h.content.CreateTaxon(c.Request.Context(), revisionRef(c), &req)
	h.revision(c, http.StatusCreated, rev, err)
}

func (h *ContentHandler) UpdateTaxon(c *gin.Context) {
	var req dto.TaxonRequest
	if err := bindJSON(c, &req); err != nil {
		h.resp.Error(c, err)
		return
	}
	rev, err := h.content.UpdateTaxon(c.Request.Context(), revisionRef(c), c.Param("taxonId"), &req)
	h.revision(c, http.StatusOK, rev, err)
}

func (h *ContentHandler) DeleteTaxon(c *gin.Context) {
	rev, err := h.content.DeleteTaxon(c.Request.Context(), revisionRef(c), c.Param("taxonId"))
	h.revision(c, http.StatusOK, rev, err)
}

// ================================================================================
// Characters
// ================================================================================

func (h *ContentHandler) CreateCharacter(c *gin.Context) {
	var req dto.CharacterRequest
	if err := bindJSON(c, &req); err != nil {
		h.resp.Error(c, err)
		return
	}
	rev, err := h.content.CreateCharacter(c.Request.Context(), revisionRef(c), &req)
	h.revision(c, http.StatusCreated, rev, err)
}

func (h *ContentHandler) UpdateCharacter(c *gin.Context) {
	var req dto.CharacterRequest
	if err := bindJSON(c, &req); err != nil {
		h.resp.Error(c, err)
		return
	}
	rev, err := h.content.UpdateCharacter(c.Request.Context(), revisionRef(c), c.Param("characterId"), &req)
	h.revision(c, http.StatusOK, rev, err)
}

func (h *ContentHandler) DeleteCharacter(c *gin.Context) {
	rev, err := h.content.DeleteCharacter(c.Request.Context(), revisionRef(c), c.Param("characterId"))
	h.revision(c, http.StatusOK, rev, err)
}

// UpdateStates PUT .../characters/:characterId/states. The response carries the
// outcome of the premise cleanup next to the new revision.
func (h *ContentHandler) UpdateStates(c *gin.Context) {
	var req dto.StatesRequest
	if err := bindJSON(c, &req); err != nil {
		h.resp.Error(c, err)
		return
	}
	out, err := h.content.UpdateStates(c.Request.Context(), revisionRef(c), c.Param("characterId"), &req)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.Success(c, http.StatusOK, out)
}

// ================================================================================
// Logical premise
// ================================================================================

func (h *ContentHandler) GetPremise(c *gin.Context) {
	out, err := h.premises.GetPremise(c.Request.Context(), revisionRef(c), c.Param("characterId"))
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.Success(c, http.StatusOK, out)
}

func (h *ContentHandler) EditPremise(c *gin.Context) {
	var req dto.EditPremiseRequest
	if err := bindJSON(c, &req); err != nil {
		h.resp.Error(c, err)
		return
	}
	out, err := h.premises.EditPremise(c.Request.Context(), revisionRef(c), c.Param("characterId"), &req)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.Success(c, http.StatusOK, out)
}
