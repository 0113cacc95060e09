package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/artsapp/builder/internal/application/dto"
	"github.com/artsapp/builder/internal/application/service"
	"github.com/artsapp/builder/internal/interfaces/http/response"
)

// KeyHandler serves keys and their editors
type KeyHandler struct {
	keys service.KeyAppService
	resp *response.Responder
}

// NewKeyHandler creates a new KeyHandler.
func NewKeyHandler(keys service.KeyAppService, resp *response.Responder) *KeyHandler {
	return &KeyHandler{keys: keys, resp: resp}
}

// ListKeys GET /keys
func (h *KeyHandler) ListKeys(c *gin.Context) {
	var req dto.ListKeysRequest
	if err := bindQuery(c, &req); err != nil {
		h.resp.Error(c, err)
		return
	}
	keys, err := h.keys.ListKeys(c.Request.Context(), &req)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.Success(c, http.StatusOK, keys)
}

// GetKey GET /keys/:keyId, the key overview. ?accepted=true lists accepted revisions only.
func (h *KeyHandler) GetKey(c *gin.Context) {
	overview, err := h.keys.GetKeyOverview(c.Request.Context(), c.Param("keyId"), queryBool(c, "accepted"))
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.Success(c, http.StatusOK, overview)
}

// CreateKey POST /keys
func (h *KeyHandler) CreateKey(c *gin.Context) {
	var req dto.CreateKeyRequest
	if err := bindJSON(c, &req); err != nil {
		h.resp.Error(c, err)
		return
	}
	created, err := h.keys.CreateKey(c.Request.Context(), &req)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.Success(c, http.StatusCreated, created)
}

// UpdateKey PUT /keys/:keyId
func (h *KeyHandler) UpdateKey(c *gin.Context) {
	var req dto.UpdateKeyRequest
	if err := bindJSON(c, &req); err != nil {
		h.resp.Error(c, err)
		return
	}
	updated, err := h.keys.UpdateKey(c.Request.Context(), c.Param("keyId"), &req)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.Success(c, http.StatusOK, updated)
}

func (h *KeyHandler) ListEditors(c *gin.Context) {
	editors, err := h.keys.ListEditors(c.Request.Context(), c.Param("keyId"))
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.Success(c, http.StatusOK, editors)
}

func (h *KeyHandler) AddEditor(c *gin.Context) {
	var req dto.EditorRequest
	if err := bindJSON(c, &req); err != nil {
		h.resp.Error(c, err)
		return
	}
	if err := h.keys.AddEditor(c.Request.Context(), c.Param("keyId"), &req); err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.NoContent(c)
}

func (h *KeyHandler) RemoveEditor(c *gin.Context) {
	if err := h.keys.RemoveEditor(c.Request.Context(), c.Param("keyId"), c.Param("userId")); err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.NoContent(c)
}
