package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/artsapp/builder/internal/application/dto"
	"github.com/artsapp/builder/internal/application/service"
	"github.com/artsapp/builder/internal/interfaces/http/response"
)

// OrganizationHandler serves collections, groups, workgroups and organizations
type OrganizationHandler struct {
	org  service.OrganizationAppService
	resp *response.Responder
}

// NewOrganizationHandler creates a new OrganizationHandler.
func NewOrganizationHandler(org service.OrganizationAppService, resp *response.Responder) *OrganizationHandler {
	return &OrganizationHandler{org: org, resp: resp}
}

func (h *OrganizationHandler) write(c *gin.Context, status int, data interface{}, err error) {
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	if status == http.StatusNoContent {
		h.resp.NoContent(c)
		return
	}
	h.resp.Success(c, status, data)
}

// ================================================================================
// Collections
// ================================================================================

func (h *OrganizationHandler) ListCollections(c *gin.Context) {
	out, err := h.org.ListCollections(c.Request.Context())
	h.write(c, http.StatusOK, out, err)
}

func (h *OrganizationHandler) CreateCollection(c *gin.Context) {
	var req dto.CollectionRequest
	if err := bindJSON(c, &req); err != nil {
		h.resp.Error(c, err)
		return
	}
	out, err := h.org.CreateCollection(c.Request.Context(), &req)
	h.write(c, http.StatusCreated, out, err)
}

func (h *OrganizationHandler) UpdateCollection(c *gin.Context) {
	var req dto.CollectionRequest
	if err := bindJSON(c, &req); err != nil {
		h.resp.Error(c, err)
		return
	}
	out, err := h.org.UpdateCollection(c.Request.Context(), c.Param("collectionId"), &req)
	h.write(c, http.StatusOK, out, err)
}

func (h *OrganizationHandler) DeleteCollection(c *gin.Context) {
	h.write(c, http.StatusNoContent, nil, h.org.DeleteCollection(c.Request.Context(), c.Param("collectionId")))
}

func (h *OrganizationHandler) AddCollectionKey(c *gin.Context) {
	var req dto.CollectionKeyRequest
	if err := bindJSON(c, &req); err != nil {
		h.resp.Error(c, err)
		return
	}
	h.write(c, http.StatusNoContent, nil, h.org.AddCollectionKey(c.Request.Context(), c.Param("collectionId"), &req))
}

func (h *OrganizationHandler) RemoveCollectionKey(c *gin.Context) {
	h.write(c, http.StatusNoContent, nil, h.org.RemoveCollectionKey(c.Request.Context(), c.Param("collectionId"), c.Param("keyId")))
}

// ================================================================================
// Groups
// ================================================================================

func (h *OrganizationHandler) ListGroups(c *gin.Context) {
	out, err := h.org.ListGroups(c.Request.Context())
	h.write(c, http.StatusOK, out, err)
}

func (h *OrganizationHandler) CreateGroup(c *gin.Context) {
	var req dto.GroupRequest
	if err := bindJSON(c, &req); err != nil {
		h.resp.Error(c, err)
		return
	}
	out, err := h.org.CreateGroup(c.Request.Context(), &req)
	h.write(c, http.StatusCreated, out, err)
}

func (h *OrganizationHandler) UpdateGroup(c *gin.Context) {
	var req dto.GroupRequest
	if err := bindJSON(c, &req); err != nil {
		h.resp.Error(c, err)
		return
	}
	out, err := h.org.UpdateGroup(c.Request.Context(), c.Param("groupId"), &req)
	h.write(c, http.StatusOK, out, err)
}

func (h *OrganizationHandler) DeleteGroup(c *gin.Context) {
	h.write(c, http.StatusNoContent, nil, h.org.DeleteGroup(c.Request.Context(), c.Param("groupId")))
}

// ================================================================================
// Workgroups
// ================================================================================

func (h *OrganizationHandler) ListWorkgroups(c *gin.Context) {
	out, err := h.org.ListWorkgroups(c.Request.Context())
	h.write(c, http.StatusOK, out, err)
}

func (h *OrganizationHandler) CreateWorkgroup(c *gin.Context) {
	var req dto.WorkgroupRequest
	if err := bindJSON(c, &req); err != nil {
		h.resp.Error(c, err)
		return
	}
	out, err := h.org.CreateWorkgroup(c.Request.Context(), &req)
	h.write(c, http.StatusCreated, out, err)
}

func (h *OrganizationHandler) UpdateWorkgroup(c *gin.Context) {
	var req dto.WorkgroupRequest
	if err := bindJSON(c, &req); err != nil {
		h.resp.Error(c, err)
		return
	}
	out, err := h.org.UpdateWorkgroup(c.Request.Context(), c.Param("workgroupId"), &req)
	h.write(c, http.StatusOK, out, err)
}

func (h *OrganizationHandler) DeleteWorkgroup(c *gin.Context) {
	h.write(c, http.StatusNoContent, nil, h.org.DeleteWorkgroup(c.Request.Context(), c.Param("workgroupId")))
}

func (h *OrganizationHandler) AddWorkgroupUser(c *gin.Context) {
	var req dto.WorkgroupUserRequest
	if err := bindJSON(c, &req); err != nil {
		h.resp.Error(c, err)
		return
	}
	h.write(c, http.StatusNoContent, nil, h.org.AddWorkgroupUser(c.Request.Context(), c.Param("workgroupId"), &req))
}

func (h *OrganizationHandler) RemoveWorkgroupUser(c *gin.Context) {
	h.write(c, http.StatusNoContent, nil, h.org.RemoveWorkgroupUser(c.Request.Context(), c.Param("workgroupId"), c.Param("userId")))
}

func (h *OrganizationHandler) ListOrganizations(c *gin.Context) {
	out, err := h.org.ListOrganizations(c.Request.Context())
	h.write(c, http.StatusOK, out, err)
}
