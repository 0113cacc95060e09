package handlers

import (
	goerrors "errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/artsapp/builder/internal/application/dto"
	"github.com/artsapp/builder/internal/application/service"
	"github.com/artsapp/builder/internal/domain/models"
	"github.com/artsapp/builder/internal/domain/repository"
	"github.com/artsapp/builder/internal/interfaces/http/response"
	"github.com/artsapp/builder/pkg/errors"
	"github.com/artsapp/builder/pkg/utils"
)

// multipart overhead allowed on top of the file itself
const formOverhead = 1 << 20

// MediaHandler passes media uploads through to the key API
type MediaHandler struct {
	media service.MediaAppService
	resp  *response.Responder
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(media service.MediaAppService, resp *response.Responder) *MediaHandler {
	return &MediaHandler{media: media, resp: resp}
}

// Upload POST /media/:entity, a multipart form with file, keyId, revisionId and entityId.
func (h *MediaHandler) Upload(c *gin.Context) {
	if max := h.media.MaxUploadBytes(); max > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max+formOverhead)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		if isTooLarge(err) {
			h.resp.Error(c, errors.ErrPayloadTooLarge(utils.FormatFileSize(h.media.MaxUploadBytes())))
			return
		}
		h.resp.Error(c, errors.ErrInvalidRequest("file is required").WithCause(err))
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.resp.Error(c, errors.ErrInvalidRequest("unreadable upload").WithCause(err))
		return
	}
	defer f.Close()

	ref := repository.RevisionRef{KeyID: c.PostForm("keyId"), RevisionID: c.PostForm("revisionId")}
	media, err := h.media.Upload(c.Request.Context(), models.MediaEntity(c.Param("entity")), ref, repository.Upload{
		EntityID: c.PostForm("entityId"),
		FileName: fh.Filename,
		Size:     fh.Size,
		Body:     f,
	})
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.Success(c, http.StatusCreated, media)
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if goerrors.As(err, &maxErr) {
		return true
	}
	// the multipart reader does not always wrap the limit error
	return strings.Contains(err.Error(), "request body too large")
}

// UpdateMetadata PUT /media/:entity/:mediaId
func (h *MediaHandler) UpdateMetadata(c *gin.Context) {
	var req dto.MediaMetadataRequest
	if err := bindJSON(c, &req); err != nil {
		h.resp.Error(c, err)
		return
	}
	media, err := h.media.UpdateMetadata(c.Request.Context(), models.MediaEntity(c.Param("entity")), c.Param("mediaId"), &req)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.Success(c, http.StatusOK, media)
}

// Delete DELETE /media/:entity/:entityId/:mediaId
func (h *MediaHandler) Delete(c *gin.Context) {
	if err := h.media.Delete(c.Request.Context(), models.MediaEntity(c.Param("entity")), c.Param("entityId"), c.Param("mediaId")); err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.NoContent(c)
}
