// Package response writes the JSON envelope of every builder endpoint.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/artsapp/builder/internal/application/dto"
	"github.com/artsapp/builder/internal/application/service"
	"github.com/artsapp/builder/internal/i18n"
	"github.com/artsapp/builder/internal/infrastructure/monitoring"
	"github.com/artsapp/builder/pkg/errors"
	"github.com/artsapp/builder/pkg/logger"
)

// Responder renders successes and localized errors
type Responder struct {
	dictionaries *i18n.Dictionaries
	logger       logger.Logger
}

// NewResponder creates a Responder localizing errors with dictionaries
func NewResponder(dictionaries *i18n.Dictionaries, log logger.Logger) *Responder {
	return &Responder{dictionaries: dictionaries, logger: log.WithComponent("http")}
}

func traceID(c *gin.Context) string {
	if id := monitoring.TraceID(c.Request.Context()); id != "" {
		return id
	}
	return c.GetString("request_id")
}

// Success writes data with status
func (r *Responder) Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, dto.SuccessResponse(data, traceID(c)))
}

// NoContent answers 204
func (r *Responder) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error writes err in the session language and aborts the chain.
func (r *Responder) Error(c *gin.Context, err error) {
	ctx := c.Request.Context()
	status := http.StatusInternalServerError
	if be, ok := errors.AsBuilderError(err); ok {
		status = be.HTTPStatus()
	}

	fields := logger.Merge(
		logger.String("method", c.Request.Method),
		logger.String("route", c.FullPath()),
		logger.Int("status", status),
	)
	if errors.ShouldLogError(err) {
		r.logger.Error(ctx, "Request failed", err, fields)
	} else {
		r.logger.Debug(ctx, "Request rejected", fields, logger.Err(err))
	}

	lang := service.AppStateFrom(ctx).Language()
	c.AbortWithStatusJSON(status, dto.ErrorResponse(err, r.dictionaries.Message(lang, err), traceID(c)))
}
