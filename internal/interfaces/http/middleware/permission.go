package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/artsapp/builder/internal/application/service"
	domainservice "github.com/artsapp/builder/internal/domain/service"
	"github.com/artsapp/builder/internal/interfaces/http/response"
	"github.com/artsapp/builder/pkg/errors"
)

// RequirePermissions gates a route on the session user holding every
// permission. A workgroupId query or path parameter additionally requires membership.
// Signed-out sessions get 401, others 403.
func RequirePermissions(resp *response.Responder, permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := service.AppStateFrom(c.Request.Context())
		if !state.SignedIn() {
			resp.Error(c, errors.ErrUnauthorized())
			return
		}
		if !domainservice.IsPermitted(state.User(), permissions, workgroupOf(c)) {
			resp.Error(c, errors.ErrForbidden(permissions))
			return
		}
		c.Next()
	}
}

// workgroupOf names the workgroup a request is scoped to: the workgroupId
// query parameter, else the workgroupId path parameter.
func workgroupOf(c *gin.Context) string {
	if id := c.Query("workgroupId"); id != "" {
		return id
	}
	return c.Param("workgroupId")
}
