// Package handlers binds builder HTTP requests to the application services.
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/artsapp/builder/internal/domain/repository"
	"github.com/artsapp/builder/pkg/errors"
)

// bindJSON decodes the request body into req
func bindJSON(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return errors.ErrInvalidRequest("malformed request body").WithCause(err)
	}
	return nil
}

// bindQuery decodes query parameters into req
func bindQuery(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindQuery(req); err != nil {
		return errors.ErrInvalidRequest("malformed query").WithCause(err)
	}
	return nil
}

// revisionRef reads :keyId and :revisionId
func revisionRef(c *gin.Context) repository.RevisionRef {
	return repository.RevisionRef{KeyID: c.Param("keyId"), RevisionID: c.Param("revisionId")}
}

func queryBool(c *gin.Context, name string) bool {
	b, _ := strconv.ParseBool(c.Query(name))
	return b
}
