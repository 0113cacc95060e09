package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artsapp/builder/internal/application/dto"
	"github.com/artsapp/builder/internal/application/service"
	"github.com/artsapp/builder/internal/domain/models"
	"github.com/artsapp/builder/internal/i18n"
	"github.com/artsapp/builder/internal/interfaces/http/response"
	"github.com/artsapp/builder/pkg/constants"
	"github.com/artsapp/builder/pkg/logger"
)

func newResponder() *response.Responder {
	return response.NewResponder(i18n.MustLoad(), logger.NewNoopLogger())
}

// withState attaches a fixed session state, standing in for the session middleware
func withState(state models.AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(service.WithAppState(c.Request.Context(), state))
		c.Next()
	}
}

func TestRequirePermissions(t *testing.T) {
	gin.SetMode(gin.TestMode)
	editor := &models.User{ID: "u1", Workgroups: []string{"wg1"}, Permissions: []string{constants.PermissionEditKey}}

	tests := []struct {
		name       string
		state      models.AppState
		query      string
		wantStatus int
	}{
		{"signed out", models.NewAppState("no"), "", http.StatusUnauthorized},
		{"permitted", models.NewAppState("no").WithUser(editor), "", http.StatusOK},
		{"member of workgroup", models.NewAppState("no").WithUser(editor), "?workgroupId=wg1", http.StatusOK},
		{"not a member", models.NewAppState("no").WithUser(editor), "?workgroupId=wg2", http.StatusForbidden},
		{"missing permission", models.NewAppState("no").WithUser(&models.User{ID: "u2"}), "", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.PUT("/keys/k1", withState(tt.state), RequirePermissions(newResponder(), constants.PermissionEditKey), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/keys/k1"+tt.query, nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRequirePermissions_WorkgroupPathParameter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	admin := &models.User{ID: "u1", Workgroups: []string{"wg1"}, Permissions: []string{constants.PermissionEditWorkgroup}}

	r := gin.New()
	r.PUT("/workgroups/:workgroupId", withState(models.NewAppState("no").WithUser(admin)),
		RequirePermissions(newResponder(), constants.PermissionEditWorkgroup), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

	for path, want := range map[string]int{
		"/workgroups/wg1": http.StatusOK,
		"/workgroups/wg2": http.StatusForbidden,
	} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, path, nil))
		assert.Equal(t, want, rec.Code, path)
	}
}

func TestRequestIDAndRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery(newResponder(), logger.NewNoopLogger()), RequestID())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(string(constants.ContextKeyRequestID))) })

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(constants.RequestIDHeader, "req-1")
	r.ServeHTTP(rec, req)
	assert.Equal(t, "req-1", rec.Body.String())
	assert.Equal(t, "req-1", rec.Header().Get(constants.RequestIDHeader))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(constants.RequestIDHeader))

	var body dto.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "internal_error", body.Error.Code)
}
