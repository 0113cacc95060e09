package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artsapp/builder/pkg/logger"
)

func TestReadinessCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		checks     map[string]Checker
		wantStatus int
		wantState  string
	}{
		{"no dependencies", nil, http.StatusOK, "ready"},
		{
			"all healthy",
			map[string]Checker{
				"redis":    func(context.Context) error { return nil },
				"audit_db": func(context.Context) error { return nil },
			},
			http.StatusOK, "ready",
		},
		{
			"one failing",
			map[string]Checker{
				"redis":    func(context.Context) error { return errors.New("connection refused") },
				"audit_db": func(context.Context) error { return nil },
			},
			http.StatusServiceUnavailable, "not_ready",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.checks, logger.NewNoopLogger())
			r := gin.New()
			r.GET("/ready", h.ReadinessCheck)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body struct {
				Status string            `json:"status"`
				Checks map[string]string `json:"checks"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantState, body.Status)
			assert.Len(t, body.Checks, len(tt.checks))
		})
	}
}
