package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/artsapp/builder/pkg/logger"
)

const checkTimeout = 3 * time.Second

// Checker probes one dependency
type Checker func(ctx context.Context) error

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	checks map[string]Checker
	log    logger.Logger
}

// NewHealthHandler creates a new HealthHandler probing checks on readiness.
func NewHealthHandler(checks map[string]Checker, log logger.Logger) *HealthHandler {
	if checks == nil {
		checks = map[string]Checker{}
	}
	return &HealthHandler{checks: checks, log: log}
}

// LivenessCheck reports that the process serves requests
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive", "timestamp": time.Now().UTC()})
}

// ReadinessCheck probes every dependency concurrently; any failure answers 503.
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	status := "ready"
	httpStatus := http.StatusOK
	checks := h.performChecks(c.Request.Context())
	for name, result := range checks {
		if result != "ok" {
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
			h.log.Warn(c.Request.Context(), "Readiness check failed", logger.String("check", name), logger.String("result", result))
		}
	}
	c.JSON(httpStatus, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC(),
		"checks":    checks,
	})
}

func (h *HealthHandler) performChecks(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	var wg sync.WaitGroup
	var mu sync.Mutex
	results := make(map[string]string, len(h.checks))

	wg.Add(len(h.checks))
	for name, check := range h.checks {
		go func(name string, check Checker) {
			defer wg.Done()
			result := "ok"
			if err := check(ctx); err != nil {
				result = "error: " + err.Error()
			}
			mu.Lock()
			results[name] = result
			mu.Unlock()
		}(name, check)
	}
	wg.Wait()
	return results
}
