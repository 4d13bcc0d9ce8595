// Package api provides the HTTP handlers for the maidbook admin API.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// HealthChecker verifies database connectivity.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	db        HealthChecker
	log       *logrus.Logger
	version   string
	startTime time.Time
}

// NewHealthHandler creates a HealthHandler. db may be nil.
func NewHealthHandler(db HealthChecker, log *logrus.Logger, version string) *HealthHandler {
	return &HealthHandler{db: db, log: log, version: version, startTime: time.Now()}
}

type healthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Database      string  `json:"database"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// Liveness handles GET /api/v1/health. It always returns 200.
func (h *HealthHandler) Liveness(c *gin.Context) {
	resp := healthResponse{
		Status:        "ok",
		Version:       h.version,
		Database:      "connected",
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}

	if h.db == nil {
		resp.Database = "not_configured"
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := h.db.HealthCheck(ctx); err != nil {
			resp.Database = "disconnected"
		}
	}

	c.JSON(http.StatusOK, resp)
}

// Readiness handles GET /api/v1/ready. It returns 503 until the database answers.
func (h *HealthHandler) Readiness(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "database": "not_configured"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.db.HealthCheck(ctx); err != nil {
		h.log.WithError(err).Error("readiness: database health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "database": "error"})

		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready", "database": "ok"})
}
