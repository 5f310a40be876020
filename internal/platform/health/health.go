// Package health exposes liveness and readiness probes.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Check probes one dependency.
type Check func(ctx context.Context) error

// Handler serves /health and /health/ready.
type Handler struct {
	db      *gorm.DB
	service string
	checks  map[string]Check
}

// NewHandler creates a Handler that always checks the database.
func NewHandler(db *gorm.DB, service string) *Handler {
	return &Handler{db: db, service: service, checks: map[string]Check{}}
}

// AddCheck registers an optional dependency check for readiness.
func (h *Handler) AddCheck(name string, check Check) {
	h.checks[name] = check
}

// RegisterRoutes registers the probes on r.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Live)
	r.GET("/health/ready", h.Ready)
}

// Live reports that the process is serving.
func (h *Handler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": h.service})
}

// Ready pings the database and every registered check. Optional checks
// report degraded without failing readiness.
func (h *Handler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	results := gin.H{}
	status := http.StatusOK

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		results["database"] = err.Error()
		status = http.StatusServiceUnavailable
	} else {
		results["database"] = "ok"
	}

	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			results[name] = "degraded: " + err.Error()
			continue
		}
		results[name] = "ok"
	}

	c.JSON(status, gin.H{"service": h.service, "checks": results})
}
