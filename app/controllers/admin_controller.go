package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/egrul-parser/app/models"
	"github.com/egrul-parser/app/requests"
	"github.com/egrul-parser/app/responses"
	"github.com/egrul-parser/app/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegistryAdmin answers registry status queries.
type RegistryAdmin interface {
	Version(ctx context.Context) (*models.RegistryVersion, error)
	GetSystemStats(ctx context.Context) (*services.SystemStats, error)
	Reindex(ctx context.Context, batchSize int) (*services.ReindexResult, error)
}

// ReadinessCheck reports whether a dependency is usable.
type ReadinessCheck func(ctx context.Context) error

// AdminController serves registry status and maintenance endpoints.
type AdminController struct {
	admin  RegistryAdmin
	checks map[string]ReadinessCheck
	logger *zap.Logger
}

// NewAdminController creates an AdminController. checks are run by Ready.
func NewAdminController(admin RegistryAdmin, checks map[string]ReadinessCheck, logger *zap.Logger) *AdminController {
	return &AdminController{
		admin:  admin,
		checks: checks,
		logger: logger,
	}
}

// GetVersion returns the last successful load date.
func (ac *AdminController) GetVersion(c *gin.Context) {
	v, err := ac.admin.Version(c.Request.Context())
	if err != nil {
		ac.logger.Error("Cannot load registry version", zap.Error(err))
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "VERSION_ERROR",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, responses.RegistryVersionResponse{
		Loaded:  v != nil,
		Version: v,
	})
}

// GetStats returns stored record counts.
func (ac *AdminController) GetStats(c *gin.Context) {
	stats, err := ac.admin.GetSystemStats(c.Request.Context())
	if err != nil {
		ac.logger.Error("Cannot load registry stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "STATS_ERROR",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, responses.RegistryStatsResponse{
		Total:    stats.Counts.Total,
		Main:     stats.Counts.Main,
		Branches: stats.Counts.Branches,
		Uptime:   stats.Uptime,
		MemoryMB: stats.MemoryMB,
	})
}

// Reindex rebuilds the search index from storage.
func (ac *AdminController) Reindex(c *gin.Context) {
	var req requests.ReindexRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, responses.ErrorResponse{
				Error:   "INVALID_REQUEST",
				Message: "Invalid request: " + err.Error(),
			})
			return
		}
	}

	res, err := ac.admin.Reindex(c.Request.Context(), req.BatchSize)
	if err != nil {
		if errors.Is(err, services.ErrSearchDisabled) {
			c.JSON(http.StatusServiceUnavailable, responses.ErrorResponse{
				Error:   "SEARCH_DISABLED",
				Message: err.Error(),
			})
			return
		}
		ac.logger.Error("Reindex failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "REINDEX_FAILED",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, responses.ReindexResponse{
		Indexed:          res.Indexed,
		ProcessingTimeMs: res.ProcessingTimeMs,
	})
}

// Health reports that the process is serving.
func (ac *AdminController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, responses.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
	})
}

// Ready runs every readiness check.
func (ac *AdminController) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(ac.checks))
	for name, check := range ac.checks {
		if err := check(ctx); err != nil {
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not_ready"
	}
	c.JSON(status, responses.HealthResponse{
		Status:    state,
		Timestamp: time.Now(),
		Checks:    results,
	})
}

// Live reports liveness.
func (ac *AdminController) Live(c *gin.Context) {
	c.JSON(http.StatusOK, responses.HealthResponse{
		Status:    "alive",
		Timestamp: time.Now(),
	})
}
