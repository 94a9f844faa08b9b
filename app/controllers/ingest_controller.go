package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/egrul-parser/app/models"
	"github.com/egrul-parser/app/requests"
	"github.com/egrul-parser/app/responses"
	"github.com/egrul-parser/app/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// JobRunner starts and reports background ingest jobs.
type JobRunner interface {
	StartJob(ctx context.Context, req requests.IngestRequest) (*models.IngestJob, error)
	GetJob(ctx context.Context, id string) (*models.IngestJob, bool, error)
}

// IngestController handles ingest job requests.
type IngestController struct {
	runner JobRunner
	logger *zap.Logger
}

// NewIngestController creates an IngestController.
func NewIngestController(runner JobRunner, logger *zap.Logger) *IngestController {
	return &IngestController{
		runner: runner,
		logger: logger,
	}
}

// StartJob queues an ingest run and answers 202 with the job id.
func (ic *IngestController) StartJob(c *gin.Context) {
	var req requests.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:   "INVALID_REQUEST",
			Message: "Invalid request: " + err.Error(),
		})
		return
	}

	job, err := ic.runner.StartJob(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, responses.ErrorResponse{
				Error:   "INVALID_REQUEST",
				Message: err.Error(),
			})
			return
		}
		ic.logger.Error("Cannot start ingest job", zap.Error(err))
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "JOB_START_FAILED",
			Message: "Cannot start ingest job: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, responses.StartJobResponse{
		JobID:   job.ID,
		Status:  job.Status,
		Mode:    job.Mode,
		Message: "Job accepted",
	})
}

// GetJobStatus reports an ingest job.
func (ic *IngestController) GetJobStatus(c *gin.Context) {
	jobID := c.Param("jobID")
	if jobID == "" {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:   "MISSING_JOB_ID",
			Message: "Job ID is required",
		})
		return
	}

	job, found, err := ic.runner.GetJob(c.Request.Context(), jobID)
	if err != nil {
		ic.logger.Error("Cannot load ingest job", zap.String("job_id", jobID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "JOB_LOOKUP_FAILED",
			Message: err.Error(),
		})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, responses.ErrorResponse{
			Error:   "JOB_NOT_FOUND",
			Message: "Job not found: " + jobID,
		})
		return
	}

	c.JSON(http.StatusOK, responses.JobStatusResponse{Job: *job})
}
