package responses

import (
	"time"

	"github.com/egrul-parser/app/models"
)

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// StartJobResponse acknowledges an accepted ingest job.
type StartJobResponse struct {
	JobID   string            `json:"job_id"`
	Status  string            `json:"status"`
	Mode    models.IngestMode `json:"mode"`
	Message string            `json:"message"`
}

// JobStatusResponse reports the state of an ingest job.
type JobStatusResponse struct {
	Job models.IngestJob `json:"job"`
}

// RegistryVersionResponse reports the last successful load.
type RegistryVersionResponse struct {
	Loaded  bool                    `json:"loaded"`
	Version *models.RegistryVersion `json:"version,omitempty"`
}

// RegistryStatsResponse reports stored record counts.
type RegistryStatsResponse struct {
	Total    int64  `json:"total"`
	Main     int64  `json:"main"`
	Branches int64  `json:"branches"`
	Uptime   string `json:"uptime"`
	MemoryMB uint64 `json:"memory_mb"`
}

// ReindexResponse reports a search index rebuild.
type ReindexResponse struct {
	Indexed          int   `json:"indexed"`
	ProcessingTimeMs int64 `json:"processing_time_ms"`
}

// HealthResponse is the body of the liveness and readiness endpoints.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}
