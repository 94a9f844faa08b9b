package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/egrul-parser/app/controllers"
	"github.com/egrul-parser/app/models"
	"github.com/egrul-parser/app/requests"
	"github.com/egrul-parser/app/responses"
	"github.com/egrul-parser/app/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubRunner struct {
	started []requests.IngestRequest
	jobs    map[string]*models.IngestJob
}

func (s *stubRunner) StartJob(_ context.Context, req requests.IngestRequest) (*models.IngestJob, error) {
	if req.Dir == "/missing" {
		return nil, errors.New("redis down")
	}
	if req.Workers > 8 {
		return nil, services.ErrInvalidRequest
	}
	s.started = append(s.started, req)
	job := &models.IngestJob{ID: "job-1", Status: models.JobStatusPending, Mode: req.Mode, Dir: req.Dir}
	s.jobs[job.ID] = job
	return job, nil
}

func (s *stubRunner) GetJob(_ context.Context, id string) (*models.IngestJob, bool, error) {
	job, ok := s.jobs[id]
	return job, ok, nil
}

type stubAdmin struct {
	version    *models.RegistryVersion
	reindexErr error
	batchSize  int
}

func (s *stubAdmin) Version(context.Context) (*models.RegistryVersion, error) {
	return s.version, nil
}

func (s *stubAdmin) GetSystemStats(context.Context) (*services.SystemStats, error) {
	return &services.SystemStats{
		Counts: services.RegistryCounts{Total: 10, Main: 7, Branches: 3},
		Uptime: "1m0s",
	}, nil
}

func (s *stubAdmin) Reindex(_ context.Context, batchSize int) (*services.ReindexResult, error) {
	s.batchSize = batchSize
	if s.reindexErr != nil {
		return nil, s.reindexErr
	}
	return &services.ReindexResult{Indexed: 10}, nil
}

func newRouter(runner *stubRunner, admin *stubAdmin, checks map[string]controllers.ReadinessCheck) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	logger := zap.NewNop()
	SetupAllRoutes(router,
		controllers.NewIngestController(runner, logger),
		controllers.NewAdminController(admin, checks, logger),
		logger)
	return router
}

func do(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestStartJob(t *testing.T) {
	runner := &stubRunner{jobs: map[string]*models.IngestJob{}}
	router := newRouter(runner, &stubAdmin{}, nil)

	w := do(router, http.MethodPost, "/v1/ingest/jobs", `{"dir":"/data/egrul","mode":"update","workers":4}`)
	require.Equal(t, http.StatusAccepted, w.Code)

	var resp responses.StartJobResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "job-1", resp.JobID)
	assert.Equal(t, models.ModeUpdate, resp.Mode)
	require.Len(t, runner.started, 1)
	assert.Equal(t, 4, runner.started[0].Workers)

	w = do(router, http.MethodGet, "/v1/ingest/jobs/job-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var status responses.JobStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "/data/egrul", status.Job.Dir)
}

func TestStartJobErrors(t *testing.T) {
	router := newRouter(&stubRunner{jobs: map[string]*models.IngestJob{}}, &stubAdmin{}, nil)

	tests := []struct {
		name string
		body string
		code int
		kind string
	}{
		{"bad json", `{"dir":`, http.StatusBadRequest, "INVALID_REQUEST"},
		{"missing dir", `{"mode":"fill"}`, http.StatusBadRequest, "INVALID_REQUEST"},
		{"unknown mode", `{"dir":"/d","mode":"merge"}`, http.StatusBadRequest, "INVALID_REQUEST"},
		{"rejected by service", `{"dir":"/d","mode":"fill","workers":9}`, http.StatusBadRequest, "INVALID_REQUEST"},
		{"service failure", `{"dir":"/missing","mode":"fill"}`, http.StatusInternalServerError, "JOB_START_FAILED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(router, http.MethodPost, "/v1/ingest/jobs", tt.body)
			assert.Equal(t, tt.code, w.Code)
			var resp responses.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.kind, resp.Error)
		})
	}
}

func TestUnknownJob(t *testing.T) {
	router := newRouter(&stubRunner{jobs: map[string]*models.IngestJob{}}, &stubAdmin{}, nil)
	w := do(router, http.MethodGet, "/v1/ingest/jobs/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegistryVersion(t *testing.T) {
	admin := &stubAdmin{}
	router := newRouter(&stubRunner{}, admin, nil)

	w := do(router, http.MethodGet, "/v1/registry/version", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"loaded":false}`, w.Body.String())

	admin.version = &models.RegistryVersion{Version: "2024-01-02", Mode: "fill", Records: 6, UpdatedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)}
	w = do(router, http.MethodGet, "/v1/registry/version", "")
	var resp responses.RegistryVersionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Loaded)
	assert.Equal(t, "2024-01-02", resp.Version.Version)
}

func TestRegistryStats(t *testing.T) {
	router := newRouter(&stubRunner{}, &stubAdmin{}, nil)
	w := do(router, http.MethodGet, "/v1/registry/stats", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp responses.RegistryStatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(10), resp.Total)
	assert.Equal(t, int64(3), resp.Branches)
}

func TestReindex(t *testing.T) {
	admin := &stubAdmin{}
	router := newRouter(&stubRunner{}, admin, nil)

	w := do(router, http.MethodPost, "/v1/admin/search/reindex", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, admin.batchSize)

	w = do(router, http.MethodPost, "/v1/admin/search/reindex", `{"batch_size":500}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 500, admin.batchSize)

	admin.reindexErr = services.ErrSearchDisabled
	w = do(router, http.MethodPost, "/v1/admin/search/reindex", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHealthEndpoints(t *testing.T) {
	checks := map[string]controllers.ReadinessCheck{
		"mongo": func(context.Context) error { return nil },
	}
	router := newRouter(&stubRunner{}, &stubAdmin{}, checks)

	for _, path := range []string{"/health", "/live", "/ready", "/v1/health"} {
		assert.Equal(t, http.StatusOK, do(router, http.MethodGet, path, "").Code, path)
	}

	checks["meilisearch"] = func(context.Context) error { return errors.New("unreachable") }
	w := do(router, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp responses.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "unreachable", resp.Checks["meilisearch"])
	assert.Equal(t, "ok", resp.Checks["mongo"])
}

func TestNoRoute(t *testing.T) {
	router := newRouter(&stubRunner{}, &stubAdmin{}, nil)
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/v1/addresses/parse", "").Code)
}
