package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/egrul-parser/app/config"
	"github.com/egrul-parser/app/models"
	"github.com/egrul-parser/app/requests"
	"github.com/egrul-parser/helpers/utils"
	"github.com/egrul-parser/internal/parser"
	"go.uber.org/zap"
)

// ErrInvalidRequest wraps every rejected ingest request.
var ErrInvalidRequest = errors.New("invalid ingest request")

// IngestReport summarizes one completed run.
type IngestReport struct {
	Mode        models.IngestMode      `json:"mode"`
	Documents   int                    `json:"documents"`
	Shards      int                    `json:"shards"`
	Stats       models.IngestStats     `json:"stats"`
	Labeled     []parser.LabeledCount  `json:"labeled"`
	Version     models.RegistryVersion `json:"version"`
	Indexed     int                    `json:"indexed"`
	SearchError string                 `json:"search_error,omitempty"`
	Duration    time.Duration          `json:"duration"`
}

// IngestService parses registry documents in parallel shards and stores the
// merged result.
type IngestService struct {
	store      IRecordStore
	indexer    ISearchIndexer
	jobs       IJobStore
	parserOpts parser.Options
	cfg        config.IngestCfg
	logger     *zap.Logger
	now        func() time.Time
}

// NewIngestService wires the service. indexer may be nil when search is disabled.
func NewIngestService(store IRecordStore, indexer ISearchIndexer, jobs IJobStore, parserOpts parser.Options, cfg config.IngestCfg, logger *zap.Logger) *IngestService {
	return &IngestService{
		store:      store,
		indexer:    indexer,
		jobs:       jobs,
		parserOpts: parserOpts,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// ParserOptions builds parser options from configuration.
func ParserOptions(cfg config.ParserCfg) parser.Options {
	opts := parser.DefaultOptions()
	opts.LegacyTrimMax = cfg.LegacyTrimMax
	opts.UnifiedTrimMax = cfg.UnifiedTrimMax
	opts.ShortNameMinLen = cfg.ShortNameMinLen
	return opts
}

func (s *IngestService) validate(req *requests.IngestRequest) error {
	if req.Dir == "" {
		return fmt.Errorf("%w: dir is required", ErrInvalidRequest)
	}
	if !req.Mode.Valid() {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidRequest, req.Mode)
	}
	if req.Workers == 0 {
		req.Workers = s.cfg.Workers
	}
	if err := s.cfg.CheckWorkers(req.Workers); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

// Run executes one ingest synchronously. Nothing is written when any shard
// fails.
func (s *IngestService) Run(ctx context.Context, req requests.IngestRequest) (*IngestReport, error) {
	return s.run(ctx, req, nil)
}

func (s *IngestService) run(ctx context.Context, req requests.IngestRequest, progress func(stage string, stats models.IngestStats)) (*IngestReport, error) {
	startTime := s.now()

	if err := s.validate(&req); err != nil {
		return nil, err
	}

	// 1. Discover documents
	docs, err := parser.DiscoverFiles(req.Dir)
	if err != nil {
		return nil, err
	}

	// 2. Split into shards
	shards := parser.Chunk(docs, req.Workers)
	s.logger.Info("Starting ingest",
		zap.String("mode", string(req.Mode)),
		zap.String("dir", req.Dir),
		zap.Int("documents", len(docs)),
		zap.Int("shards", len(shards)))
	if progress != nil {
		progress("parsing", models.IngestStats{})
	}

	// 3. Parse shards in parallel; later shards supersede earlier ones
	merged, err := parser.ParseParallel(ctx, s.parserOpts, shards, req.Mode.Retract(), s.logger)
	if err != nil {
		return nil, err
	}
	stats := merged.Stats.ToModel()
	if progress != nil {
		progress("storing", stats)
	}

	// 4. Store in one transaction
	applied, err := s.store.Apply(ctx, req.Mode, merged.RetractionKeys, merged.Records)
	if err != nil {
		return nil, err
	}
	stats.RecordsDeleted = applied.Deleted
	stats.RecordsInserted = applied.Inserted

	report := &IngestReport{
		Mode:      req.Mode,
		Documents: len(docs),
		Shards:    len(shards),
		Stats:     stats,
		Labeled:   merged.Stats.Labeled(),
		Version:   applied.Version,
	}

	// 5. Search index follows storage; failures do not undo the load
	if s.indexer != nil {
		if progress != nil {
			progress("indexing", stats)
		}
		indexed, err := s.updateSearch(ctx, req.Mode, merged)
		report.Indexed = indexed
		if err != nil {
			s.logger.Warn("Search index update failed", zap.Error(err))
			report.SearchError = err.Error()
		}
	}

	report.Duration = s.now().Sub(startTime)
	s.logger.Info("Ingest completed",
		zap.String("mode", string(req.Mode)),
		zap.Int("records", stats.RecordsEmitted),
		zap.Int64("deleted", stats.RecordsDeleted),
		zap.Int64("inserted", stats.RecordsInserted),
		zap.Int("indexed", report.Indexed),
		zap.Duration("duration", report.Duration))

	return report, nil
}

func (s *IngestService) updateSearch(ctx context.Context, mode models.IngestMode, merged *parser.BatchResult) (int, error) {
	var err error
	if mode == models.ModeFill {
		err = s.indexer.ClearAll(ctx)
	} else {
		err = s.indexer.DeleteByRegistrationNumbers(ctx, merged.RetractionKeys)
	}
	if err != nil {
		return 0, err
	}
	return s.indexer.IndexRecords(ctx, merged.Records)
}

// StartJob validates req, records a pending job and runs it in the background.
func (s *IngestService) StartJob(ctx context.Context, req requests.IngestRequest) (*models.IngestJob, error) {
	if err := s.validate(&req); err != nil {
		return nil, err
	}

	now := s.now()
	job := &models.IngestJob{
		ID:        utils.GenerateUUID(),
		Status:    models.JobStatusPending,
		Mode:      req.Mode,
		Dir:       req.Dir,
		Workers:   req.Workers,
		Message:   "Job queued",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.jobs.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("save job: %w", err)
	}

	snapshot := *job
	go s.processJob(job, req)

	return &snapshot, nil
}

// processJob owns job until it finishes. It does not inherit the request
// context, which ends as soon as the HTTP response is written.
func (s *IngestService) processJob(job *models.IngestJob, req requests.IngestRequest) {
	ctx := context.Background()
	logger := s.logger.With(zap.String("job_id", job.ID))

	save := func() {
		job.UpdatedAt = s.now()
		if err := s.jobs.Save(ctx, job); err != nil {
			logger.Warn("Cannot update job state", zap.Error(err))
		}
	}

	job.Status = models.JobStatusRunning
	save()

	report, err := s.run(ctx, req, func(stage string, stats models.IngestStats) {
		job.Message = stage
		job.Stats = stats
		save()
	})

	finished := s.now()
	job.FinishedAt = &finished
	if err != nil {
		logger.Error("Ingest job failed", zap.Error(err))
		job.Status = models.JobStatusFailed
		job.Message = err.Error()
		save()
		return
	}

	job.Status = models.JobStatusDone
	job.Documents = report.Documents
	job.Shards = report.Shards
	job.Stats = report.Stats
	job.Message = "Ingest completed"
	if report.SearchError != "" {
		job.Message = "Ingest completed; search index update failed: " + report.SearchError
	}
	save()
}

// GetJob returns the job or found=false.
func (s *IngestService) GetJob(ctx context.Context, id string) (*models.IngestJob, bool, error) {
	return s.jobs.Get(ctx, id)
}
