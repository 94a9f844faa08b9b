package services

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/egrul-parser/app/models"
	"go.uber.org/zap"
)

// ErrSearchDisabled is returned by Reindex when no search index is configured.
var ErrSearchDisabled = errors.New("search index is not configured")

// SystemStats reports stored records and process health.
type SystemStats struct {
	Counts   RegistryCounts `json:"counts"`
	Uptime   string         `json:"uptime"`
	MemoryMB uint64         `json:"memory_mb"`
}

// ReindexResult reports a search index rebuild.
type ReindexResult struct {
	Indexed          int   `json:"indexed"`
	ProcessingTimeMs int64 `json:"processing_time_ms"`
}

// AdminService answers registry status queries and maintains the search index.
type AdminService struct {
	store     IRecordStore
	indexer   ISearchIndexer
	batchSize int
	logger    *zap.Logger
	startTime time.Time
}

// NewAdminService creates the service. indexer may be nil.
func NewAdminService(store IRecordStore, indexer ISearchIndexer, batchSize int, logger *zap.Logger) *AdminService {
	return &AdminService{
		store:     store,
		indexer:   indexer,
		batchSize: batchSize,
		logger:    logger,
		startTime: time.Now(),
	}
}

// Version returns the last successful load, or nil.
func (as *AdminService) Version(ctx context.Context) (*models.RegistryVersion, error) {
	return as.store.Version(ctx)
}

// GetSystemStats returns record counts with uptime and heap usage.
func (as *AdminService) GetSystemStats(ctx context.Context) (*SystemStats, error) {
	counts, err := as.store.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return &SystemStats{
		Counts:   *counts,
		Uptime:   time.Since(as.startTime).Round(time.Second).String(),
		MemoryMB: bToMb(m.Alloc),
	}, nil
}

// Reindex clears the search index and refills it from storage.
func (as *AdminService) Reindex(ctx context.Context, batchSize int) (*ReindexResult, error) {
	if as.indexer == nil {
		return nil, ErrSearchDisabled
	}
	if batchSize <= 0 {
		batchSize = as.batchSize
	}

	startTime := time.Now()
	if err := as.indexer.ClearAll(ctx); err != nil {
		return nil, fmt.Errorf("clear search index: %w", err)
	}

	total := 0
	err := as.store.Scan(ctx, batchSize, func(batch []models.OrganizationRecord) error {
		n, err := as.indexer.IndexRecords(ctx, batch)
		total += n
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("reindex after %d records: %w", total, err)
	}

	processingTime := time.Since(startTime)
	as.logger.Info("Search index rebuilt",
		zap.Int("indexed", total),
		zap.Duration("processing_time", processingTime))

	return &ReindexResult{
		Indexed:          total,
		ProcessingTimeMs: processingTime.Milliseconds(),
	}, nil
}

func bToMb(b uint64) uint64 {
	return b / 1024 / 1024
}
