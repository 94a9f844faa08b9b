package services

import (
	"context"

	"github.com/egrul-parser/app/models"
)

// RegistryCounts splits stored records into head offices and branches.
type RegistryCounts struct {
	Total    int64 `json:"total"`
	Main     int64 `json:"main"`
	Branches int64 `json:"branches"`
}

// ApplyResult is what one storage transaction changed.
type ApplyResult struct {
	Deleted  int64                  `json:"deleted"`
	Inserted int64                  `json:"inserted"`
	Version  models.RegistryVersion `json:"version"`
}

// IRecordStore persists organization records.
type IRecordStore interface {
	// Apply runs delete-then-insert (update) or truncate-then-insert (fill)
	// and stamps the registry version, all in one transaction.
	Apply(ctx context.Context, mode models.IngestMode, keys []string, records []models.OrganizationRecord) (*ApplyResult, error)

	BulkInsert(ctx context.Context, records []models.OrganizationRecord) (int64, error)

	DeleteByRegistrationNumbers(ctx context.Context, keys []string) (int64, error)

	TruncateAndReset(ctx context.Context) (int64, error)

	// Version returns nil when nothing was loaded yet.
	Version(ctx context.Context) (*models.RegistryVersion, error)

	Counts(ctx context.Context) (*RegistryCounts, error)

	// Scan calls fn with consecutive batches of stored records.
	Scan(ctx context.Context, batchSize int, fn func([]models.OrganizationRecord) error) error
}

// ISearchIndexer mirrors stored records into the full-text index.
type ISearchIndexer interface {
	ClearAll(ctx context.Context) error
	DeleteByRegistrationNumbers(ctx context.Context, keys []string) error
	IndexRecords(ctx context.Context, records []models.OrganizationRecord) (int, error)
}

// IJobStore keeps ingest job state.
type IJobStore interface {
	Save(ctx context.Context, job *models.IngestJob) error

	// Get reports found=false for unknown or expired jobs.
	Get(ctx context.Context, id string) (*models.IngestJob, bool, error)

	Close() error
}
