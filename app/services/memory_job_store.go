package services

import (
	"context"
	"fmt"

	"github.com/egrul-parser/app/models"
	lru "github.com/hashicorp/golang-lru/v2"
)

// MemoryJobStore keeps the most recent jobs in process memory. Used when no
// Redis is configured and by the CLI.
type MemoryJobStore struct {
	jobs *lru.Cache[string, models.IngestJob]
}

// NewMemoryJobStore keeps at most size jobs.
func NewMemoryJobStore(size int) (*MemoryJobStore, error) {
	cache, err := lru.New[string, models.IngestJob](size)
	if err != nil {
		return nil, fmt.Errorf("create job cache: %w", err)
	}
	return &MemoryJobStore{jobs: cache}, nil
}

// Save stores a copy of job.
func (s *MemoryJobStore) Save(_ context.Context, job *models.IngestJob) error {
	s.jobs.Add(job.ID, *job)
	return nil
}

// Get returns a copy of the stored job.
func (s *MemoryJobStore) Get(_ context.Context, id string) (*models.IngestJob, bool, error) {
	job, ok := s.jobs.Get(id)
	if !ok {
		return nil, false, nil
	}
	return &job, true, nil
}

// Len returns the number of retained jobs.
func (s *MemoryJobStore) Len() int {
	return s.jobs.Len()
}

func (s *MemoryJobStore) Close() error {
	s.jobs.Purge()
	return nil
}
