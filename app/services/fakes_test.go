package services

import (
	"context"
	"errors"
	"sync"

	"github.com/egrul-parser/app/models"
)

type fakeStore struct {
	mu       sync.Mutex
	records  []models.OrganizationRecord
	version  *models.RegistryVersion
	applied  int
	lastKeys []string
	applyErr error
}

func (f *fakeStore) Apply(_ context.Context, mode models.IngestMode, keys []string, records []models.OrganizationRecord) (*ApplyResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.applyErr != nil {
		return nil, f.applyErr
	}
	f.applied++
	f.lastKeys = keys

	var deleted int64
	if mode == models.ModeFill {
		deleted = int64(len(f.records))
		f.records = nil
	} else {
		drop := make(map[string]bool, len(keys))
		for _, k := range keys {
			drop[k] = true
		}
		kept := f.records[:0]
		for _, r := range f.records {
			if drop[r.RegistrationNumber] {
				deleted++
				continue
			}
			kept = append(kept, r)
		}
		f.records = kept
	}
	f.records = append(f.records, records...)
	f.version = &models.RegistryVersion{
		ID:      models.RegistryVersionID,
		Version: "2024-01-02",
		Mode:    string(mode),
		Records: len(records),
	}
	return &ApplyResult{Deleted: deleted, Inserted: int64(len(records)), Version: *f.version}, nil
}

func (f *fakeStore) BulkInsert(_ context.Context, records []models.OrganizationRecord) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, records...)
	return int64(len(records)), nil
}

func (f *fakeStore) DeleteByRegistrationNumbers(context.Context, []string) (int64, error) {
	return 0, errors.New("not used")
}

func (f *fakeStore) TruncateAndReset(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := int64(len(f.records))
	f.records = nil
	f.version = nil
	return n, nil
}

func (f *fakeStore) Version(context.Context) (*models.RegistryVersion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.version, nil
}

func (f *fakeStore) Counts(context.Context) (*RegistryCounts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := &RegistryCounts{Total: int64(len(f.records))}
	for _, r := range f.records {
		if r.IsMain {
			c.Main++
		}
	}
	c.Branches = c.Total - c.Main
	return c, nil
}

func (f *fakeStore) Scan(_ context.Context, batchSize int, fn func([]models.OrganizationRecord) error) error {
	f.mu.Lock()
	records := append([]models.OrganizationRecord(nil), f.records...)
	f.mu.Unlock()
	for start := 0; start < len(records); start += batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}
		if err := fn(records[start:end]); err != nil {
			return err
		}
	}
	return nil
}

type fakeIndexer struct {
	mu       sync.Mutex
	docs     map[models.RecordKey]models.OrganizationRecord
	clears   int
	deleted  []string
	indexErr error
}

func newFakeIndexer() *fakeIndexer {
	return &fakeIndexer{docs: make(map[models.RecordKey]models.OrganizationRecord)}
}

func (f *fakeIndexer) ClearAll(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
	f.docs = make(map[models.RecordKey]models.OrganizationRecord)
	return nil
}

func (f *fakeIndexer) DeleteByRegistrationNumbers(_ context.Context, keys []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, keys...)
	for k, r := range f.docs {
		for _, ogrn := range keys {
			if r.RegistrationNumber == ogrn {
				delete(f.docs, k)
			}
		}
	}
	return nil
}

func (f *fakeIndexer) IndexRecords(_ context.Context, records []models.OrganizationRecord) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.indexErr != nil {
		return 0, f.indexErr
	}
	for _, r := range records {
		f.docs[r.Key()] = r
	}
	return len(records), nil
}
