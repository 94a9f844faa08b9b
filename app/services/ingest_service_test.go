package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/egrul-parser/app/config"
	"github.com/egrul-parser/app/models"
	"github.com/egrul-parser/app/requests"
	"github.com/egrul-parser/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	fillDir   = "../../internal/parser/testdata/fill"
	updateDir = "../../internal/parser/testdata/update"
)

func newTestService(t *testing.T, store IRecordStore, indexer ISearchIndexer) *IngestService {
	t.Helper()
	jobs, err := NewMemoryJobStore(16)
	require.NoError(t, err)
	cfg := config.Default()
	return NewIngestService(store, indexer, jobs, ParserOptions(cfg.Parser), cfg.Ingest, zap.NewNop())
}

func TestIngestService_RunFill(t *testing.T) {
	store := &fakeStore{}
	indexer := newFakeIndexer()
	svc := newTestService(t, store, indexer)

	report, err := svc.Run(context.Background(), requests.IngestRequest{Dir: fillDir, Mode: models.ModeFill, Workers: 2})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Documents)
	assert.Equal(t, 1, report.Shards)
	assert.Equal(t, 6, report.Stats.RecordsEmitted)
	assert.Equal(t, int64(6), report.Stats.RecordsInserted)
	assert.Equal(t, 1, report.Stats.LiquidatedSkipped)
	assert.Equal(t, 1, report.Stats.EntitiesFailed)
	assert.Empty(t, store.lastKeys)
	assert.Equal(t, "fill", report.Version.Mode)

	assert.Equal(t, 1, indexer.clears)
	assert.Equal(t, 6, report.Indexed)
	assert.Len(t, indexer.docs, 6)
	assert.Empty(t, report.SearchError)
}

func TestIngestService_RunUpdateReplacesEntities(t *testing.T) {
	store := &fakeStore{}
	indexer := newFakeIndexer()
	svc := newTestService(t, store, indexer)
	ctx := context.Background()

	_, err := svc.Run(ctx, requests.IngestRequest{Dir: fillDir, Mode: models.ModeFill, Workers: 1})
	require.NoError(t, err)

	report, err := svc.Run(ctx, requests.IngestRequest{Dir: updateDir, Mode: models.ModeUpdate, Workers: 1})
	require.NoError(t, err)

	assert.Equal(t, []string{"1111111111111", "4444444444444"}, store.lastKeys)
	// one head office and three branches of 4444444444444, plus the old 1111111111111 record
	assert.Equal(t, int64(5), report.Stats.RecordsDeleted)
	assert.Equal(t, int64(1), report.Stats.RecordsInserted)

	counts, err := store.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts.Total)
	assert.Equal(t, int64(0), counts.Branches)

	assert.Equal(t, 1, indexer.clears)
	assert.Equal(t, []string{"1111111111111", "4444444444444"}, indexer.deleted)
	assert.Len(t, indexer.docs, 2)
}

func TestIngestService_ShardsMatchSingleWorker(t *testing.T) {
	dir := t.TempDir()
	for _, src := range []string{
		filepath.Join(fillDir, "EGRUL_FULL_01.XML"),
		filepath.Join(updateDir, "EGRUL_UPD_01.XML"),
	} {
		data, err := os.ReadFile(src)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, filepath.Base(src)), data, 0o644))
	}

	run := func(workers int) []models.OrganizationRecord {
		store := &fakeStore{}
		svc := newTestService(t, store, nil)
		report, err := svc.Run(context.Background(), requests.IngestRequest{Dir: dir, Mode: models.ModeUpdate, Workers: workers})
		require.NoError(t, err)
		assert.Equal(t, 2, report.Documents)
		return store.records
	}

	single := run(1)
	sharded := run(4)
	assert.Equal(t, single, sharded)

	seen := make(map[models.RecordKey]bool)
	for _, r := range sharded {
		assert.False(t, seen[r.Key()], "duplicate %v", r.Key())
		seen[r.Key()] = true
	}
}

func TestIngestService_RejectsInvalidRequests(t *testing.T) {
	svc := newTestService(t, &fakeStore{}, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		req  requests.IngestRequest
	}{
		{"missing dir", requests.IngestRequest{Mode: models.ModeFill}},
		{"unknown mode", requests.IngestRequest{Dir: fillDir, Mode: "merge"}},
		{"too many workers", requests.IngestRequest{Dir: fillDir, Mode: models.ModeFill, Workers: 9}},
		{"negative workers", requests.IngestRequest{Dir: fillDir, Mode: models.ModeFill, Workers: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Run(ctx, tt.req)
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
}

func TestIngestService_NoDocuments(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(t, store, nil)

	_, err := svc.Run(context.Background(), requests.IngestRequest{Dir: t.TempDir(), Mode: models.ModeFill})
	assert.ErrorIs(t, err, parser.ErrNoDocuments)
	assert.Zero(t, store.applied)
}

func TestIngestService_MalformedShardWritesNothing(t *testing.T) {
	dir := t.TempDir()
	data, err := os.ReadFile(filepath.Join(fillDir, "EGRUL_FULL_01.XML"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.xml"), data, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.xml"), []byte("<Файл><СвЮЛ ОГРН="), 0o644))

	store := &fakeStore{}
	svc := newTestService(t, store, nil)

	_, err = svc.Run(context.Background(), requests.IngestRequest{Dir: dir, Mode: models.ModeFill, Workers: 2})
	var docErr *parser.DocumentError
	require.ErrorAs(t, err, &docErr)
	assert.Contains(t, docErr.Document, "b.xml")
	assert.Zero(t, store.applied)
}

func TestIngestService_StoreFailure(t *testing.T) {
	boom := errors.New("transaction aborted")
	indexer := newFakeIndexer()
	svc := newTestService(t, &fakeStore{applyErr: boom}, indexer)

	_, err := svc.Run(context.Background(), requests.IngestRequest{Dir: fillDir, Mode: models.ModeFill})
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, indexer.clears)
}

func TestIngestService_SearchFailureIsNotFatal(t *testing.T) {
	store := &fakeStore{}
	indexer := newFakeIndexer()
	indexer.indexErr = errors.New("meilisearch unavailable")
	svc := newTestService(t, store, indexer)

	report, err := svc.Run(context.Background(), requests.IngestRequest{Dir: fillDir, Mode: models.ModeFill})
	require.NoError(t, err)
	assert.Equal(t, "meilisearch unavailable", report.SearchError)
	assert.Len(t, store.records, 6)
}

func TestIngestService_StartJob(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(t, store, newFakeIndexer())
	ctx := context.Background()

	job, err := svc.StartJob(ctx, requests.IngestRequest{Dir: fillDir, Mode: models.ModeFill})
	require.NoError(t, err)
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, models.JobStatusPending, job.Status)
	assert.Equal(t, config.Default().Ingest.Workers, job.Workers)

	var final *models.IngestJob
	require.Eventually(t, func() bool {
		got, found, err := svc.GetJob(ctx, job.ID)
		if err != nil || !found {
			return false
		}
		final = got
		return got.Status == models.JobStatusDone || got.Status == models.JobStatusFailed
	}, 5*time.Second, 10*time.Millisecond)

	assert.Equal(t, models.JobStatusDone, final.Status)
	assert.Equal(t, 6, final.Stats.RecordsEmitted)
	assert.Equal(t, int64(6), final.Stats.RecordsInserted)
	assert.Equal(t, 1, final.Documents)
	assert.NotNil(t, final.FinishedAt)
}

func TestIngestService_StartJobFailure(t *testing.T) {
	svc := newTestService(t, &fakeStore{}, nil)
	ctx := context.Background()

	job, err := svc.StartJob(ctx, requests.IngestRequest{Dir: t.TempDir(), Mode: models.ModeUpdate})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		got, found, _ := svc.GetJob(ctx, job.ID)
		return found && got.Status == models.JobStatusFailed
	}, 5*time.Second, 10*time.Millisecond)

	got, _, _ := svc.GetJob(ctx, job.ID)
	assert.Contains(t, got.Message, parser.ErrNoDocuments.Error())
}

func TestIngestService_StartJobRejectsInvalid(t *testing.T) {
	svc := newTestService(t, &fakeStore{}, nil)
	_, err := svc.StartJob(context.Background(), requests.IngestRequest{Dir: fillDir, Mode: "merge"})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestIngestService_UpdateKeepsNewestDay(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	entity := func(ogrn, name, region, index, extra string) string {
		return `<СвЮЛ ОГРН="` + ogrn + `" ИНН="7700000001" КПП="770001001">` +
			`<СвНаимЮЛ НаимЮЛПолн="` + name + `"/>` +
			`<СвАдресЮЛ><АдресРФ КодРегион="` + region + `" Индекс="` + index + `"/></СвАдресЮЛ>` +
			extra + `</СвЮЛ>`
	}
	write("EGRUL_UPD_2024-01-01.XML", `<Файл>`+
		entity("1027700000001", "СТАРОЕ ИМЯ", "77", "101000", "")+
		entity("1027700000002", "ЗАКРОЕТСЯ", "77", "101000", "")+`</Файл>`)
	write("EGRUL_UPD_2024-01-02.XML", `<Файл>`+
		entity("1027700000001", "НОВОЕ ИМЯ", "50", "140000", "")+
		entity("1027700000002", "ЗАКРОЕТСЯ", "77", "101000", "<СвПрекрЮЛ/>")+`</Файл>`)

	store := &fakeStore{}
	svc := newTestService(t, store, nil)

	report, err := svc.Run(context.Background(), requests.IngestRequest{Dir: dir, Mode: models.ModeUpdate, Workers: 2})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Shards)
	assert.Equal(t, []string{"1027700000001", "1027700000002"}, store.lastKeys)
	require.Len(t, store.records, 1)
	assert.Equal(t, "НОВОЕ ИМЯ", store.records[0].FullName)
	assert.Equal(t, "МОСКОВСКАЯ ОБЛАСТЬ, 140000", store.records[0].Address)
	assert.Equal(t, "50", store.records[0].RegionCode)
	assert.Equal(t, 2, report.Stats.DuplicatesDropped)
	assert.Equal(t, 1, report.Stats.LiquidatedSkipped)
}
