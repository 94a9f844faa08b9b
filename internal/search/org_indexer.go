package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/egrul-parser/app/models"
	"github.com/egrul-parser/helpers/utils"
	"github.com/egrul-parser/internal/normalizer"
	"github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"
)

// Config holds the Meilisearch connection settings.
type Config struct {
	Host      string
	APIKey    string
	IndexName string
	BatchSize int
}

// OrgDocument is the indexed form of an organization record.
type OrgDocument struct {
	ID               string `json:"id"`
	OGRN             string `json:"ogrn"`
	INN              string `json:"inn"`
	KPP              string `json:"kpp"`
	FullName         string `json:"full_name"`
	ShortName        string `json:"short_name,omitempty"`
	FullNameTranslit string `json:"full_name_translit"`
	Address          string `json:"address"`
	RegionCode       string `json:"region_code"`
	IsMain           bool   `json:"is_main"`
}

// NewOrgDocument converts a record. The id is derived from the uniqueness
// triple, so re-indexing a record overwrites its previous document.
func NewOrgDocument(rec models.OrganizationRecord) OrgDocument {
	return OrgDocument{
		ID:               utils.StableID(rec.TaxID, rec.RegistrationNumber, rec.TaxCode),
		OGRN:             rec.RegistrationNumber,
		INN:              rec.TaxID,
		KPP:              rec.TaxCode,
		FullName:         rec.FullName,
		ShortName:        rec.ShortNameOrEmpty(),
		FullNameTranslit: normalizer.Transliterate(rec.FullName),
		Address:          rec.Address,
		RegionCode:       rec.RegionCode,
		IsMain:           rec.IsMain,
	}
}

// OrgIndexer feeds organization records into a Meilisearch index.
type OrgIndexer struct {
	client    meilisearch.ServiceManager
	logger    *zap.Logger
	indexName string
	batchSize int
}

// NewOrgIndexer connects to Meilisearch and checks its health.
func NewOrgIndexer(config Config, logger *zap.Logger) (*OrgIndexer, error) {
	if config.IndexName == "" {
		return nil, errors.New("search index name is required")
	}
	if config.BatchSize < 1 {
		config.BatchSize = 1000
	}

	client := meilisearch.New(config.Host, meilisearch.WithAPIKey(config.APIKey))
	if _, err := client.Health(); err != nil {
		return nil, fmt.Errorf("connect meilisearch: %w", err)
	}

	return &OrgIndexer{
		client:    client,
		logger:    logger,
		indexName: config.IndexName,
		batchSize: config.BatchSize,
	}, nil
}

// Ping checks that Meilisearch answers health requests.
func (oi *OrgIndexer) Ping(_ context.Context) error {
	if _, err := oi.client.Health(); err != nil {
		return fmt.Errorf("meilisearch health: %w", err)
	}
	return nil
}

// ConfigureIndex applies searchable and filterable attributes.
func (oi *OrgIndexer) ConfigureIndex() error {
	index := oi.client.Index(oi.indexName)

	task, err := index.UpdateSettings(&meilisearch.Settings{
		SearchableAttributes: []string{"full_name", "short_name", "full_name_translit", "address"},
		FilterableAttributes: []string{"ogrn", "inn", "kpp", "region_code", "is_main"},
		SortableAttributes:   []string{"ogrn"},
		RankingRules:         []string{"words", "typo", "proximity", "attribute", "sort", "exactness"},
		Synonyms: map[string][]string{
			"ооо": {"общество с ограниченной ответственностью"},
			"ао":  {"акционерное общество"},
			"пао": {"публичное акционерное общество"},
		},
		TypoTolerance: &meilisearch.TypoTolerance{
			Enabled:             true,
			DisableOnAttributes: []string{"ogrn", "inn", "kpp"},
		},
	})
	if err != nil {
		return fmt.Errorf("configure index %s: %w", oi.indexName, err)
	}

	oi.logger.Info("Meilisearch index configured",
		zap.String("index", oi.indexName),
		zap.Int64("task_uid", task.TaskUID))
	return nil
}

// IndexRecords adds records in batches and returns how many were enqueued.
func (oi *OrgIndexer) IndexRecords(ctx context.Context, records []models.OrganizationRecord) (int, error) {
	index := oi.client.Index(oi.indexName)

	sent := 0
	for start := 0; start < len(records); start += oi.batchSize {
		if err := ctx.Err(); err != nil {
			return sent, err
		}

		end := start + oi.batchSize
		if end > len(records) {
			end = len(records)
		}

		docs := make([]OrgDocument, 0, end-start)
		for _, rec := range records[start:end] {
			docs = append(docs, NewOrgDocument(rec))
		}

		task, err := index.AddDocuments(docs, "id")
		if err != nil {
			return sent, fmt.Errorf("add documents [%d:%d]: %w", start, end, err)
		}
		sent += len(docs)

		oi.logger.Debug("Indexed organization batch",
			zap.Int("from", start),
			zap.Int("to", end),
			zap.Int64("task_uid", task.TaskUID))
	}
	return sent, nil
}

// DeleteByRegistrationNumbers removes every document of the given entities.
func (oi *OrgIndexer) DeleteByRegistrationNumbers(ctx context.Context, keys []string) error {
	index := oi.client.Index(oi.indexName)

	for start := 0; start < len(keys); start += oi.batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := start + oi.batchSize
		if end > len(keys) {
			end = len(keys)
		}

		if _, err := index.DeleteDocumentsByFilter(FilterIn("ogrn", keys[start:end])); err != nil {
			return fmt.Errorf("delete documents by ogrn: %w", err)
		}
	}
	return nil
}

// ClearAll removes every document from the index.
func (oi *OrgIndexer) ClearAll(_ context.Context) error {
	task, err := oi.client.Index(oi.indexName).DeleteAllDocuments()
	if err != nil {
		return fmt.Errorf("clear index %s: %w", oi.indexName, err)
	}
	oi.logger.Info("Meilisearch index cleared", zap.Int64("task_uid", task.TaskUID))
	return nil
}
