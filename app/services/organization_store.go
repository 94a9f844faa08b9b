package services

import (
	"context"
	"fmt"
	"time"

	"github.com/egrul-parser/app/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	organizationsCollection = "organizations"
	versionCollection       = "registry_version"
)

// OrganizationStore persists organization records in MongoDB.
type OrganizationStore struct {
	db         *mongo.Database
	collection *mongo.Collection
	versions   *mongo.Collection
	batchSize  int
	logger     *zap.Logger
	now        func() time.Time
}

// NewOrganizationStore creates the store and makes sure its indexes exist.
func NewOrganizationStore(db *mongo.Database, batchSize int, logger *zap.Logger) (*OrganizationStore, error) {
	if batchSize < 1 {
		return nil, fmt.Errorf("invalid insert batch size %d", batchSize)
	}

	collection := db.Collection(organizationsCollection)

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "inn", Value: 1}, {Key: "ogrn", Value: 1}, {Key: "kpp", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("organization_uniq"),
		},
		{
			Keys: bson.D{{Key: "ogrn", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "region_code", Value: 1}},
		},
		{
			Keys:    bson.D{{Key: "full_name", Value: "text"}, {Key: "short_name", Value: "text"}},
			Options: options.Index().SetDefaultLanguage("russian").SetName("organization_fts"),
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexModels); err != nil {
		logger.Warn("Cannot create organization indexes", zap.Error(err))
	}

	return &OrganizationStore{
		db:         db,
		collection: collection,
		versions:   db.Collection(versionCollection),
		batchSize:  batchSize,
		logger:     logger,
		now:        time.Now,
	}, nil
}

// Apply replaces records inside one transaction. The deployment must be a
// replica set or a sharded cluster.
//
// The whole load, a full fill included, runs in that single transaction, and
// MongoDB aborts transactions older than transactionLifetimeLimitSeconds
// (60 by default). A full registry takes longer than that to insert, so
// servers that run fills need the limit raised, e.g.
//
//	db.adminCommand({setParameter: 1, transactionLifetimeLimitSeconds: 3600})
//
// An aborted transaction leaves the previous registry state in place and
// is reported as an error.
func (s *OrganizationStore) Apply(ctx context.Context, mode models.IngestMode, keys []string, records []models.OrganizationRecord) (*ApplyResult, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("unknown ingest mode %q", mode)
	}

	session, err := s.db.Client().StartSession()
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	result := &ApplyResult{}
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		*result = ApplyResult{}

		var err error
		if mode == models.ModeFill {
			result.Deleted, err = s.TruncateAndReset(sc)
		} else {
			result.Deleted, err = s.DeleteByRegistrationNumbers(sc, keys)
		}
		if err != nil {
			return nil, err
		}

		if result.Inserted, err = s.BulkInsert(sc, records); err != nil {
			return nil, err
		}

		result.Version = models.RegistryVersion{
			ID:        models.RegistryVersionID,
			Version:   s.now().Format(models.VersionDateLayout),
			Mode:      string(mode),
			Records:   len(records),
			UpdatedAt: s.now().UTC(),
		}
		if err := s.saveVersion(sc, result.Version); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return nil, fmt.Errorf("apply %s transaction: %w", mode, err)
	}

	s.logger.Info("Registry records applied",
		zap.String("mode", string(mode)),
		zap.Int64("deleted", result.Deleted),
		zap.Int64("inserted", result.Inserted),
		zap.String("version", result.Version.Version))

	return result, nil
}

// BulkInsert inserts records in batches.
func (s *OrganizationStore) BulkInsert(ctx context.Context, records []models.OrganizationRecord) (int64, error) {
	var inserted int64
	for start := 0; start < len(records); start += s.batchSize {
		end := start + s.batchSize
		if end > len(records) {
			end = len(records)
		}

		docs := make([]interface{}, 0, end-start)
		for _, rec := range records[start:end] {
			docs = append(docs, rec)
		}

		res, err := s.collection.InsertMany(ctx, docs)
		if err != nil {
			return inserted, fmt.Errorf("insert organizations [%d:%d]: %w", start, end, err)
		}
		inserted += int64(len(res.InsertedIDs))

		s.logger.Debug("Inserted organization batch",
			zap.Int("from", start),
			zap.Int("to", end))
	}
	return inserted, nil
}

// DeleteByRegistrationNumbers removes every record of the given entities.
func (s *OrganizationStore) DeleteByRegistrationNumbers(ctx context.Context, keys []string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}

	var deleted int64
	for start := 0; start < len(keys); start += s.batchSize {
		end := start + s.batchSize
		if end > len(keys) {
			end = len(keys)
		}

		res, err := s.collection.DeleteMany(ctx, bson.M{"ogrn": bson.M{"$in": keys[start:end]}})
		if err != nil {
			return deleted, fmt.Errorf("delete organizations by ogrn: %w", err)
		}
		deleted += res.DeletedCount
	}
	return deleted, nil
}

// TruncateAndReset removes all records and the version stamp.
func (s *OrganizationStore) TruncateAndReset(ctx context.Context) (int64, error) {
	res, err := s.collection.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("truncate organizations: %w", err)
	}
	if _, err := s.versions.DeleteMany(ctx, bson.M{}); err != nil {
		return 0, fmt.Errorf("reset registry version: %w", err)
	}
	return res.DeletedCount, nil
}

func (s *OrganizationStore) saveVersion(ctx context.Context, v models.RegistryVersion) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := s.versions.ReplaceOne(ctx, bson.M{"_id": v.ID}, v, opts); err != nil {
		return fmt.Errorf("save registry version: %w", err)
	}
	return nil
}

// Version returns the last successful load stamp.
func (s *OrganizationStore) Version(ctx context.Context) (*models.RegistryVersion, error) {
	var v models.RegistryVersion
	err := s.versions.FindOne(ctx, bson.M{"_id": models.RegistryVersionID}).Decode(&v)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load registry version: %w", err)
	}
	return &v, nil
}

// Counts returns record totals.
func (s *OrganizationStore) Counts(ctx context.Context) (*RegistryCounts, error) {
	total, err := s.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("count organizations: %w", err)
	}
	main, err := s.collection.CountDocuments(ctx, bson.M{"is_main": true})
	if err != nil {
		return nil, fmt.Errorf("count head offices: %w", err)
	}
	return &RegistryCounts{Total: total, Main: main, Branches: total - main}, nil
}

// Scan streams all records in batches of batchSize.
func (s *OrganizationStore) Scan(ctx context.Context, batchSize int, fn func([]models.OrganizationRecord) error) error {
	opts := options.Find().
		SetBatchSize(int32(batchSize)).
		SetProjection(bson.M{"_id": 0})

	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return fmt.Errorf("scan organizations: %w", err)
	}
	defer cursor.Close(ctx)

	batch := make([]models.OrganizationRecord, 0, batchSize)
	for cursor.Next(ctx) {
		var rec models.OrganizationRecord
		if err := cursor.Decode(&rec); err != nil {
			s.logger.Warn("Cannot decode organization", zap.Error(err))
			continue
		}
		batch = append(batch, rec)
		if len(batch) == batchSize {
			if err := fn(batch); err != nil {
				return err
			}
			batch = make([]models.OrganizationRecord, 0, batchSize)
		}
	}
	if err := cursor.Err(); err != nil {
		return fmt.Errorf("scan organizations: %w", err)
	}
	if len(batch) > 0 {
		return fn(batch)
	}
	return nil
}
