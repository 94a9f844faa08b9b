// Package bootstrap builds the shared runtime used by the API server and the
// command-line tools.
package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/egrul-parser/app/config"
	"github.com/egrul-parser/app/services"
	"github.com/egrul-parser/internal/search"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// LoadConfig reads config/app.yaml through viper and config/parser.yaml into
// config.C. Missing files keep the defaults.
func LoadConfig() error {
	viper.SetConfigName("app")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.SetDefault("app.port", "8080")
	viper.SetDefault("app.env", "development")
	viper.SetDefault("mongo.url", "mongodb://localhost:27017/?replicaSet=rs0")
	viper.SetDefault("mongo.database", "egrul")
	viper.SetDefault("redis.url", "")
	viper.SetDefault("meilisearch.url", "")
	viper.SetDefault("meilisearch.master_key", "")
	viper.SetDefault("meilisearch.index", "organizations")
	viper.SetDefault("jobs.ttl_hours", 72)
	viper.SetDefault("jobs.memory_size", 256)
	viper.SetDefault("parser.config", "config/parser.yaml")

	// MONGO_URL overrides mongo.url and so on
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("read app config: %w", err)
		}
	}

	return config.Load(viper.GetString("parser.config"))
}

// NewLogger returns a production logger when env is "production".
func NewLogger(env string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	return cfg.Build()
}

// ConnectMongo connects and pings MongoDB.
func ConnectMongo(ctx context.Context, url, database string, logger *zap.Logger) (*mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(url))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	logger.Info("Connected to MongoDB", zap.String("database", database))
	return client.Database(database), nil
}

// Runtime holds the wired services.
type Runtime struct {
	DB      *mongo.Database
	Store   *services.OrganizationStore
	Indexer *search.OrgIndexer
	Jobs    services.IJobStore
	Ingest  *services.IngestService
	Admin   *services.AdminService
	Logger  *zap.Logger
}

// NewRuntime wires storage, search and job tracking from the loaded config.
// Search is optional: an empty meilisearch.url or an unreachable server
// disables it. Redis is optional too; jobs then live in process memory.
func NewRuntime(ctx context.Context, logger *zap.Logger) (*Runtime, error) {
	db, err := ConnectMongo(ctx, viper.GetString("mongo.url"), viper.GetString("mongo.database"), logger)
	if err != nil {
		return nil, err
	}

	store, err := services.NewOrganizationStore(db, config.C.Ingest.InsertBatchSize, logger)
	if err != nil {
		_ = db.Client().Disconnect(ctx)
		return nil, err
	}

	rt := &Runtime{DB: db, Store: store, Logger: logger}
	rt.Indexer = newIndexer(logger)

	if rt.Jobs, err = newJobStore(logger); err != nil {
		_ = db.Client().Disconnect(ctx)
		return nil, err
	}

	// a nil *OrgIndexer must not become a non-nil interface
	var indexer services.ISearchIndexer
	if rt.Indexer != nil {
		indexer = rt.Indexer
	}

	parserOpts := services.ParserOptions(config.C.Parser)
	rt.Ingest = services.NewIngestService(store, indexer, rt.Jobs, parserOpts, config.C.Ingest, logger)
	rt.Admin = services.NewAdminService(store, indexer, config.C.Ingest.IndexBatchSize, logger)
	return rt, nil
}

func newIndexer(logger *zap.Logger) *search.OrgIndexer {
	url := viper.GetString("meilisearch.url")
	if url == "" {
		logger.Info("Search index disabled")
		return nil
	}

	indexer, err := search.NewOrgIndexer(search.Config{
		Host:      url,
		APIKey:    viper.GetString("meilisearch.master_key"),
		IndexName: viper.GetString("meilisearch.index"),
		BatchSize: config.C.Ingest.IndexBatchSize,
	}, logger)
	if err != nil {
		logger.Warn("Meilisearch unavailable, search index disabled", zap.Error(err))
		return nil
	}
	if err := indexer.ConfigureIndex(); err != nil {
		logger.Warn("Failed to configure Meilisearch index", zap.Error(err))
	}
	return indexer
}

func newJobStore(logger *zap.Logger) (services.IJobStore, error) {
	if url := viper.GetString("redis.url"); url != "" {
		ttl := time.Duration(viper.GetInt("jobs.ttl_hours")) * time.Hour
		store, err := services.NewRedisJobStore(url, ttl, logger)
		if err == nil {
			return store, nil
		}
		logger.Warn("Redis unavailable, keeping jobs in memory", zap.Error(err))
	}
	return services.NewMemoryJobStore(viper.GetInt("jobs.memory_size"))
}

// PingMongo checks the MongoDB connection.
func (rt *Runtime) PingMongo(ctx context.Context) error {
	return rt.DB.Client().Ping(ctx, nil)
}

// Close releases every connection.
func (rt *Runtime) Close(ctx context.Context) {
	if err := rt.Jobs.Close(); err != nil {
		rt.Logger.Warn("Error closing job store", zap.Error(err))
	}
	if err := rt.DB.Client().Disconnect(ctx); err != nil {
		rt.Logger.Error("Error disconnecting MongoDB", zap.Error(err))
	}
}
