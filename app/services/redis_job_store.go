package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/egrul-parser/app/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisJobStore keeps ingest jobs in Redis so any API replica can report them.
type RedisJobStore struct {
	client *redis.Client
	logger *zap.Logger
	prefix string
	ttl    time.Duration
}

// NewRedisJobStore connects to redisURL and checks the connection.
func NewRedisJobStore(redisURL string, ttl time.Duration, logger *zap.Logger) (*RedisJobStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	return NewRedisJobStoreWithClient(client, ttl, logger), nil
}

// NewRedisJobStoreWithClient wraps an existing client.
func NewRedisJobStoreWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisJobStore {
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &RedisJobStore{
		client: client,
		logger: logger,
		prefix: "egrul:ingest_job:",
		ttl:    ttl,
	}
}

// Save stores the job and refreshes its TTL.
func (s *RedisJobStore) Save(ctx context.Context, job *models.IngestJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}

	if err := s.client.Set(ctx, s.prefix+job.ID, data, s.ttl).Err(); err != nil {
		s.logger.Error("Cannot save job to Redis", zap.Error(err), zap.String("job_id", job.ID))
		return err
	}
	return nil
}

// Get loads a job by id.
func (s *RedisJobStore) Get(ctx context.Context, id string) (*models.IngestJob, bool, error) {
	val, err := s.client.Get(ctx, s.prefix+id).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get job %s: %w", id, err)
	}

	var job models.IngestJob
	if err := json.Unmarshal([]byte(val), &job); err != nil {
		return nil, false, fmt.Errorf("unmarshal job %s: %w", id, err)
	}
	return &job, true, nil
}

// Close closes the Redis client.
func (s *RedisJobStore) Close() error {
	return s.client.Close()
}
