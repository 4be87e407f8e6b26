package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/streamops/stitcher/internal/apperr"
	"github.com/streamops/stitcher/internal/logger"
)

// redisKeyPrefix namespaces every session key in the shared store.
const redisKeyPrefix = "ritcher:session:"

// redisRecord is the JSON shape stored at each session's key.
type redisRecord struct {
	ID                 string `json:"id"`
	OriginURL          string `json:"origin_url"`
	CreatedAtEpochS    int64  `json:"created_at_epoch_s"`
	LastAccessedEpochS int64  `json:"last_accessed_epoch_s"`
}

// RedisManager stores sessions in Redis with a native per-key TTL, so
// CleanupExpired is a no-op: Redis reaps the keys itself.
type RedisManager struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

var _ Manager = (*RedisManager)(nil)

// NewRedisManager connects to storeURL (a redis:// connection string)
// and returns a Manager backed by it.
func NewRedisManager(storeURL string, ttl time.Duration, log logger.Logger) (*RedisManager, error) {
	opts, err := redis.ParseURL(storeURL)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindConfig, "invalid REMOTE_STORE_URL", err)
	}
	return &RedisManager{client: redis.NewClient(opts), ttl: ttl, logger: log}, nil
}

func (r *RedisManager) key(id string) string {
	return redisKeyPrefix + id
}

func (r *RedisManager) GetOrCreate(ctx context.Context, id, originURL string) (Session, error) {
	if existing, ok, err := r.Get(ctx, id); err != nil {
		return Session{}, err
	} else if ok {
		return existing, nil
	}

	now := time.Now()
	s := Session{ID: id, OriginURL: originURL, CreatedAt: now, LastAccessed: now}
	if err := r.write(ctx, s); err != nil {
		return Session{}, err
	}
	return s, nil
}

func (r *RedisManager) Get(ctx context.Context, id string) (Session, bool, error) {
	raw, err := r.client.Get(ctx, r.key(id)).Result()
	if err == redis.Nil {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, apperr.Wrap(apperr.KindInternal, "session store read failed", err)
	}

	var rec redisRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return Session{}, false, apperr.Wrap(apperr.KindInternal, "session store record corrupt", err)
	}
	return Session{
		ID:           rec.ID,
		OriginURL:    rec.OriginURL,
		CreatedAt:    time.Unix(rec.CreatedAtEpochS, 0).UTC(),
		LastAccessed: time.Unix(rec.LastAccessedEpochS, 0).UTC(),
	}, true, nil
}

func (r *RedisManager) Touch(ctx context.Context, id string) error {
	s, ok, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	s.LastAccessed = time.Now()
	return r.write(ctx, s)
}

func (r *RedisManager) Remove(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return apperr.Wrap(apperr.KindInternal, "session store delete failed", err)
	}
	return nil
}

// CleanupExpired is a no-op: Redis's native per-key TTL reaps expired
// sessions without an explicit sweep.
func (r *RedisManager) CleanupExpired(_ context.Context) error {
	return nil
}

func (r *RedisManager) SessionCount(ctx context.Context) (int, error) {
	var count int
	iter := r.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, apperr.Wrap(apperr.KindInternal, "session store scan failed", err)
	}
	return count, nil
}

func (r *RedisManager) Stop() {
	if err := r.client.Close(); err != nil {
		r.logger.Warnf("session: redis client close failed: %v", err)
	}
}

func (r *RedisManager) write(ctx context.Context, s Session) error {
	rec := redisRecord{
		ID:                 s.ID,
		OriginURL:          s.OriginURL,
		CreatedAtEpochS:    s.CreatedAt.Unix(),
		LastAccessedEpochS: s.LastAccessed.Unix(),
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("session: marshal record: %w", err)
	}
	if err := r.client.Set(ctx, r.key(s.ID), data, r.ttl).Err(); err != nil {
		return apperr.Wrap(apperr.KindInternal, "session store write failed", err)
	}
	return nil
}
