package profiles

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"nft-query-router/internal/common/database"
	apperrors "nft-query-router/internal/common/errors"
	"nft-query-router/internal/models"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "user_profile:"

// RedisStore keeps one JSON document per user. A zero TTL keeps entries forever.
type RedisStore struct {
	client *database.RedisClient
	ttl    time.Duration
}

func NewRedisStore(client *database.RedisClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	raw, err := s.client.Client.Get(ctx, keyPrefix+userID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperrors.NewProfileNotFoundError(userID)
	}
	if err != nil {
		return nil, apperrors.NewProfileStoreFailedError(err)
	}

	var p models.UserProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, apperrors.NewProfileStoreFailedError(err)
	}
	return &p, nil
}

func (s *RedisStore) Save(ctx context.Context, p *models.UserProfile) error {
	if err := Normalize(p); err != nil {
		return err
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return apperrors.NewProfileStoreFailedError(err)
	}
	if err := s.client.Client.Set(ctx, keyPrefix+p.UserID, raw, s.ttl).Err(); err != nil {
		return apperrors.NewProfileStoreFailedError(err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
