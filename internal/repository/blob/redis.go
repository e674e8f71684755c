package blob

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type redisRepo struct {
	client redis.UniversalClient
	logger *zap.Logger
}

// NewRedis stores blobs as plain redis strings without expiry.
func NewRedis(client redis.UniversalClient, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &redisRepo{client: client, logger: logger}
}

func (r *redisRepo) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		r.logger.Error("blob repo: redis get", zap.String("key", key), zap.Error(err))
		return "", false, err
	}
	return value, true, nil
}

func (r *redisRepo) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		r.logger.Error("blob repo: redis set", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

func (r *redisRepo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
