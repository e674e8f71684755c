package blob

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgres stores blobs in the kv_blobs table created by the migrations.
func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Get(ctx context.Context, key string) (string, bool, error) {
	const q = `
SELECT value
FROM kv_blobs
WHERE key = $1
`
	var value string
	err := r.pool.QueryRow(ctx, q, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("blob repo: get not found", zap.String("key", key))
			return "", false, nil
		}
		r.logger.Error("blob repo: get", zap.String("key", key), zap.Error(err))
		return "", false, err
	}
	return value, true, nil
}

func (r *postgresRepo) Set(ctx context.Context, key, value string) error {
	const q = `
INSERT INTO kv_blobs (key, value)
VALUES ($1, $2)
ON CONFLICT (key) DO UPDATE
SET value = EXCLUDED.value,
    updated_at = now()
`
	if _, err := r.pool.Exec(ctx, q, key, value); err != nil {
		r.logger.Error("blob repo: set", zap.String("key", key), zap.Error(err))
		return err
	}
	r.logger.Debug("blob repo: set", zap.String("key", key), zap.Int("bytes", len(value)))
	return nil
}

func (r *postgresRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
