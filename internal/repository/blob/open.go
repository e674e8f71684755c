package blob

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"tecnostore/internal/db"
	"tecnostore/internal/migrate"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverBolt     = "bolt"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Options selects and configures a store driver.
type Options struct {
	Driver        string
	BoltPath      string
	DBConnString  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	// Migrate applies the kv_blobs schema before a Postgres store is used.
	Migrate bool
}

// Open builds the configured store. The returned close func releases the
// driver's resources and is never nil.
func Open(ctx context.Context, opts Options, logger *zap.Logger) (Repository, func() error, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	noop := func() error { return nil }

	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case DriverMemory:
		logger.Warn("store: using in-memory driver, data is lost on restart")
		return NewMemory(), noop, nil

	case "", DriverBolt:
		repo, err := OpenBolt(opts.BoltPath, logger)
		if err != nil {
			return nil, noop, err
		}
		return repo, repo.Close, nil

	case DriverPostgres:
		pool, err := db.Connect(ctx, opts.DBConnString, logger)
		if err != nil {
			return nil, noop, fmt.Errorf("connect to db: %w", err)
		}
		if opts.Migrate {
			if err := migrate.Apply(ctx, pool); err != nil {
				pool.Close()
				return nil, noop, fmt.Errorf("apply migrations: %w", err)
			}
		}
		return NewPostgres(pool, logger), func() error { pool.Close(); return nil }, nil

	case DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, noop, fmt.Errorf("ping redis: %w", err)
		}
		return NewRedis(client, logger), client.Close, nil
	}
	return nil, noop, fmt.Errorf("unknown store driver %q", opts.Driver)
}
