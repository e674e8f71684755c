package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

var boltBucket = []byte("blobs")

// BoltRepo stores blobs in a single bbolt bucket.
type BoltRepo struct {
	db     *bolt.DB
	logger *zap.Logger
}

// OpenBolt opens (or creates) the database file at path.
func OpenBolt(path string, logger *zap.Logger) (*BoltRepo, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create bolt dir: %w", err)
		}
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}
	return &BoltRepo{db: db, logger: logger}, nil
}

func (r *BoltRepo) Get(_ context.Context, key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := r.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(boltBucket).Get([]byte(key))
		if raw == nil {
			return nil
		}
		// raw is only valid inside the transaction.
		value, found = string(raw), true
		return nil
	})
	if err != nil {
		r.logger.Error("blob repo: bolt get", zap.String("key", key), zap.Error(err))
		return "", false, err
	}
	return value, found, nil
}

func (r *BoltRepo) Set(_ context.Context, key, value string) error {
	err := r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(boltBucket).Put([]byte(key), []byte(value))
	})
	if err != nil {
		r.logger.Error("blob repo: bolt set", zap.String("key", key), zap.Error(err))
		return err
	}
	r.logger.Debug("blob repo: bolt set", zap.String("key", key), zap.Int("bytes", len(value)))
	return nil
}

func (r *BoltRepo) Ping(context.Context) error {
	return r.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(boltBucket) == nil {
			return fmt.Errorf("bucket %s missing", boltBucket)
		}
		return nil
	})
}

func (r *BoltRepo) Close() error {
	return r.db.Close()
}
