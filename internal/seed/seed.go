package seed

import (
	"context"
	"encoding/json"
	"fmt"

	"tecnostore/internal/repository/blob"
	"tecnostore/internal/service/catalog"
)

// Apply writes the default product catalog under key. An existing catalog is
// left alone unless reset is set, so running it twice is harmless. It reports
// whether anything was written.
func Apply(ctx context.Context, repo blob.Repository, key string, reset bool) (bool, error) {
	if !reset {
		_, ok, err := repo.Get(ctx, key)
		if err != nil {
			return false, fmt.Errorf("read %s: %w", key, err)
		}
		if ok {
			return false, nil
		}
	}

	raw, err := json.Marshal(catalog.DefaultProducts())
	if err != nil {
		return false, fmt.Errorf("encode defaults: %w", err)
	}
	if err := repo.Set(ctx, key, string(raw)); err != nil {
		return false, fmt.Errorf("write %s: %w", key, err)
	}
	return true, nil
}
