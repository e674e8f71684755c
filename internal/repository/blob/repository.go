package blob

import (
	"context"
	"fmt"
)

// Repository is a key to string blob store. Values are opaque; callers own
// the encoding.
type Repository interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Ping(ctx context.Context) error
}

type scoped struct {
	inner  Repository
	prefix string
}

// Scoped namespaces every key under "<scope>:<id>:" so several owners can
// share one underlying store.
func Scoped(inner Repository, scope, id string) Repository {
	return &scoped{inner: inner, prefix: fmt.Sprintf("%s:%s:", scope, id)}
}

func (s *scoped) Get(ctx context.Context, key string) (string, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *scoped) Set(ctx context.Context, key, value string) error {
	return s.inner.Set(ctx, s.prefix+key, value)
}

func (s *scoped) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}
