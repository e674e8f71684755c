package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"tecnostore/internal/domain"
	"tecnostore/internal/repository/blob"
)

// Renderer receives the full product list after every mutation.
type Renderer interface {
	RenderCatalog(products []domain.Product)
}

type Option func(*Service)

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithRenderer(r Renderer) Option {
	return func(s *Service) { s.renderer = r }
}

// WithClock replaces the id clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service owns the ordered product list and its persisted copy.
type Service struct {
	mu       sync.Mutex
	repo     blob.Repository
	key      string
	products []domain.Product
	lastID   int64
	now      func() time.Time
	renderer Renderer
	logger   *zap.Logger
}

func New(repo blob.Repository, key string, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		key:    key,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore loads the persisted catalog. A missing key yields the default
// catalog; an undecodable blob is logged and replaced by the defaults too.
func (s *Service) Restore(ctx context.Context) error {
	raw, ok, err := s.repo.Get(ctx, s.key)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	products := DefaultProducts()
	if ok {
		decoded, err := decode(raw)
		if err != nil {
			s.logger.Warn("catalog: stored catalog unreadable, using defaults", zap.String("key", s.key), zap.Error(err))
		} else {
			products = s.sanitize(decoded)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = products
	for _, p := range products {
		s.lastID = max(s.lastID, p.ID)
	}
	s.logger.Info("catalog: restored", zap.Int("count", len(products)), zap.Bool("stored", ok))
	s.render()
	return nil
}

// Persist writes the current catalog to the store.
func (s *Service) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persist(ctx)
}

// Add validates fields, assigns a fresh id and appends the product.
func (s *Service) Add(ctx context.Context, f domain.ProductFields) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := domain.NewProduct(s.peekID(), f)
	if err != nil {
		return domain.Product{}, err
	}
	s.lastID = p.ID
	s.products = append(s.products, p)
	s.logger.Info("catalog: add", zap.Int64("id", p.ID), zap.String("name", p.Name))
	return p, s.commit(ctx)
}

// Update replaces every field except the id.
func (s *Service) Update(ctx context.Context, id int64, f domain.ProductFields) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.index(id)
	if idx < 0 {
		return domain.Product{}, fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
	}
	p, err := domain.NewProduct(id, f)
	if err != nil {
		return domain.Product{}, err
	}
	s.products[idx] = p
	s.logger.Info("catalog: update", zap.Int64("id", id))
	return p, s.commit(ctx)
}

// Remove deletes the product if present. Cart lines holding the id are left
// alone.
func (s *Service) Remove(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.index(id)
	if idx < 0 {
		return false, nil
	}
	s.products = slices.Delete(s.products, idx, idx+1)
	s.logger.Info("catalog: remove", zap.Int64("id", id))
	return true, s.commit(ctx)
}

func (s *Service) Find(id int64) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.index(id); idx >= 0 {
		return s.products[idx], nil
	}
	return domain.Product{}, fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
}

// List yields products whose name, category or description contains filter,
// ignoring case. Each range over the sequence reads the catalog afresh.
func (s *Service) List(filter string) iter.Seq[domain.Product] {
	needle := strings.ToLower(strings.TrimSpace(filter))
	return func(yield func(domain.Product) bool) {
		for _, p := range s.snapshot() {
			if needle != "" && !matchesText(p, needle) {
				continue
			}
			if !yield(p) {
				return
			}
		}
	}
}

// Products returns a copy of the full catalog in insertion order.
func (s *Service) Products() []domain.Product {
	return s.snapshot()
}

func (s *Service) snapshot() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.products)
}

func (s *Service) index(id int64) int {
	return slices.IndexFunc(s.products, func(p domain.Product) bool { return p.ID == id })
}

// peekID returns a millisecond timestamp id, bumped past every id issued or
// restored so far. Callers hold mu.
func (s *Service) peekID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	return id
}

// commit persists then renders. The in-memory change stands even when the
// write fails; the error is returned to the caller.
func (s *Service) commit(ctx context.Context) error {
	err := s.persist(ctx)
	s.render()
	return err
}

func (s *Service) persist(ctx context.Context) error {
	raw, err := json.Marshal(s.products)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := s.repo.Set(ctx, s.key, string(raw)); err != nil {
		s.logger.Error("catalog: persist", zap.String("key", s.key), zap.Error(err))
		return fmt.Errorf("persist catalog: %w", err)
	}
	return nil
}

func (s *Service) render() {
	if s.renderer != nil {
		s.renderer.RenderCatalog(slices.Clone(s.products))
	}
}

func (s *Service) sanitize(in []domain.Product) []domain.Product {
	out := make([]domain.Product, 0, len(in))
	seen := make(map[int64]bool, len(in))
	for _, p := range in {
		valid, err := domain.NewProduct(p.ID, p.Fields())
		if err != nil || seen[p.ID] {
			s.logger.Warn("catalog: dropping stored product", zap.Int64("id", p.ID), zap.Error(err))
			continue
		}
		seen[p.ID] = true
		out = append(out, valid)
	}
	return out
}

func decode(raw string) ([]domain.Product, error) {
	var products []domain.Product
	if err := json.Unmarshal([]byte(raw), &products); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageCorrupt, err)
	}
	return products, nil
}

func matchesText(p domain.Product, needle string) bool {
	return strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Category), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle)
}
