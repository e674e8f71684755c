package ledger

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"tecnostore/internal/repository/blob"
)

// PresenterFactory builds the presenter for one session's cart.
type PresenterFactory func(sessionID string) Presenter

type RegistryOption func(*Registry)

// WithClock overrides the clock used to stamp last access.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

type entry struct {
	ledger   *Ledger
	inFlight int
	lastUsed time.Time
}

// Registry hands out one restored Ledger per session. Each ledger stores its
// blob under a session-scoped key.
type Registry struct {
	mu         sync.Mutex
	entries    map[string]*entry
	repo       blob.Repository
	key        string
	presenters PresenterFactory
	handoff    Handoff
	now        func() time.Time
	logger     *zap.Logger
}

func NewRegistry(repo blob.Repository, key string, presenters PresenterFactory, h Handoff, logger *zap.Logger, opts ...RegistryOption) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{
		entries:    make(map[string]*entry),
		repo:       repo,
		key:        key,
		presenters: presenters,
		handoff:    h,
		now:        time.Now,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Acquire returns the session's ledger, restoring it from the store on first
// use. The ledger stays resident until release is called; release is safe to
// call more than once.
func (r *Registry) Acquire(ctx context.Context, sessionID string) (*Ledger, func(), error) {
	if sessionID == "" {
		return nil, func() {}, errors.New("session id required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[sessionID]
	if !ok {
		lg, err := r.restore(ctx, sessionID)
		if err != nil {
			return nil, func() {}, err
		}
		e = &entry{ledger: lg}
		r.entries[sessionID] = e
	}
	e.inFlight++
	e.lastUsed = r.now()

	var once sync.Once
	release := func() {
		once.Do(func() {
			r.mu.Lock()
			e.inFlight--
			e.lastUsed = r.now()
			r.mu.Unlock()
		})
	}
	return e.ledger, release, nil
}

// Get returns the session's ledger without holding it resident. Callers that
// mutate the ledger should use Acquire.
func (r *Registry) Get(ctx context.Context, sessionID string) (*Ledger, error) {
	lg, release, err := r.Acquire(ctx, sessionID)
	release()
	return lg, err
}

func (r *Registry) restore(ctx context.Context, sessionID string) (*Ledger, error) {
	opts := []Option{
		WithLogger(r.logger.With(zap.String("session", sessionID))),
		WithHandoff(r.handoff),
	}
	if r.presenters != nil {
		opts = append(opts, WithPresenter(r.presenters(sessionID)))
	}
	lg := New(blob.Scoped(r.repo, "session", sessionID), r.key, opts...)
	if err := lg.Restore(ctx); err != nil {
		return nil, err
	}
	return lg, nil
}

// Evict forgets the in-memory ledger unless a request still holds it. The
// stored cart is kept and restored on the next Acquire.
func (r *Registry) Evict(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[sessionID]
	if !ok || e.inFlight > 0 {
		return false
	}
	delete(r.entries, sessionID)
	return true
}

// EvictIdle drops every ledger that nobody holds and that was last used
// maxIdle or longer ago. It returns how many were dropped.
func (r *Registry) EvictIdle(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-maxIdle)
	var n int
	for id, e := range r.entries {
		if e.inFlight == 0 && !e.lastUsed.After(cutoff) {
			delete(r.entries, id)
			n++
		}
	}
	return n
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweeper evicts idle ledgers on a cron schedule.
type Sweeper struct {
	registry *Registry
	maxIdle  time.Duration
	cron     *cron.Cron
	logger   *zap.Logger
}

func NewSweeper(reg *Registry, maxIdle time.Duration, logger *zap.Logger) *Sweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{
		registry: reg,
		maxIdle:  maxIdle,
		cron:     cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		logger:   logger,
	}
}

// Start schedules the sweep. spec is a cron expression such as "@every 5m".
func (s *Sweeper) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, func() { s.Sweep() }); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("ledger: idle sweep scheduled", zap.String("schedule", spec), zap.Duration("max_idle", s.maxIdle))
	return nil
}

// Sweep runs one eviction pass.
func (s *Sweeper) Sweep() int {
	n := s.registry.EvictIdle(s.maxIdle)
	if n > 0 {
		s.logger.Debug("ledger: evicted idle carts", zap.Int("evicted", n), zap.Int("resident", s.registry.Len()))
	}
	return n
}

func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}
