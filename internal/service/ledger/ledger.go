package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"tecnostore/internal/domain"
	"tecnostore/internal/repository/blob"
	"tecnostore/internal/service/handoff"
)

// Direction is a quantity adjustment step.
type Direction string

const (
	Increase Direction = "increase"
	Decrease Direction = "decrease"
)

// ParseDirection accepts "increase" or "decrease".
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case Increase, Decrease:
		return d, nil
	}
	return "", fmt.Errorf("%w: direction %q", domain.ErrInvalidInput, s)
}

// View is a full render of the cart.
type View struct {
	Lines      []domain.CartLine `json:"items"`
	TotalItems int               `json:"totalItems"`
	TotalPrice int64             `json:"totalPrice"`
}

// Presenter receives full re-renders and user notices. It is called while
// the ledger lock is held and must not call back into the ledger.
type Presenter interface {
	RenderCart(view View)
	CloseCart()
	Notify(level, message string)
}

// Handoff delivers a checked-out cart.
type Handoff interface {
	Send(ctx context.Context, lines []domain.CartLine, total int64) (handoff.Order, error)
}

type Option func(*Ledger)

func WithLogger(l *zap.Logger) Option {
	return func(lg *Ledger) {
		if l != nil {
			lg.logger = l
		}
	}
}

func WithPresenter(p Presenter) Option {
	return func(lg *Ledger) { lg.presenter = p }
}

func WithHandoff(h Handoff) Option {
	return func(lg *Ledger) { lg.handoff = h }
}

// Ledger is one shopper's cart. Every mutation persists and then re-renders
// before the lock is released.
type Ledger struct {
	mu        sync.Mutex
	repo      blob.Repository
	key       string
	lines     []domain.CartLine
	presenter Presenter
	handoff   Handoff
	logger    *zap.Logger
}

func New(repo blob.Repository, key string, opts ...Option) *Ledger {
	lg := &Ledger{repo: repo, key: key, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(lg)
	}
	return lg
}

// Restore loads the persisted cart. Missing or unreadable data yields an
// empty cart; lines that break the cart invariants are dropped.
func (lg *Ledger) Restore(ctx context.Context) error {
	raw, ok, err := lg.repo.Get(ctx, lg.key)
	if err != nil {
		return fmt.Errorf("load cart: %w", err)
	}

	var lines []domain.CartLine
	if ok {
		if err := json.Unmarshal([]byte(raw), &lines); err != nil {
			lg.logger.Warn("ledger: stored cart unreadable, starting empty",
				zap.String("key", lg.key), zap.Error(fmt.Errorf("%w: %v", domain.ErrStorageCorrupt, err)))
			lines = nil
		}
	}
	lines = lg.sanitize(lines)

	lg.mu.Lock()
	defer lg.mu.Unlock()
	lg.lines = lines
	lg.render()
	return nil
}

// Persist writes the current lines to the store.
func (lg *Ledger) Persist(ctx context.Context) error {
	lg.mu.Lock()
	defer lg.mu.Unlock()
	return lg.persist(ctx)
}

// AddItem adds one unit of the product, merging with an existing line.
func (lg *Ledger) AddItem(ctx context.Context, p domain.ProductSnapshot) error {
	if p.ID == 0 {
		return fmt.Errorf("%w: product id required", domain.ErrInvalidInput)
	}

	lg.mu.Lock()
	defer lg.mu.Unlock()

	if idx := lg.index(p.ID); idx >= 0 {
		lg.lines[idx].Quantity++
	} else {
		lg.lines = append(lg.lines, domain.CartLine{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Image:    p.Image,
			Quantity: 1,
		})
	}
	lg.logger.Debug("ledger: add", zap.Int64("id", p.ID))
	err := lg.commit(ctx)
	lg.notify("success", fmt.Sprintf("Added %s to cart", p.Name))
	return err
}

// RemoveItem drops the line for id. Removing an absent id still persists and
// re-renders.
func (lg *Ledger) RemoveItem(ctx context.Context, id int64) error {
	lg.mu.Lock()
	defer lg.mu.Unlock()
	lg.remove(id)
	return lg.commit(ctx)
}

// UpdateQuantity steps the line quantity by one. Decreasing the last unit
// removes the line.
func (lg *Ledger) UpdateQuantity(ctx context.Context, id int64, dir Direction) error {
	if _, err := ParseDirection(string(dir)); err != nil {
		return err
	}

	lg.mu.Lock()
	defer lg.mu.Unlock()

	if idx := lg.index(id); idx >= 0 {
		if dir == Increase {
			lg.lines[idx].Quantity++
		} else {
			lg.lines[idx].Quantity--
			if lg.lines[idx].Quantity <= 0 {
				lg.remove(id)
			}
		}
	}
	lg.logger.Debug("ledger: update quantity", zap.Int64("id", id), zap.String("direction", string(dir)))
	return lg.commit(ctx)
}

func (lg *Ledger) TotalItems() int {
	items, _ := lg.totals()
	return items
}

func (lg *Ledger) TotalPrice() int64 {
	_, price := lg.totals()
	return price
}

// Lines returns a copy of the cart lines in insertion order.
func (lg *Ledger) Lines() []domain.CartLine {
	lg.mu.Lock()
	defer lg.mu.Unlock()
	return slices.Clone(lg.lines)
}

// View returns the current render without side effects.
func (lg *Ledger) View() View {
	lg.mu.Lock()
	defer lg.mu.Unlock()
	return lg.view()
}

// Checkout hands the cart to the configured hand-off and closes the cart
// view. The lines are kept.
func (lg *Ledger) Checkout(ctx context.Context) (handoff.Order, error) {
	lg.mu.Lock()
	defer lg.mu.Unlock()

	if len(lg.lines) == 0 {
		lg.notify("error", "Your cart is empty!")
		return handoff.Order{}, domain.ErrEmptyCart
	}
	if lg.handoff == nil {
		return handoff.Order{}, fmt.Errorf("checkout: no hand-off configured")
	}
	_, total := domain.CartTotals(lg.lines)
	order, err := lg.handoff.Send(ctx, slices.Clone(lg.lines), total)
	if err != nil {
		return order, err
	}
	if lg.presenter != nil {
		lg.presenter.CloseCart()
	}
	lg.logger.Info("ledger: checkout", zap.Int("lines", len(lg.lines)), zap.Int64("total", total))
	return order, nil
}

func (lg *Ledger) totals() (int, int64) {
	lg.mu.Lock()
	defer lg.mu.Unlock()
	return domain.CartTotals(lg.lines)
}

func (lg *Ledger) index(id int64) int {
	return slices.IndexFunc(lg.lines, func(l domain.CartLine) bool { return l.ID == id })
}

func (lg *Ledger) remove(id int64) {
	lg.lines = slices.DeleteFunc(lg.lines, func(l domain.CartLine) bool { return l.ID == id })
}

func (lg *Ledger) view() View {
	items, price := domain.CartTotals(lg.lines)
	return View{Lines: slices.Clone(lg.lines), TotalItems: items, TotalPrice: price}
}

// commit persists then renders. The in-memory change stands even when the
// write fails.
func (lg *Ledger) commit(ctx context.Context) error {
	err := lg.persist(ctx)
	lg.render()
	return err
}

func (lg *Ledger) persist(ctx context.Context) error {
	lines := lg.lines
	if lines == nil {
		lines = []domain.CartLine{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := lg.repo.Set(ctx, lg.key, string(raw)); err != nil {
		lg.logger.Error("ledger: persist", zap.String("key", lg.key), zap.Error(err))
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}

func (lg *Ledger) render() {
	if lg.presenter != nil {
		lg.presenter.RenderCart(lg.view())
	}
}

func (lg *Ledger) notify(level, msg string) {
	if lg.presenter != nil {
		lg.presenter.Notify(level, msg)
	}
}

func (lg *Ledger) sanitize(in []domain.CartLine) []domain.CartLine {
	out := make([]domain.CartLine, 0, len(in))
	for _, l := range in {
		if !l.Valid() || slices.ContainsFunc(out, func(o domain.CartLine) bool { return o.ID == l.ID }) {
			lg.logger.Warn("ledger: dropping stored line", zap.Int64("id", l.ID), zap.Int("quantity", l.Quantity))
			continue
		}
		out = append(out, l)
	}
	return out
}
