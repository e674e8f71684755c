package ledger

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tecnostore/internal/domain"
	"tecnostore/internal/repository/blob"
	"tecnostore/internal/service/handoff"
)

const key = "tecnoCart"

type stubPresenter struct {
	views   []View
	closed  int
	notices []string
}

func (p *stubPresenter) RenderCart(v View)        { p.views = append(p.views, v) }
func (p *stubPresenter) CloseCart()               { p.closed++ }
func (p *stubPresenter) Notify(level, msg string) { p.notices = append(p.notices, level+": "+msg) }

type stubHandoff struct {
	calls     int
	lastLines []domain.CartLine
	lastTotal int64
	err       error
}

func (h *stubHandoff) Send(_ context.Context, lines []domain.CartLine, total int64) (handoff.Order, error) {
	h.calls++
	h.lastLines = lines
	h.lastTotal = total
	return handoff.Order{URL: "https://wa.me/x", Total: total, Lines: lines}, h.err
}

type failingRepo struct {
	blob.Repository
	err error
}

func (f *failingRepo) Set(context.Context, string, string) error { return f.err }

var productA = domain.ProductSnapshot{ID: 1, Name: "A", Price: 100, Image: "a.png"}
var productB = domain.ProductSnapshot{ID: 2, Name: "B", Price: 250}

func newLedger(t *testing.T, repo blob.Repository, opts ...Option) *Ledger {
	t.Helper()
	lg := New(repo, key, opts...)
	require.NoError(t, lg.Restore(context.Background()))
	return lg
}

func TestAddItemMergesRepeatAdds(t *testing.T) {
	lg := newLedger(t, blob.NewMemory())
	ctx := context.Background()

	require.NoError(t, lg.AddItem(ctx, productA))
	require.NoError(t, lg.AddItem(ctx, productA))

	assert.Equal(t, []domain.CartLine{{ID: 1, Name: "A", Price: 100, Image: "a.png", Quantity: 2}}, lg.Lines())
	assert.Equal(t, int64(200), lg.TotalPrice())
	assert.Equal(t, 2, lg.TotalItems())
}

func TestAddItemRejectsMissingID(t *testing.T) {
	p := &stubPresenter{}
	lg := newLedger(t, blob.NewMemory(), WithPresenter(p))

	err := lg.AddItem(context.Background(), domain.ProductSnapshot{Name: "ghost"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, lg.Lines())
	assert.Len(t, p.views, 1, "only the restore render")
}

func TestAddItemNotifiesAndRenders(t *testing.T) {
	p := &stubPresenter{}
	lg := newLedger(t, blob.NewMemory(), WithPresenter(p))

	require.NoError(t, lg.AddItem(context.Background(), productB))
	require.Len(t, p.views, 2)
	assert.Equal(t, 1, p.views[1].TotalItems)
	assert.Equal(t, []string{"success: Added B to cart"}, p.notices)
}

func TestDecreaseAtOneRemovesLine(t *testing.T) {
	lg := newLedger(t, blob.NewMemory())
	ctx := context.Background()

	require.NoError(t, lg.AddItem(ctx, productA))
	require.NoError(t, lg.UpdateQuantity(ctx, 1, Decrease))
	assert.Empty(t, lg.Lines())
}

func TestUpdateQuantitySteps(t *testing.T) {
	lg := newLedger(t, blob.NewMemory())
	ctx := context.Background()

	require.NoError(t, lg.AddItem(ctx, productA))
	require.NoError(t, lg.UpdateQuantity(ctx, 1, Increase))
	require.NoError(t, lg.UpdateQuantity(ctx, 1, Increase))
	require.NoError(t, lg.UpdateQuantity(ctx, 1, Decrease))
	assert.Equal(t, 2, lg.Lines()[0].Quantity)

	require.NoError(t, lg.UpdateQuantity(ctx, 42, Increase), "absent id is a no-op")
	assert.Len(t, lg.Lines(), 1)

	assert.ErrorIs(t, lg.UpdateQuantity(ctx, 1, Direction("sideways")), domain.ErrInvalidInput)
}

func TestRemoveItem(t *testing.T) {
	p := &stubPresenter{}
	lg := newLedger(t, blob.NewMemory(), WithPresenter(p))
	ctx := context.Background()

	require.NoError(t, lg.AddItem(ctx, productA))
	require.NoError(t, lg.AddItem(ctx, productB))
	require.NoError(t, lg.RemoveItem(ctx, 1))
	require.NoError(t, lg.RemoveItem(ctx, 99))

	assert.Equal(t, []int64{2}, lineIDs(lg.Lines()))
	assert.Len(t, p.views, 5, "restore, two adds, two removes")
}

func TestPersistRestoreRoundTrip(t *testing.T) {
	repo := blob.NewMemory()
	ctx := context.Background()
	lg := newLedger(t, repo)

	require.NoError(t, lg.AddItem(ctx, productA))
	require.NoError(t, lg.AddItem(ctx, productB))
	require.NoError(t, lg.AddItem(ctx, productB))

	reloaded := newLedger(t, repo)
	assert.Equal(t, lg.Lines(), reloaded.Lines())
	assert.Equal(t, lg.TotalPrice(), reloaded.TotalPrice())
}

type flakyRepo struct {
	blob.Repository
	err error
}

func (f *flakyRepo) Set(ctx context.Context, k, v string) error {
	if f.err != nil {
		return f.err
	}
	return f.Repository.Set(ctx, k, v)
}

func TestPersistRetriesAfterFailedWrite(t *testing.T) {
	base := blob.NewMemory()
	repo := &flakyRepo{Repository: base, err: errors.New("disk full")}
	ctx := context.Background()
	lg := newLedger(t, repo)

	require.Error(t, lg.AddItem(ctx, productA))
	assert.Empty(t, newLedger(t, base).Lines())

	repo.err = nil
	require.NoError(t, lg.Persist(ctx))
	assert.Equal(t, lg.Lines(), newLedger(t, base).Lines())
}

func TestRestoreCorruptStartsEmpty(t *testing.T) {
	repo := blob.NewMemory()
	require.NoError(t, repo.Set(context.Background(), key, "[{broken"))

	lg := newLedger(t, repo)
	assert.Empty(t, lg.Lines())
}

func TestRestoreDropsInvalidLines(t *testing.T) {
	repo := blob.NewMemory()
	raw := `[{"id":1,"name":"A","price":100,"quantity":1},{"id":2,"quantity":0},{"id":0,"quantity":3},{"id":1,"quantity":4}]`
	require.NoError(t, repo.Set(context.Background(), key, raw))

	lg := newLedger(t, repo)
	assert.Equal(t, []int64{1}, lineIDs(lg.Lines()))
	assert.Equal(t, 1, lg.TotalItems())
}

func TestMutationKeptWhenPersistFails(t *testing.T) {
	boom := errors.New("quota exceeded")
	lg := newLedger(t, &failingRepo{Repository: blob.NewMemory(), err: boom})

	err := lg.AddItem(context.Background(), productA)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, lg.Lines(), 1)
}

func TestCheckoutEmpty(t *testing.T) {
	h := &stubHandoff{}
	p := &stubPresenter{}
	lg := newLedger(t, blob.NewMemory(), WithHandoff(h), WithPresenter(p))

	_, err := lg.Checkout(context.Background())
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.Zero(t, h.calls)
	assert.Zero(t, p.closed)
	assert.Equal(t, []string{"error: Your cart is empty!"}, p.notices)
}

func TestCheckoutHandsOffAndKeepsLines(t *testing.T) {
	h := &stubHandoff{}
	p := &stubPresenter{}
	lg := newLedger(t, blob.NewMemory(), WithHandoff(h), WithPresenter(p))
	ctx := context.Background()

	require.NoError(t, lg.AddItem(ctx, productA))
	require.NoError(t, lg.AddItem(ctx, productB))

	order, err := lg.Checkout(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(350), order.Total)
	assert.Equal(t, 1, h.calls)
	assert.Equal(t, int64(350), h.lastTotal)
	assert.Len(t, h.lastLines, 2)
	assert.Equal(t, 1, p.closed)
	assert.Len(t, lg.Lines(), 2, "checkout does not clear the cart")
}

func TestCheckoutHandoffFailureKeepsCartOpen(t *testing.T) {
	h := &stubHandoff{err: errors.New("blocked")}
	p := &stubPresenter{}
	lg := newLedger(t, blob.NewMemory(), WithHandoff(h), WithPresenter(p))
	ctx := context.Background()
	require.NoError(t, lg.AddItem(ctx, productA))

	_, err := lg.Checkout(ctx)
	assert.Error(t, err)
	assert.Zero(t, p.closed)
}

func TestTotalsHoldUnderRandomOperations(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	repo := blob.NewMemory()
	lg := newLedger(t, repo)
	ctx := context.Background()

	products := []domain.ProductSnapshot{
		{ID: 1, Name: "A", Price: 100},
		{ID: 2, Name: "B", Price: 650000},
		{ID: 3, Name: "C", Price: 7},
	}

	for i := 0; i < 500; i++ {
		p := products[rng.IntN(len(products))]
		switch rng.IntN(4) {
		case 0:
			require.NoError(t, lg.AddItem(ctx, p))
		case 1:
			require.NoError(t, lg.RemoveItem(ctx, p.ID))
		case 2:
			require.NoError(t, lg.UpdateQuantity(ctx, p.ID, Increase))
		case 3:
			require.NoError(t, lg.UpdateQuantity(ctx, p.ID, Decrease))
		}

		lines := lg.Lines()
		var items int
		var price int64
		seen := map[int64]bool{}
		for _, l := range lines {
			require.GreaterOrEqual(t, l.Quantity, 1)
			require.False(t, seen[l.ID], "duplicate line for id %d", l.ID)
			seen[l.ID] = true
			items += l.Quantity
			price += l.Price * int64(l.Quantity)
		}
		require.Equal(t, items, lg.TotalItems())
		require.Equal(t, price, lg.TotalPrice())
	}

	assert.Equal(t, lg.Lines(), newLedger(t, repo).Lines())
}

func TestRegistryScopesSessions(t *testing.T) {
	repo := blob.NewMemory()
	reg := NewRegistry(repo, key, nil, nil, nil)
	ctx := context.Background()

	a, err := reg.Get(ctx, "a")
	require.NoError(t, err)
	b, err := reg.Get(ctx, "b")
	require.NoError(t, err)
	require.NoError(t, a.AddItem(ctx, productA))

	assert.Empty(t, b.Lines())
	again, err := reg.Get(ctx, "a")
	require.NoError(t, err)
	assert.Same(t, a, again)

	assert.True(t, reg.Evict("a"))
	assert.Equal(t, 1, reg.Len())
	restored, err := reg.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, a.Lines(), restored.Lines())

	_, err = reg.Get(ctx, "")
	assert.Error(t, err)
}

func TestRegistryEvictsIdleLedgers(t *testing.T) {
	repo := blob.NewMemory()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	reg := NewRegistry(repo, key, nil, nil, nil, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	idle, err := reg.Get(ctx, "idle")
	require.NoError(t, err)
	require.NoError(t, idle.AddItem(ctx, productA))

	busy, release, err := reg.Acquire(ctx, "busy")
	require.NoError(t, err)

	now = now.Add(10 * time.Minute)
	fresh, err := reg.Get(ctx, "fresh")
	require.NoError(t, err)
	require.Equal(t, 3, reg.Len())

	assert.Equal(t, 1, reg.EvictIdle(5*time.Minute))
	assert.Equal(t, 2, reg.Len())
	assert.False(t, reg.Evict("busy"), "held ledger must stay resident")

	again, err := reg.Get(ctx, "busy")
	require.NoError(t, err)
	assert.Same(t, busy, again)
	again, err = reg.Get(ctx, "fresh")
	require.NoError(t, err)
	assert.Same(t, fresh, again)

	release()
	release()
	now = now.Add(10 * time.Minute)
	assert.Equal(t, 2, reg.EvictIdle(5*time.Minute))
	assert.Zero(t, reg.Len())

	restored, err := reg.Get(ctx, "idle")
	require.NoError(t, err)
	assert.NotSame(t, idle, restored)
	assert.Equal(t, idle.Lines(), restored.Lines())
}

func TestSweeperEvictsThroughRegistry(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	reg := NewRegistry(blob.NewMemory(), key, nil, nil, nil, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		_, err := reg.Get(ctx, id)
		require.NoError(t, err)
	}
	sweeper := NewSweeper(reg, time.Minute, nil)
	assert.Zero(t, sweeper.Sweep())

	now = now.Add(time.Hour)
	assert.Equal(t, 3, sweeper.Sweep())
	assert.Zero(t, reg.Len())

	require.Error(t, sweeper.Start("not a schedule"))
	require.NoError(t, sweeper.Start("@every 1h"))
	sweeper.Stop()
}

func lineIDs(lines []domain.CartLine) []int64 {
	out := make([]int64, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.ID)
	}
	return out
}
