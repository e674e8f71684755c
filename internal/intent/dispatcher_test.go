package intent

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tecnostore/internal/domain"
	"tecnostore/internal/repository/blob"
	"tecnostore/internal/service/analytics"
	"tecnostore/internal/service/catalog"
	"tecnostore/internal/service/gesture"
	"tecnostore/internal/service/handoff"
	"tecnostore/internal/service/ledger"
)

type recordingTracker struct {
	events []analytics.Event
}

func (r *recordingTracker) Track(_ context.Context, e analytics.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	r.events = append(r.events, e)
	return nil
}

type fixture struct {
	dispatcher *Dispatcher
	catalog    *catalog.Service
	carts      *ledger.Registry
	tracker    *recordingTracker
	opener     *handoff.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := blob.NewMemory()
	cat := catalog.New(repo, "tecnoProducts")
	require.NoError(t, cat.Restore(context.Background()))

	opener := &handoff.Recorder{}
	h := handoff.New(handoff.Config{Phone: "+256776766643"}, opener, nil)
	carts := ledger.NewRegistry(repo, "tecnoCart", nil, h, nil)
	tracker := &recordingTracker{}
	return &fixture{
		dispatcher: NewDispatcher(cat, carts, tracker, nil),
		catalog:    cat,
		carts:      carts,
		tracker:    tracker,
		opener:     opener,
	}
}

var shopper = Actor{SessionID: "s-1"}

func decode(t *testing.T, raw string) Command {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal([]byte(raw), &env))
	cmd, err := Decode(env)
	require.NoError(t, err)
	return cmd
}

func TestDecodeAcceptsStringAndNumberIDs(t *testing.T) {
	a := decode(t, `{"type":"cart.add","payload":{"productId":"3"}}`)
	b := decode(t, `{"type":"cart.add","payload":{"productId":3}}`)
	assert.Equal(t, ProductRef(3), a.(*AddToCart).ProductID)
	assert.Equal(t, a, b)

	var env Envelope
	require.NoError(t, json.Unmarshal([]byte(`{"type":"cart.add","payload":{"productId":"three"}}`), &env))
	_, err := Decode(env)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = Decode(Envelope{Type: "cart.explode"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDecodeDirectionFollowsType(t *testing.T) {
	cmd := decode(t, `{"type":"cart.decrease","payload":{"productId":1,"direction":"increase"}}`)
	assert.Equal(t, ledger.Decrease, cmd.(*AdjustQuantity).Direction)
	assert.Equal(t, KindCartDecrease, cmd.Kind())
}

func TestAddToCartTwiceMerges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.dispatcher.Dispatch(ctx, shopper, &AddToCart{ProductID: 1})
	require.NoError(t, err)
	res, err := f.dispatcher.Dispatch(ctx, shopper, &AddToCart{ProductID: 1})
	require.NoError(t, err)

	require.NotNil(t, res.Cart)
	require.Len(t, res.Cart.Lines, 1)
	assert.Equal(t, 2, res.Cart.Lines[0].Quantity)
	assert.Equal(t, int64(2500000), res.Cart.TotalPrice)
	assert.Len(t, f.tracker.events, 2)
	assert.Equal(t, analytics.EventAddToCart, f.tracker.events[0].Name)
}

func TestAddToCartRejectsUnknownAndOutOfStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.dispatcher.Dispatch(ctx, shopper, &AddToCart{ProductID: 999})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.dispatcher.Dispatch(ctx, shopper, &AddToCart{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	soldOut, err := f.catalog.Add(ctx, domain.ProductFields{Name: "Sold out", Category: "accessories", Price: 10})
	require.NoError(t, err)
	_, err = f.dispatcher.Dispatch(ctx, shopper, &AddToCart{ProductID: ProductRef(soldOut.ID)})
	assert.ErrorIs(t, err, domain.ErrOutOfStock)
	assert.Empty(t, f.tracker.events)
}

func TestCartLinesSurviveProductRemoval(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := Actor{SessionID: "admin", Admin: true}

	_, err := f.dispatcher.Dispatch(ctx, shopper, &AddToCart{ProductID: 4})
	require.NoError(t, err)
	res, err := f.dispatcher.Dispatch(ctx, admin, &RemoveProduct{ProductID: 4})
	require.NoError(t, err)
	assert.True(t, *res.Removed)

	lg, err := f.carts.Get(ctx, shopper.SessionID)
	require.NoError(t, err)
	require.Len(t, lg.Lines(), 1)
	assert.Equal(t, "Tecno Phantom X2 Pro", lg.Lines()[0].Name)
}

func TestDecreaseRemovesAndCheckoutFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.dispatcher.Dispatch(ctx, shopper, &Checkout{})
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	require.NotNil(t, res.Notice)
	assert.Equal(t, "Your cart is empty!", res.Notice.Message)
	assert.Empty(t, f.opener.Links())

	_, err = f.dispatcher.Dispatch(ctx, shopper, &AddToCart{ProductID: 2})
	require.NoError(t, err)
	res, err = f.dispatcher.Dispatch(ctx, shopper, &Checkout{})
	require.NoError(t, err)
	require.NotNil(t, res.Order)
	assert.Contains(t, res.Order.Message, "• Tecno Spark 10 Pro x 1 - UGX 650,000")
	assert.Len(t, f.opener.Links(), 1)

	res, err = f.dispatcher.Dispatch(ctx, shopper, &AdjustQuantity{ProductID: 2, Direction: ledger.Decrease})
	require.NoError(t, err)
	assert.Empty(t, res.Cart.Lines)
}

func TestCatalogIntentsRequireAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fields := domain.ProductFields{Name: "X", Category: "spark", Price: 5000, Stock: 3}

	_, err := f.dispatcher.Dispatch(ctx, shopper, &AddProduct{Product: fields})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = f.dispatcher.Dispatch(ctx, shopper, &UpdateProduct{ProductID: 1, Product: fields})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = f.dispatcher.Dispatch(ctx, shopper, &RemoveProduct{ProductID: 1})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	admin := Actor{Admin: true}
	res, err := f.dispatcher.Dispatch(ctx, admin, &AddProduct{Product: fields})
	require.NoError(t, err)
	assert.NotZero(t, res.Product.ID)

	res, err = f.dispatcher.Dispatch(ctx, admin, &UpdateProduct{ProductID: ProductRef(res.Product.ID), Product: domain.ProductFields{Name: "X2", Category: "spark"}})
	require.NoError(t, err)
	assert.Equal(t, "X2", res.Product.Name)
}

func TestQueryIntent(t *testing.T) {
	f := newFixture(t)
	res, err := f.dispatcher.Dispatch(context.Background(), Actor{}, &QueryCatalog{Query: catalog.Query{Category: "pova"}})
	require.NoError(t, err)
	require.Len(t, res.Products, 1)
	assert.Equal(t, int64(3), res.Products[0].ID)
}

func TestFormsAndGestures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.dispatcher.Dispatch(ctx, shopper, &Subscribe{Email: "not-an-email"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	res, err := f.dispatcher.Dispatch(ctx, shopper, &Subscribe{Email: "a@b.co"})
	require.NoError(t, err)
	assert.Equal(t, "Thank you for subscribing to our newsletter!", res.Notice.Message)

	res, err = f.dispatcher.Dispatch(ctx, shopper, &SubmitContact{Name: "Amina", Email: "amina@example.com", Message: "Hi"})
	require.NoError(t, err)
	assert.Equal(t, "success", res.Notice.Level)

	res, err = f.dispatcher.Dispatch(ctx, shopper, &Swipe{StartX: 300, EndX: 100})
	require.NoError(t, err)
	assert.Equal(t, gesture.NextImage, res.Action)

	res, err = f.dispatcher.Dispatch(ctx, shopper, &Pull{ScrollY: 0, StartY: 0, EndY: 180})
	require.NoError(t, err)
	assert.Equal(t, gesture.Refresh, res.Action)
}

func TestWishlistToggleNotices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cmd := decode(t, `{"type":"wishlist.toggle","payload":{"productId":"2","active":true}}`)
	res, err := f.dispatcher.Dispatch(ctx, shopper, cmd)
	require.NoError(t, err)
	assert.Equal(t, KindWishlist, res.Type)
	assert.Equal(t, Notice{Level: "success", Message: "Added Tecno Spark 10 Pro to wishlist"}, *res.Notice)

	res, err = f.dispatcher.Dispatch(ctx, shopper, &ToggleWishlist{ProductID: 2})
	require.NoError(t, err)
	assert.Equal(t, Notice{Level: "info", Message: "Removed Tecno Spark 10 Pro from wishlist"}, *res.Notice)

	_, err = f.dispatcher.Dispatch(ctx, shopper, &ToggleWishlist{ProductID: 999, Active: true})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.tracker.events)
}

func TestTrackIntent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.dispatcher.Dispatch(ctx, shopper, &Track{Name: analytics.EventPageLoad, Params: map[string]any{"load_time": 120}})
	require.NoError(t, err)
	_, err = f.dispatcher.Dispatch(ctx, shopper, &Track{Name: "nope"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Len(t, f.tracker.events, 1)
	assert.Equal(t, "s-1", f.tracker.events[0].SessionID)
}

func TestCartIntentNeedsSession(t *testing.T) {
	f := newFixture(t)
	_, err := f.dispatcher.Dispatch(context.Background(), Actor{}, &RemoveFromCart{ProductID: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
