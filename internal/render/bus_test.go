package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tecnostore/internal/domain"
	"tecnostore/internal/service/ledger"
	"tecnostore/internal/service/promo"
)

func next(t *testing.T, sub *Subscription) Frame {
	t.Helper()
	select {
	case f := <-sub.Frames():
		return f
	default:
		t.Fatalf("expected a frame")
		return Frame{}
	}
}

func TestCartFramesAreSessionScoped(t *testing.T) {
	bus := NewBus(nil)
	alice := bus.Subscribe("alice")
	bob := bus.Subscribe("bob")

	view := ledger.View{Lines: []domain.CartLine{{ID: 1, Quantity: 2, Price: 100}}, TotalItems: 2, TotalPrice: 200}
	bus.ForSession("alice").RenderCart(view)

	f := next(t, alice)
	assert.Equal(t, TopicCart, f.Event)
	assert.Equal(t, view, f.Data)
	assert.Empty(t, bob.Frames())

	bus.ForSession("alice").Notify("success", "Added A to cart")
	assert.Equal(t, NoticeData{Level: "success", Message: "Added A to cart"}, next(t, alice).Data)

	bus.ForSession("alice").CloseCart()
	assert.Equal(t, TopicCartClosed, next(t, alice).Event)
}

func TestBroadcastFramesReachEveryone(t *testing.T) {
	bus := NewBus(nil)
	a := bus.Subscribe("a")
	b := bus.Subscribe("b")

	bus.RenderCatalog([]domain.Product{{ID: 1}})
	bus.RenderPromo(promo.Remaining{Days: "02"})

	assert.Equal(t, TopicCatalog, next(t, a).Event)
	assert.Equal(t, TopicPromo, next(t, a).Event)
	assert.Equal(t, TopicCatalog, next(t, b).Event)
}

func TestLaggingSubscriberDoesNotBlock(t *testing.T) {
	bus := NewBus(nil)
	sub := bus.Subscribe("a")
	for i := 0; i < subscriberBuffer*2; i++ {
		bus.RenderPromo(promo.Remaining{})
	}
	assert.Len(t, sub.Frames(), subscriberBuffer)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	bus := NewBus(nil)
	sub := bus.Subscribe("a")
	bus.Unsubscribe(sub)
	bus.Unsubscribe(sub)

	_, ok := <-sub.Frames()
	require.False(t, ok)
	bus.RenderPromo(promo.Remaining{})
}
