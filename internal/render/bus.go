package render

import (
	"sync"

	evbus "github.com/asaskevich/EventBus"
	"go.uber.org/zap"

	"tecnostore/internal/domain"
	"tecnostore/internal/service/ledger"
	"tecnostore/internal/service/promo"
)

// Bus topics.
const (
	TopicCart       = "cart"
	TopicCartClosed = "cart.closed"
	TopicCatalog    = "catalog"
	TopicPromo      = "promo"
	TopicNotice     = "notice"
)

const subscriberBuffer = 32

// Frame is one re-render addressed to a session, or to everyone when
// SessionID is empty.
type Frame struct {
	Event     string
	SessionID string
	Data      any
}

// NoticeData is the payload of a notice frame.
type NoticeData struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Subscription receives frames for one session.
type Subscription struct {
	id        uint64
	sessionID string
	frames    chan Frame
}

func (s *Subscription) Frames() <-chan Frame {
	return s.frames
}

// Bus publishes full re-renders from the storefront components and fans them
// out to live subscribers. Publishing never blocks: a subscriber whose buffer
// is full misses the frame and catches up on the next one.
type Bus struct {
	events evbus.Bus
	mu     sync.RWMutex
	subs   map[uint64]*Subscription
	nextID uint64
	logger *zap.Logger
}

func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Bus{
		events: evbus.New(),
		subs:   make(map[uint64]*Subscription),
		logger: logger,
	}
	// One handler per topic; fan-out to subscribers happens in deliver.
	_ = b.events.Subscribe(TopicCart, func(sessionID string, v ledger.View) {
		b.deliver(Frame{Event: TopicCart, SessionID: sessionID, Data: v})
	})
	_ = b.events.Subscribe(TopicCartClosed, func(sessionID string) {
		b.deliver(Frame{Event: TopicCartClosed, SessionID: sessionID})
	})
	_ = b.events.Subscribe(TopicNotice, func(sessionID string, n NoticeData) {
		b.deliver(Frame{Event: TopicNotice, SessionID: sessionID, Data: n})
	})
	_ = b.events.Subscribe(TopicCatalog, func(products []domain.Product) {
		b.deliver(Frame{Event: TopicCatalog, Data: products})
	})
	_ = b.events.Subscribe(TopicPromo, func(r promo.Remaining) {
		b.deliver(Frame{Event: TopicPromo, Data: r})
	})
	return b
}

// Subscribe registers a listener for sessionID's frames and all broadcasts.
func (b *Bus) Subscribe(sessionID string) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	sub := &Subscription{id: b.nextID, sessionID: sessionID, frames: make(chan Frame, subscriberBuffer)}
	b.subs[sub.id] = sub
	return sub
}

func (b *Bus) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[sub.id]; ok {
		delete(b.subs, sub.id)
		close(sub.frames)
	}
}

// RenderCatalog implements catalog.Renderer.
func (b *Bus) RenderCatalog(products []domain.Product) {
	b.events.Publish(TopicCatalog, products)
}

// RenderPromo implements promo.Renderer.
func (b *Bus) RenderPromo(r promo.Remaining) {
	b.events.Publish(TopicPromo, r)
}

// ForSession returns the cart presenter for one session.
func (b *Bus) ForSession(sessionID string) ledger.Presenter {
	return sessionPresenter{bus: b, sessionID: sessionID}
}

func (b *Bus) deliver(f Frame) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subs {
		if f.SessionID != "" && f.SessionID != sub.sessionID {
			continue
		}
		select {
		case sub.frames <- f:
		default:
			b.logger.Debug("render: subscriber lagging, frame dropped", zap.String("event", f.Event), zap.Uint64("subscriber", sub.id))
		}
	}
}

type sessionPresenter struct {
	bus       *Bus
	sessionID string
}

func (p sessionPresenter) RenderCart(v ledger.View) {
	p.bus.events.Publish(TopicCart, p.sessionID, v)
}

func (p sessionPresenter) CloseCart() {
	p.bus.events.Publish(TopicCartClosed, p.sessionID)
}

func (p sessionPresenter) Notify(level, message string) {
	p.bus.events.Publish(TopicNotice, p.sessionID, NoticeData{Level: level, Message: message})
}
