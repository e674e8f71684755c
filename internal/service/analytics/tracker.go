package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"tecnostore/internal/domain"
)

// Event names accepted from the storefront.
const (
	EventPageView           = "page_view"
	EventPageLoad           = "page_load"
	EventLargestPaint       = "largest_contentful_paint"
	EventJSError            = "javascript_error"
	EventUnhandledRejection = "unhandled_promise_rejection"
	EventProductView        = "product_view"
	EventAddToCart          = "add_to_cart"
	EventCheckout           = "checkout"
	EventContact            = "contact_submit"
	EventNewsletter         = "newsletter_subscribe"
)

var knownEvents = map[string]bool{
	EventPageView:           true,
	EventPageLoad:           true,
	EventLargestPaint:       true,
	EventJSError:            true,
	EventUnhandledRejection: true,
	EventProductView:        true,
	EventAddToCart:          true,
	EventCheckout:           true,
	EventContact:            true,
	EventNewsletter:         true,
}

// Event is one tracked interaction.
type Event struct {
	Name      string         `json:"name"`
	SessionID string         `json:"sessionId,omitempty"`
	Params    map[string]any `json:"params,omitempty"`
	At        time.Time      `json:"at"`
}

// Validate rejects unknown event names.
func (e Event) Validate() error {
	if !knownEvents[e.Name] {
		return fmt.Errorf("%w: unknown event %q", domain.ErrInvalidInput, e.Name)
	}
	return nil
}

// Sink delivers events somewhere. Delivery is best effort.
type Sink interface {
	Write(ctx context.Context, e Event) error
}

// Tracker stamps events and fans them out to every sink. Sink failures are
// logged and never reach the caller.
type Tracker struct {
	sinks  []Sink
	now    func() time.Time
	logger *zap.Logger
}

func NewTracker(logger *zap.Logger, sinks ...Sink) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{sinks: sinks, now: time.Now, logger: logger}
}

// Track records an event. Unknown names are reported so HTTP callers can
// answer 400; server-side callers may ignore the result.
func (t *Tracker) Track(ctx context.Context, e Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if e.At.IsZero() {
		e.At = t.now()
	}
	var errs []error
	for _, s := range t.sinks {
		if err := s.Write(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		t.logger.Warn("analytics: sink failed", zap.String("event", e.Name), zap.Error(err))
	}
	return nil
}

// LogSink writes "[Analytics] <name>" lines.
type LogSink struct {
	Logger *zap.Logger
}

func (s LogSink) Write(_ context.Context, e Event) error {
	if s.Logger != nil {
		s.Logger.Info("[Analytics] "+e.Name, zap.String("session", e.SessionID), zap.Any("params", e.Params))
	}
	return nil
}
