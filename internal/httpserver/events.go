package httpserver

import (
	"github.com/gin-gonic/gin"

	"tecnostore/internal/domain"
	"tecnostore/internal/render"
	"tecnostore/internal/service/ledger"
)

// streamEvents pushes re-renders for the caller's session as server-sent
// events. The current cart is sent first so a fresh page starts in sync.
func (h *handlers) streamEvents(c *gin.Context) {
	sessionID := actorFrom(c).SessionID
	lg, release, err := h.carts.Acquire(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	defer release()

	sub := h.events.Subscribe(sessionID)
	defer h.events.Unsubscribe(sub)

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent(render.TopicCart, h.toCartView(lg.View()))
	if h.promo != nil {
		c.SSEvent(render.TopicPromo, h.promo.Remaining(h.now()))
	}
	c.Writer.Flush()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-h.closing:
			return
		case f, ok := <-sub.Frames():
			if !ok {
				return
			}
			c.SSEvent(f.Event, h.frameData(f))
			c.Writer.Flush()
		}
	}
}

func (h *handlers) frameData(f render.Frame) any {
	switch v := f.Data.(type) {
	case ledger.View:
		return h.toCartView(v)
	case []domain.Product:
		return h.toProductViews(v)
	case nil:
		return struct{}{}
	default:
		return v
	}
}
