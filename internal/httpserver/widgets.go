package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tecnostore/internal/domain"
	"tecnostore/internal/intent"
	"tecnostore/internal/service/promo"
)

type promoResponse struct {
	promo.Remaining
	EndsAt int64 `json:"endsAt"`
}

// dispatchIntent accepts any intent envelope. Catalog mutations still need a
// panel token.
func (h *handlers) dispatchIntent(c *gin.Context) {
	var env intent.Envelope
	if err := c.ShouldBindJSON(&env); err != nil {
		writeError(c, h.logger, invalidBody(err))
		return
	}
	cmd, err := intent.Decode(env)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	res, err := h.dispatcher.Dispatch(c.Request.Context(), actorFrom(c), cmd)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.toIntentResponse(res))
}

func (h *handlers) getPromo(c *gin.Context) {
	if h.promo == nil {
		writeError(c, h.logger, domain.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, promoResponse{Remaining: h.promo.Remaining(h.now()), EndsAt: h.promo.End().Unix()})
}

func (h *handlers) trackEvent(c *gin.Context) {
	var req intent.Track
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, invalidBody(err))
		return
	}
	if _, err := h.dispatcher.Dispatch(c.Request.Context(), actorFrom(c), &req); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusAccepted)
}

func (h *handlers) submitContact(c *gin.Context) {
	var req intent.SubmitContact
	if err := c.ShouldBind(&req); err != nil {
		writeError(c, h.logger, invalidBody(err))
		return
	}
	h.noticeIntent(c, &req)
}

func (h *handlers) subscribe(c *gin.Context) {
	var req intent.Subscribe
	if err := c.ShouldBind(&req); err != nil {
		writeError(c, h.logger, invalidBody(err))
		return
	}
	h.noticeIntent(c, &req)
}

func (h *handlers) noticeIntent(c *gin.Context, cmd intent.Command) {
	res, err := h.dispatcher.Dispatch(c.Request.Context(), actorFrom(c), cmd)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res.Notice)
}
