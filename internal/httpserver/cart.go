package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tecnostore/internal/intent"
	"tecnostore/internal/service/ledger"
)

type addItemRequest struct {
	ProductID intent.ProductRef `json:"productId" binding:"required"`
}

type checkoutResponse struct {
	Message string   `json:"message"`
	URL     string   `json:"url"`
	Total   int64    `json:"total"`
	Display string   `json:"totalDisplay"`
	Cart    cartView `json:"cart"`
}

func (h *handlers) getCart(c *gin.Context) {
	lg, release, err := h.carts.Acquire(c.Request.Context(), actorFrom(c).SessionID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	defer release()
	c.JSON(http.StatusOK, h.toCartView(lg.View()))
}

func (h *handlers) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, invalidBody(err))
		return
	}
	h.cartIntent(c, &intent.AddToCart{ProductID: req.ProductID})
}

func (h *handlers) removeCartItem(c *gin.Context) {
	id, err := intent.ParseProductRef(c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	h.cartIntent(c, &intent.RemoveFromCart{ProductID: id})
}

func (h *handlers) adjustCartItem(c *gin.Context) {
	id, err := intent.ParseProductRef(c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	dir, err := ledger.ParseDirection(c.Param("direction"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	h.cartIntent(c, &intent.AdjustQuantity{ProductID: id, Direction: dir})
}

// checkout answers with the order link in Location so a browser client can
// follow it straight into the chat.
func (h *handlers) checkout(c *gin.Context) {
	res, err := h.dispatcher.Dispatch(c.Request.Context(), actorFrom(c), &intent.Checkout{})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	lg, release, err := h.carts.Acquire(c.Request.Context(), actorFrom(c).SessionID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	defer release()
	c.Header("Location", res.Order.URL)
	c.JSON(http.StatusOK, checkoutResponse{
		Message: res.Order.Message,
		URL:     res.Order.URL,
		Total:   res.Order.Total,
		Display: h.money(res.Order.Total),
		Cart:    h.toCartView(lg.View()),
	})
}

func (h *handlers) cartIntent(c *gin.Context, cmd intent.Command) {
	res, err := h.dispatcher.Dispatch(c.Request.Context(), actorFrom(c), cmd)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.toCartView(*res.Cart))
}
