package httpserver

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tecnostore/internal/domain"
	"tecnostore/internal/intent"
	"tecnostore/internal/service/analytics"
	"tecnostore/internal/service/catalog"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

func (h *handlers) listProducts(c *gin.Context) {
	var q catalog.Query
	if err := c.ShouldBindQuery(&q); err != nil {
		writeError(c, h.logger, invalidBody(err))
		return
	}
	res, err := h.dispatcher.Dispatch(c.Request.Context(), actorFrom(c), &intent.QueryCatalog{Query: q})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, productListResponse{
		Count:       len(res.Products),
		Results:     h.toProductViews(res.Products),
		PriceRanges: catalog.PriceRanges,
	})
}

func (h *handlers) getProduct(c *gin.Context) {
	p, ok := h.productParam(c)
	if !ok {
		return
	}
	_, err := h.dispatcher.Dispatch(c.Request.Context(), actorFrom(c), &intent.Track{
		Name:   analytics.EventProductView,
		Params: map[string]any{"product_id": p.ID, "product_name": p.Name},
	})
	if err != nil {
		h.logger.Warn("product view not tracked", zap.Int64("product", p.ID), zap.Error(err))
	}
	c.JSON(http.StatusOK, h.toProductView(p))
}

func (h *handlers) shareProduct(c *gin.Context) {
	p, ok := h.productParam(c)
	if !ok {
		return
	}
	if h.share == nil {
		writeError(c, h.logger, domain.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, h.share.ForProduct(p.ID, p.Name))
}

func (h *handlers) adminLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, invalidBody(err))
		return
	}
	token, expires, err := h.admin.Login(req.Username, req.Password)
	if err != nil {
		h.logger.Warn("admin login rejected", zap.String("username", req.Username))
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, loginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(expires.Sub(h.now()).Seconds()),
	})
}

// adminSearch matches name, category and description, as the panel's search
// box does.
func (h *handlers) adminSearch(c *gin.Context) {
	products := slices.Collect(h.catalog.List(c.Query("q")))
	c.JSON(http.StatusOK, productListResponse{
		Count:       len(products),
		Results:     h.toProductViews(products),
		PriceRanges: catalog.PriceRanges,
	})
}

func (h *handlers) createProduct(c *gin.Context) {
	var fields domain.ProductFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		writeError(c, h.logger, invalidBody(err))
		return
	}
	res, err := h.dispatcher.Dispatch(c.Request.Context(), actorFrom(c), &intent.AddProduct{Product: fields})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, h.toProductView(*res.Product))
}

func (h *handlers) updateProduct(c *gin.Context) {
	id, err := intent.ParseProductRef(c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	var fields domain.ProductFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		writeError(c, h.logger, invalidBody(err))
		return
	}
	res, err := h.dispatcher.Dispatch(c.Request.Context(), actorFrom(c), &intent.UpdateProduct{ProductID: id, Product: fields})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.toProductView(*res.Product))
}

func (h *handlers) deleteProduct(c *gin.Context) {
	id, err := intent.ParseProductRef(c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	res, err := h.dispatcher.Dispatch(c.Request.Context(), actorFrom(c), &intent.RemoveProduct{ProductID: id})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if !*res.Removed {
		writeError(c, h.logger, domain.ErrNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) productParam(c *gin.Context) (domain.Product, bool) {
	id, err := intent.ParseProductRef(c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return domain.Product{}, false
	}
	p, err := h.catalog.Find(int64(id))
	if err != nil {
		writeError(c, h.logger, err)
		return domain.Product{}, false
	}
	return p, true
}
