package httpserver

import (
	"context"
	"iter"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tecnostore/internal/domain"
	"tecnostore/internal/intent"
	"tecnostore/internal/render"
	"tecnostore/internal/service/admin"
	"tecnostore/internal/service/ledger"
	"tecnostore/internal/service/promo"
	"tecnostore/internal/service/share"
)

// Catalog is the read side of the product catalog.
type Catalog interface {
	Find(id int64) (domain.Product, error)
	List(filter string) iter.Seq[domain.Product]
}

// Carts resolves the ledger for a session. release must be called once the
// handler is done with it.
type Carts interface {
	Acquire(ctx context.Context, sessionID string) (lg *ledger.Ledger, release func(), err error)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, actor intent.Actor, cmd intent.Command) (intent.Result, error)
}

type Sessions interface {
	Issue() string
	Validate(id string) (string, error)
	TTLSeconds() int
}

type AdminAuth interface {
	Login(username, password string) (string, time.Time, error)
	Verify(token string) (admin.Claims, error)
}

type Events interface {
	Subscribe(sessionID string) *render.Subscription
	Unsubscribe(sub *render.Subscription)
}

// Promo reports the countdown state at a point in time.
type Promo interface {
	Remaining(now time.Time) promo.Remaining
	End() time.Time
}

// Deps bundles the services used by the HTTP handlers.
type Deps struct {
	Store        Pinger
	Catalog      Catalog
	Carts        Carts
	Dispatcher   Dispatcher
	Sessions     Sessions
	Admin        AdminAuth
	Events       Events
	Promo        Promo
	Share        *share.Builder
	Money        Money
	CORSOrigins  []string
	SecureCookie bool
	Now          func() time.Time

	closing <-chan struct{}
}

type handlers struct {
	catalog    Catalog
	carts      Carts
	dispatcher Dispatcher
	sessions   Sessions
	admin      AdminAuth
	events     Events
	promo      Promo
	share      *share.Builder
	money      Money
	secure     bool
	now        func() time.Time
	closing    <-chan struct{}
	logger     *zap.Logger
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, deps Deps) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(requestLogger(logger), gin.RecoveryWithWriter(zap.NewStdLog(logger).Writer()))
	if len(deps.CORSOrigins) > 0 {
		router.Use(cors.New(corsConfig(deps.CORSOrigins)))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Store))

	h := &handlers{
		catalog:    deps.Catalog,
		carts:      deps.Carts,
		dispatcher: deps.Dispatcher,
		sessions:   deps.Sessions,
		admin:      deps.Admin,
		events:     deps.Events,
		promo:      deps.Promo,
		share:      deps.Share,
		money:      deps.Money,
		secure:     deps.SecureCookie,
		now:        deps.Now,
		closing:    deps.closing,
		logger:     logger,
	}
	if h.money == nil {
		h.money = plainAmount
	}
	if h.now == nil {
		h.now = time.Now
	}

	api := router.Group("/api")
	api.Use(h.sessionMiddleware(), h.adminMiddleware(false))

	api.GET("/products", h.listProducts)
	api.GET("/products/:id", h.getProduct)
	api.GET("/products/:id/share", h.shareProduct)

	api.POST("/admin/login", h.adminLogin)
	panel := api.Group("/admin/products", h.adminMiddleware(true))
	panel.GET("", h.adminSearch)
	panel.POST("", h.createProduct)
	panel.PUT("/:id", h.updateProduct)
	panel.DELETE("/:id", h.deleteProduct)

	api.GET("/cart", h.getCart)
	api.POST("/cart/items", h.addCartItem)
	api.DELETE("/cart/items/:id", h.removeCartItem)
	api.POST("/cart/items/:id/:direction", h.adjustCartItem)
	api.POST("/cart/checkout", h.checkout)

	api.POST("/intents", h.dispatchIntent)
	api.GET("/promo", h.getPromo)
	api.GET("/events", h.streamEvents)
	api.POST("/analytics/events", h.trackEvent)
	api.POST("/contact", h.submitContact)
	api.POST("/newsletter", h.subscribe)

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Location"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			cfg.AllowCredentials = false
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}
