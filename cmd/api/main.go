package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"tecnostore/internal/config"
	"tecnostore/internal/httpserver"
	"tecnostore/internal/intent"
	"tecnostore/internal/logger"
	"tecnostore/internal/render"
	"tecnostore/internal/repository/blob"
	"tecnostore/internal/service/admin"
	"tecnostore/internal/service/analytics"
	"tecnostore/internal/service/catalog"
	"tecnostore/internal/service/handoff"
	"tecnostore/internal/service/ledger"
	"tecnostore/internal/service/promo"
	"tecnostore/internal/service/session"
	"tecnostore/internal/service/share"
)

func main() {
	cfg := config.FromEnv()
	log, err := logger.New(logger.Options{Env: cfg.Env, Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()
	log = log.Named("api")

	ctx := context.Background()
	store, closeStore, err := blob.Open(ctx, blob.Options{
		Driver:        cfg.StoreDriver,
		BoltPath:      cfg.BoltPath,
		DBConnString:  cfg.DBConnString,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
		Migrate:       true,
	}, log)
	if err != nil {
		log.Fatal("open store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Warn("close store", zap.Error(err))
		}
	}()

	bus := render.NewBus(log.Named("render"))

	products := catalog.New(store, cfg.CatalogKey,
		catalog.WithLogger(log.Named("catalog")),
		catalog.WithRenderer(bus),
	)
	if err := products.Restore(ctx); err != nil {
		log.Fatal("restore catalog", zap.Error(err))
	}

	orders := handoff.New(handoff.Config{
		BaseURL:  cfg.HandoffBaseURL,
		Phone:    cfg.HandoffPhone,
		Currency: cfg.Currency,
	}, handoff.LogOpener{Logger: log.Named("handoff")}, log.Named("handoff"))
	carts := ledger.NewRegistry(store, cfg.CartKey, bus.ForSession, orders, log.Named("ledger"))
	sweeper := ledger.NewSweeper(carts, cfg.CartIdleTimeout, log.Named("ledger"))
	if err := sweeper.Start(cfg.CartSweepSchedule); err != nil {
		log.Fatal("start cart sweeper", zap.String("schedule", cfg.CartSweepSchedule), zap.Error(err))
	}
	defer sweeper.Stop()

	sinks := []analytics.Sink{analytics.LogSink{Logger: log.Named("analytics")}}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSink := analytics.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic, log.Named("analytics"))
		defer func() {
			if err := kafkaSink.Close(); err != nil {
				log.Warn("close kafka sink", zap.Error(err))
			}
		}()
		sinks = append(sinks, kafkaSink)
	}
	tracker := analytics.NewTracker(log.Named("analytics"), sinks...)

	countdown := promo.NewCountdown(time.Now(), cfg.PromoDuration)
	ticker := promo.NewTicker(countdown, bus, log.Named("promo"))
	if err := ticker.Start(); err != nil {
		log.Fatal("start promo ticker", zap.Error(err))
	}
	defer ticker.Stop()

	log.Warn("admin panel uses static credentials from configuration and is not a security boundary",
		zap.String("username", cfg.AdminUsername))

	srv, err := httpserver.New(cfg.HTTPAddr, log.Named("http"), httpserver.Deps{
		Store:      store,
		Catalog:    products,
		Carts:      carts,
		Dispatcher: intent.NewDispatcher(products, carts, tracker, log.Named("intent")),
		Sessions:   session.New(),
		Admin: admin.New(admin.Config{
			Username: cfg.AdminUsername,
			Password: cfg.AdminPassword,
			Secret:   cfg.AdminTokenSecret,
			TTL:      cfg.AdminTokenTTL,
		}),
		Events:       bus,
		Promo:        countdown,
		Share:        share.NewBuilder(cfg.PublicBaseURL),
		Money:        orders.Amount,
		CORSOrigins:  cfg.CORSOrigins,
		SecureCookie: cfg.Env == "production",
	})
	if err != nil {
		log.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("starting http server", zap.String("addr", cfg.HTTPAddr), zap.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		log.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	} else {
		log.Info("server stopped")
	}
}
