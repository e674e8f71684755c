package main

import (
	"context"
	"flag"

	"go.uber.org/zap"

	"tecnostore/internal/config"
	"tecnostore/internal/logger"
	"tecnostore/internal/repository/blob"
	"tecnostore/internal/seed"
)

func main() {
	reset := flag.Bool("reset", false, "overwrite an existing catalog with the defaults")
	flag.Parse()

	cfg := config.FromEnv()
	log, err := logger.New(logger.Options{Env: cfg.Env, Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()
	log = log.Named("seed")

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
	defer func() { _ = closeStore() }()

	wrote, err := seed.Apply(ctx, store, cfg.CatalogKey, *reset)
	if err != nil {
		log.Fatal("seed apply", zap.Error(err))
	}
	if !wrote {
		log.Info("catalog already present, nothing written", zap.String("key", cfg.CatalogKey))
		return
	}
	log.Info("seed applied", zap.String("key", cfg.CatalogKey), zap.Bool("reset", *reset))
}
