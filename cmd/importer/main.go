package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"tecnostore/internal/config"
	"tecnostore/internal/importer"
	"tecnostore/internal/logger"
	"tecnostore/internal/repository/blob"
	"tecnostore/internal/service/catalog"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to product CSV (id,name,category,price,originalPrice,description,image,badge,stock,rating)")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	log, err := logger.New(logger.Options{Env: cfg.Env, Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()
	log = log.Named("importer")

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

	products := catalog.New(store, cfg.CatalogKey, catalog.WithLogger(log))
	if err := products.Restore(ctx); err != nil {
		log.Fatal("restore catalog", zap.Error(err))
	}

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatal("open file", zap.Error(err))
	}
	defer f.Close()

	start := time.Now()
	count, err := importer.NewCSVImporter(f, products, log).Run(ctx)
	if err != nil {
		log.Fatal("import failed", zap.Int("imported", count), zap.Error(err))
	}

	fmt.Printf("Imported %d products into %s in %s\n", count, cfg.CatalogKey, time.Since(start).Truncate(time.Millisecond))
}
