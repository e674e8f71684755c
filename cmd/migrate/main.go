package main

import (
	"context"
	"flag"

	"go.uber.org/zap"

	"tecnostore/internal/config"
	"tecnostore/internal/db"
	"tecnostore/internal/logger"
	"tecnostore/internal/migrate"
)

func main() {
	down := flag.Bool("down", false, "Roll back the latest migration instead of applying")
	flag.Parse()

	cfg := config.FromEnv()
	log, err := logger.New(logger.Options{Env: cfg.Env, Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log = log.Named("migrate")

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, log)
	if err != nil {
		log.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	if *down {
		err = migrate.Rollback(ctx, pool)
	} else {
		err = migrate.Apply(ctx, pool)
	}
	if err != nil {
		log.Fatal("migrate", zap.Bool("down", *down), zap.Error(err))
	}

	version, dirty, err := migrate.Version(ctx, pool)
	if err != nil {
		log.Fatal("read schema version", zap.Error(err))
	}
	log.Info("migrations applied", zap.Uint("version", version), zap.Bool("dirty", dirty))
}
