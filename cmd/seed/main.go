package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	catalogapp "github.com/dwikikusuma/shopping-cart/internal/catalog/app"
	catalogpg "github.com/dwikikusuma/shopping-cart/internal/catalog/infra/postgres"
	"github.com/dwikikusuma/shopping-cart/internal/catalog/infra/seed"
	"github.com/dwikikusuma/shopping-cart/pkg/config"
	"github.com/dwikikusuma/shopping-cart/pkg/logger"
	"github.com/dwikikusuma/shopping-cart/pkg/postgres"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	file := flag.String("file", cfg.SeedFile, "YAML seed file; empty uses the built-in fixtures")
	flag.Parse()

	log, err := logger.New(logger.Options{Service: "seed", Env: cfg.AppEnv, Level: cfg.LogLevel})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, *file, log); err != nil {
		log.Error("seed failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg config.Config, file string, log *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	items, err := seed.Load(file)
	if err != nil {
		return err
	}

	db, err := postgres.Open(postgres.Config{
		Host:    cfg.Postgres.Host,
		Port:    cfg.Postgres.Port,
		User:    cfg.Postgres.User,
		Pass:    cfg.Postgres.Pass,
		DB:      cfg.Postgres.DB,
		SSLMode: cfg.Postgres.SSLMode,
	}, log)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	if err := catalogpg.Migrate(db); err != nil {
		return fmt.Errorf("migrate catalog: %w", err)
	}

	n, err := seed.Run(ctx, catalogapp.NewService(catalogpg.NewItemRepo(db)), items, log)
	if err != nil {
		return err
	}
	log.Info("seeding finished", zap.Int("created", n))
	return nil
}
