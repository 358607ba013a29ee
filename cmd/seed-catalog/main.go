// Command seed-catalog creates the products table and upserts the built-in
// catalog, for running the storefront with the postgres catalog source.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"Storefront/internal/catalog"
	"Storefront/pkg/kit"
)

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection URL")
		timeout     = flag.Duration("timeout", 30*time.Second, "Overall deadline")
	)
	flag.Parse()

	log, err := kit.NewLogger("seed-catalog", kit.LogConfig{Level: "info"})
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()

	if *databaseURL == "" {
		log.Fatal("database url is required: pass -database-url or set DATABASE_URL")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	pool, err := catalog.NewPool(ctx, *databaseURL)
	if err != nil {
		log.Fatal("connect", zap.Error(err))
	}
	defer pool.Close()

	src := catalog.NewPostgresSource(pool)
	if err := src.Migrate(ctx); err != nil {
		log.Fatal("migrate", zap.Error(err))
	}

	seed := catalog.Seed()
	if err := src.Upsert(ctx, seed); err != nil {
		log.Fatal("upsert", zap.Error(err))
	}
	log.Info("catalog seeded", zap.Int("products", len(seed)))
}
