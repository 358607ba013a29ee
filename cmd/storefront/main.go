package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-faster/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"Storefront/internal/cart"
	"Storefront/internal/catalog"
	"Storefront/internal/config"
	"Storefront/internal/gateway"
	"Storefront/internal/order"
	"Storefront/internal/session"
	"Storefront/pkg/kit"
)

const service = "storefront"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}

	log, err := kit.NewLogger(service, cfg.Log.Kit())
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("storefront stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	src, closeSrc, err := openSource(ctx, cfg.Catalog)
	if err != nil {
		return err
	}
	defer closeSrc()

	products, err := catalog.Load(ctx, src)
	if err != nil {
		return err
	}
	log.Info("catalog loaded",
		zap.String("source", cfg.Catalog.Source),
		zap.Int("products", products.Len()),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := cart.NewMetrics(reg)

	var (
		carts cart.Registry
		tm    *session.TokenMaker
	)
	switch cfg.Cart.Mode {
	case config.ModeSession:
		sr, err := cart.NewSessionRegistry(products, cfg.Cart.MaxSessions, metrics)
		if err != nil {
			return err
		}
		carts = sr
		tm = session.NewTokenMaker(cfg.Cart.SessionSecret, cfg.Cart.SessionTTL)
	default:
		carts = cart.NewSharedRegistry(cart.NewStore(products, cart.WithMetrics(metrics)))
	}
	log.Info("cart registry ready", zap.String("mode", cfg.Cart.Mode))

	h, err := gateway.NewHandler(
		gateway.Deps{
			Catalog: products,
			Source:  src,
			Carts:   carts,
			Orders:  order.NewService(order.NewMemStore(cfg.Orders.MaxOrders), carts, log),
			Session: tm,
		},
		gateway.HTTPDeps{
			Log:            log,
			Service:        service,
			Registry:       reg,
			MetricsEnabled: cfg.Metrics.Enabled,
			MetricsToken:   cfg.Metrics.Token,
			TrustProxy:     cfg.TrustProxy,
			RateLimit:      gateway.RateLimit{Max: cfg.RateLimit.Max, Window: cfg.RateLimit.Window},
			CORS: kit.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           600,
			},
		},
	)
	if err != nil {
		return errors.Wrap(err, "build handler")
	}

	return kit.RunHTTPServer(ctx, kit.ServerConfig{
		Addr:            cfg.Addr,
		ShutdownTimeout: cfg.Graceful.ShutdownTimeout,
	}, h, log)
}

func openSource(ctx context.Context, cfg config.CatalogConfig) (catalog.Source, func(), error) {
	if cfg.Source != config.SourcePostgres {
		return catalog.SeedSource{}, func() {}, nil
	}

	pool, err := catalog.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return catalog.NewPostgresSource(pool), pool.Close, nil
}
