package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	cartapp "github.com/dwikikusuma/shopping-cart/internal/cart/app"
	carthttp "github.com/dwikikusuma/shopping-cart/internal/cart/httpapi"
	cartadapter "github.com/dwikikusuma/shopping-cart/internal/cart/infra/adapter"
	cartkafka "github.com/dwikikusuma/shopping-cart/internal/cart/infra/kafka"
	cartmemory "github.com/dwikikusuma/shopping-cart/internal/cart/infra/memory"
	cartpg "github.com/dwikikusuma/shopping-cart/internal/cart/infra/postgres"
	cartredis "github.com/dwikikusuma/shopping-cart/internal/cart/infra/redis"

	catalogapp "github.com/dwikikusuma/shopping-cart/internal/catalog/app"
	cataloghttp "github.com/dwikikusuma/shopping-cart/internal/catalog/httpapi"
	catalogpg "github.com/dwikikusuma/shopping-cart/internal/catalog/infra/postgres"

	"github.com/dwikikusuma/shopping-cart/internal/server"
	"github.com/dwikikusuma/shopping-cart/internal/server/middleware"
	"github.com/dwikikusuma/shopping-cart/pkg/config"
	"github.com/dwikikusuma/shopping-cart/pkg/logger"
	"github.com/dwikikusuma/shopping-cart/pkg/observability"
	"github.com/dwikikusuma/shopping-cart/pkg/postgres"
	"github.com/dwikikusuma/shopping-cart/pkg/shutdown"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"gorm.io/gorm"
)

const serviceName = "shopping-cart"

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Options{Service: serviceName, Env: cfg.AppEnv, Level: cfg.LogLevel, AddSource: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Error("api exited", zap.Error(err))
		os.Exit(1)
	}
	log.Info("bye")
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	// Resources acquired below are released here when startup fails, and by
	// the shutdown goroutine once the servers run.
	var resources shutdown.Stack
	serving := false
	defer func() {
		if !serving {
			if err := shutdown.Graceful(10*time.Second, resources.Release); err != nil {
				log.Warn("release after failed startup", zap.Error(err))
			}
		}
	}()

	stopTracing, err := observability.SetupTracing(ctx, observability.TracingOptions{
		Service:  serviceName,
		Version:  version,
		Exporter: cfg.Otel.Exporter,
		Endpoint: cfg.Otel.Endpoint,
	})
	if err != nil {
		return err
	}
	resources.Push(stopTracing)

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
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	resources.Push(func(context.Context) error { return sqlDB.Close() })
	if err := catalogpg.Migrate(db); err != nil {
		return fmt.Errorf("migrate catalog: %w", err)
	}

	// Catalog
	catalogSvc := catalogapp.NewService(catalogpg.NewItemRepo(db))

	// Cart
	carts, closeStore, err := openCartStore(ctx, cfg, db, log)
	if err != nil {
		return err
	}
	resources.Push(closeStore)

	var events cartapp.EventPublisher = cartapp.NoopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		pub := cartkafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.CartTopic)
		events = pub
		resources.Push(func(context.Context) error { return pub.Close() })
		log.Info("cart events enabled", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.CartTopic))
	}

	cartSvc := cartapp.NewService(carts, cartadapter.NewCatalogServiceReader(catalogSvc), events, log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := server.NewRouter(server.RouterConfig{
		Service:     serviceName,
		Log:         log.Named("http"),
		APIPrefix:   cfg.APIPrefix,
		CORSOrigins: []string{cfg.CORSOrigin},
		Session: middleware.SessionOptions{
			CookieName: cfg.Session.CookieName,
			MaxAge:     cfg.Session.MaxAge,
			Secure:     cfg.Session.Secure,
		},
		Public:        []server.Registrar{cataloghttp.NewHandler(catalogSvc)},
		SessionRoutes: []server.Registrar{carthttp.NewHandler(cartSvc)},
		Ready: func() error {
			pingCtx, pingCancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer pingCancel()
			return sqlDB.PingContext(pingCtx)
		},
	})

	httpAddr := fmt.Sprintf(":%d", cfg.HTTPPort)
	httpServer := &http.Server{
		Addr:              httpAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	grpcAddr := fmt.Sprintf(":%d", cfg.GRPCPort)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", grpcAddr, err)
	}
	grpcServer := grpc.NewServer()
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	healthSrv.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)

	serving = true
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server starting", zap.String("addr", httpAddr), zap.String("cart_store", cfg.CartStore))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		log.Info("grpc health server starting", zap.String("addr", grpcAddr))
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("grpc serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown requested")
		healthSrv.Shutdown()

		return shutdown.Graceful(10*time.Second,
			httpServer.Shutdown,
			func(ctx context.Context) error { return stopGRPC(ctx, grpcServer, log) },
			resources.Release,
		)
	})

	return g.Wait()
}

// openCartStore builds the store named by CART_STORE and the func that
// releases it.
func openCartStore(ctx context.Context, cfg config.Config, db *gorm.DB, log *zap.Logger) (cartapp.CartStore, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	switch cfg.CartStore {
	case config.CartStoreRedis:
		rdb, err := cartredis.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		return cartredis.NewCartStore(rdb, cfg.Redis.CartTTL), func(context.Context) error { return rdb.Close() }, nil
	case config.CartStoreMemory:
		log.Warn("using in-memory cart store; carts are lost on restart")
		return cartmemory.NewCartStore(), noop, nil
	default:
		if err := cartpg.Migrate(db); err != nil {
			return nil, nil, fmt.Errorf("migrate carts: %w", err)
		}
		return cartpg.NewCartRepo(db), noop, nil
	}
}

func stopGRPC(ctx context.Context, s *grpc.Server, log *zap.Logger) error {
	stopped := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(stopped)
	}()

	select {
	case <-ctx.Done():
		log.Warn("graceful stop timeout, forcing stop")
		s.Stop()
		return ctx.Err()
	case <-stopped:
		return nil
	}
}
