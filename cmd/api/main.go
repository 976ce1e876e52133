package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JustinCWang/NNPL-Website-sub000/internal/app"
	"github.com/JustinCWang/NNPL-Website-sub000/internal/auth"
	"github.com/JustinCWang/NNPL-Website-sub000/internal/clock"
	"github.com/JustinCWang/NNPL-Website-sub000/internal/config"
	"github.com/JustinCWang/NNPL-Website-sub000/internal/logger"
	"github.com/JustinCWang/NNPL-Website-sub000/internal/metrics"
	"github.com/JustinCWang/NNPL-Website-sub000/internal/ratelimit"
	"github.com/JustinCWang/NNPL-Website-sub000/internal/storage/postgres"
	transporthttp "github.com/JustinCWang/NNPL-Website-sub000/internal/transport/http"
	"github.com/JustinCWang/NNPL-Website-sub000/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	startupTimeout       = 30 * time.Second
	sessionSweepInterval = 15 * time.Minute
	limiterIdleTTL       = 30 * time.Minute
)

func main() {
	cfg, err := config.Load(os.Getenv("ENV_FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Errorw("api exited", "error", err)
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.SugaredLogger) error {
	startupCtx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	pool, err := openPool(startupCtx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	applied, err := migrations.Apply(startupCtx, pool)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	if len(applied) > 0 {
		log.Infow("migrations applied", "names", applied)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	clk := clock.NewSystem()
	eventRepo := postgres.NewEventRepository(pool)
	storeRepo := postgres.NewStoreRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	sessionRepo := postgres.NewSessionRepository(pool)

	authSvc := app.NewAuthService(userRepo, sessionRepo, auth.NewHasher(0), clk,
		app.WithSessionTTL(cfg.Auth.SessionTTL),
		app.WithLoginLimiter(ratelimit.New(cfg.Auth.LoginRPS, cfg.Auth.LoginBurst, limiterIdleTTL)),
		app.WithAuthMetrics(m),
		app.WithAuthLogger(log.Named("auth")),
	)
	eventSvc := app.NewEventService(eventRepo, storeRepo, clk, app.WithEventMetrics(m))
	storeSvc := app.NewStoreService(storeRepo, clk)
	userSvc := app.NewUserService(userRepo, clk)

	handler := transporthttp.NewRouter(transporthttp.RouterConfig{
		Auth:           authSvc,
		Events:         eventSvc,
		Stores:         storeSvc,
		Users:          userSvc,
		DB:             pool,
		Metrics:        m,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Logger:         log.Named("http"),
		CORSOrigins:    cfg.AllowedOrigins(),
	})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go authSvc.RunSessionJanitor(stopCtx, sessionSweepInterval)

	log.Infow("api listening", "addr", server.Addr)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
	case <-stopCtx.Done():
		log.Infow("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Warnw("server shutdown error", "error", err)
	}
	log.Infow("server stopped")
	return nil
}

func openPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to db: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return pool, nil
}
