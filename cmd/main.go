package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	grpchandler "github.com/Harry9021/kata-sweet-shop/internal/api/grpc/handler"
	grpcrouter "github.com/Harry9021/kata-sweet-shop/internal/api/grpc/router"
	grpcserver "github.com/Harry9021/kata-sweet-shop/internal/api/grpc/server"
	httpctx "github.com/Harry9021/kata-sweet-shop/internal/api/http/context"
	httprouter "github.com/Harry9021/kata-sweet-shop/internal/api/http/router"
	httpserver "github.com/Harry9021/kata-sweet-shop/internal/api/http/server"
	"github.com/Harry9021/kata-sweet-shop/internal/config"
	"github.com/Harry9021/kata-sweet-shop/internal/logger"
	"github.com/Harry9021/kata-sweet-shop/internal/model"
	"github.com/Harry9021/kata-sweet-shop/internal/ratelimit"
	"github.com/Harry9021/kata-sweet-shop/internal/repository/postgres"
	"github.com/Harry9021/kata-sweet-shop/internal/server"
	"github.com/Harry9021/kata-sweet-shop/internal/service"
	"github.com/Harry9021/kata-sweet-shop/internal/storage/minio"
	"github.com/Harry9021/kata-sweet-shop/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("failed to load .env: %v", err)
	}
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.NewWithFormat(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db.DB)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(db.DB)
	sweetRepo := postgres.NewSweetRepository(db.DB)
	orderRepo := postgres.NewOrderRepository(db.DB)

	tokenManager := token.NewJWT(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiry.Duration(),
		cfg.JWT.RefreshExpiry.Duration(),
	)

	authService, err := service.NewAuth(userRepo, refreshTokenRepo, tokenManager, logger, cfg.Bcrypt.Cost)
	if err != nil {
		logger.Fatal("failed to initialize auth service", "error", err)
	}

	var routerOpts []httprouter.Option
	routerOpts = append(routerOpts, httprouter.WithCORSOrigins(cfg.CORSOrigin))

	var images model.Storage
	if cfg.Storage.Enabled {
		client, err := minio.New(ctx, minio.Options{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			logger.Fatal("failed to initialize image storage", "error", err)
		}
		images = client
		routerOpts = append(routerOpts, httprouter.WithImages())
	}

	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		limiter := ratelimit.NewRedisLimiter(rdb, cfg.RateLimit.Requests, cfg.RateLimit.Window, "auth")
		routerOpts = append(routerOpts, httprouter.WithRateLimiter(limiter))
	}

	sweetService := service.NewSweet(sweetRepo, images, logger)
	orderService := service.NewOrder(orderRepo, logger)

	grpcHealth := grpchandler.NewHealth(logger)
	healthService := service.NewHealth(db, cfg.Health.CheckInterval, logger, grpcHealth)
	healthService.Check(ctx)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		healthService.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		service.NewLedgerSweeper(refreshTokenRepo, cfg.Ledger.SweepInterval, logger).Run(ctx)
	}()

	engine := httprouter.New(
		authService,
		sweetService,
		orderService,
		authService.Tokens(),
		healthService,
		httpctx.NewManager(),
		logger,
		routerOpts...,
	).Register()
	httpSrv := httpserver.NewHTTPServer(engine, fmt.Sprintf(":%s", cfg.HTTP.Port))

	grpcSrv := grpcserver.NewGRPCServer(
		grpcrouter.New(grpcHealth, logger).Register(),
		fmt.Sprintf(":%s", cfg.GRPC.Port),
	)

	var httpLayer model.SecurityLayer = server.NewPlainListener()
	if cfg.HTTP.EnableHTTPS {
		httpLayer = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	}

	servers := []struct {
		srv model.Server
		sl  model.SecurityLayer
	}{
		{httpSrv, httpLayer},
		{grpcSrv, server.NewPlainListener()},
	}
	for _, s := range servers {
		wg.Add(1)
		go func(s model.Server, sl model.SecurityLayer) {
			defer wg.Done()
			logger.Info("Starting server on", "address", s.Address())
			if err := s.Start(sl); err != nil {
				logger.Error("failed to start server", "error", err, "address", s.Address())
				stop()
			}
		}(s.srv, s.sl)
	}

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	grpcHealth.Shutdown()
	for _, s := range servers {
		if err := s.srv.Stop(shutdownCtx); err != nil {
			logger.Error("error during server shutdown", "error", err, "address", s.srv.Address())
		}
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
