package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/boardgame-depot/internal/config"
	"github.com/iliyamo/boardgame-depot/internal/database"
	"github.com/iliyamo/boardgame-depot/internal/handler"
	"github.com/iliyamo/boardgame-depot/internal/logging"
	"github.com/iliyamo/boardgame-depot/internal/metrics"
	"github.com/iliyamo/boardgame-depot/internal/middleware"
	"github.com/iliyamo/boardgame-depot/internal/queue"
	"github.com/iliyamo/boardgame-depot/internal/repository"
	"github.com/iliyamo/boardgame-depot/internal/router"
	"github.com/iliyamo/boardgame-depot/internal/service"
)

func main() {
	cfg := config.Load()
	logger := logging.NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logging.Error(logger, "database connection failed", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.EnsureSchema(ctx, db, database.MySQL); err != nil {
		logging.Error(logger, "schema setup failed", err)
		os.Exit(1)
	}

	repos := repository.NewRepos(db)
	rec := metrics.NewRecorder()
	rdb := config.NewRedisClient(cfg.Redis, logger)
	if rdb != nil {
		defer rdb.Close()
	}

	var events service.SaleEventPublisher = queue.Discard{}
	if cfg.EventsEnabled {
		events = queue.NewPublisher(cfg.RabbitURL, logger)
		go func() {
			err := queue.NewConsumer(cfg.RabbitURL, cfg.SalesLogDir, logger).Run(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				logging.Error(logger, "sales ledger consumer stopped", err)
			}
		}()
	}
	if cfg.BulkCommissionAsPercent {
		logging.Warn(logger, "bulk sales treat session commission as a percentage")
	}

	auth := service.NewAuthService(repos.Managers, cfg.JWTSecret,
		time.Duration(cfg.AccessTTLMin)*time.Minute, cfg.BcryptCost, logger)
	if cfg.BootstrapAdminEmail != "" {
		if _, err := auth.EnsureAdmin(ctx, cfg.BootstrapAdminEmail, cfg.BootstrapAdminPassword); err != nil {
			logging.Error(logger, "bootstrap admin failed", err)
			os.Exit(1)
		}
	}
	sales := service.NewTransactionService(db, repos, events, rec, logger, cfg.BulkCommissionAsPercent)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: cfg.CORSOrigins}))
	e.Use(middleware.RequestLogger(logger))
	e.Use(middleware.Metrics(rec))

	guards := router.Guards{
		JWTSecret:  cfg.JWTSecret,
		Cache:      middleware.NewRedisCache(cfg.Cache, rdb, logger),
		Invalidate: middleware.InvalidateCache(cfg.Cache, rdb, logger),
		LoginLimit: middleware.NewTokenBucket(cfg.RateLimit, rdb, logger),
	}
	router.RegisterRoutes(e, rec.Handler())
	router.RegisterAuth(e, handler.NewAuthHandler(auth, logger), guards)
	router.RegisterCatalog(e, router.CatalogHandlers{
		Games:            handler.NewDepositedGameHandler(service.NewDepositedGameService(repos, logger), logger),
		Sessions:         handler.NewSessionHandler(service.NewSessionService(repos.Sessions), logger),
		Sellers:          handler.NewSellerHandler(service.NewSellerService(repos.Sellers), logger),
		Clients:          handler.NewClientHandler(service.NewClientService(repos.Clients), logger),
		GameDescriptions: handler.NewGameDescriptionHandler(service.NewGameDescriptionService(repos.GameDescriptions), logger),
	}, guards)
	router.RegisterSales(e, handler.NewTransactionHandler(sales, logger), guards)

	addr := ":" + cfg.Port
	go func() {
		logging.Info(logger, "listening", "addr", addr, "env", cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error(logger, "server stopped", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logging.Error(logger, "shutdown failed", err)
	}
}
