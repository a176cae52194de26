package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"liars_dice/internal/config"
	"liars_dice/internal/db"
	httpServer "liars_dice/internal/http"
	"liars_dice/internal/http/handlers"
	"liars_dice/internal/http/middleware"
	"liars_dice/internal/logger"
	"liars_dice/internal/repository"
	"liars_dice/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

var version = "dev"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	if cfg.JWTSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}
	service.InitJWT(cfg.JWTSecret)

	var dbPool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		dbPool = db.Connect(cfg.DatabaseURL)
		defer dbPool.Close()
	}
	rdb := middleware.InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if rdb != nil {
		defer rdb.Close()
	}

	personas, defeated, err := repository.NewStores(cfg.MemoryBackend, repository.Backends{
		DB: dbPool, Redis: rdb, MemoryFile: cfg.MemoryFile, DefeatedFile: cfg.DefeatedFile,
	})
	if err != nil {
		logger.Fatal("failed to open memory stores", "error", err)
	}

	opts := []service.MatchOption{
		service.WithLimits(service.Limits{MinAnte: cfg.MinAnte, MaxAnte: cfg.MaxAnte}),
		service.WithAutosaveTurns(cfg.AutosaveTurns),
	}
	var (
		wallet  service.Wallet = service.NewMemoryWallet(cfg.StartingGold)
		history handlers.MatchHistory
	)
	if dbPool != nil {
		repo := repository.NewMatchHistoryRepository(dbPool)
		wallet = service.NewBalanceService(dbPool)
		history = repo
		opts = append(opts, service.WithHistory(repo))
	} else {
		logger.Warn("DATABASE_URL not set, gold is kept in memory")
	}
	matches := service.NewMatchService(wallet, personas, defeated, opts...)

	r := gin.Default()

	// CORS for browser clients on another origin
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	h := handlers.NewHandler(personas, defeated, wallet, matches, history)
	httpServer.RegisterRoutes(r, h, handlers.NewHealthHandler(dbPool, rdb, version), cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "memory_backend", cfg.MemoryBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
