package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"parkmate/database"
	"parkmate/internal/cache"
	"parkmate/internal/config"
	"parkmate/internal/microservices/http-api/handler"
	"parkmate/internal/microservices/http-api/middleware"
	"parkmate/internal/microservices/http-api/repository"
	"parkmate/internal/microservices/http-api/service"
	"parkmate/internal/scoring"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("failed to get database handle", "error", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	// The cache is optional. A nil *AggregateCache degrades to direct
	// database reads.
	aggCache, err := cache.NewAggregateCache(cfg.RedisAddr, cfg.RedisPassword, time.Duration(cfg.CacheTTL)*time.Second)
	if err != nil {
		logger.Warn("redis unavailable, aggregate caching disabled", "error", err)
		aggCache = nil
	}
	defer aggCache.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	lotRepo := repository.NewParkingLotRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	aggRepo := repository.NewAggregateRepository(db)
	bookmarkRepo := repository.NewBookmarkRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)

	// Services
	scoringClient := scoring.NewClient(cfg.ScoringAPIURL, cfg.ScoringTimeout)
	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg)
	userService := service.NewUserService(userRepo)
	ratingService := service.NewRatingService(db, userRepo, lotRepo, ratingRepo, aggRepo, aggCache)
	recService := service.NewRecommendationService(userRepo, lotRepo, scoringClient, cfg.SearchRadiusM)
	lotService := service.NewParkingLotService(lotRepo, aggRepo, aggCache)
	bookmarkService := service.NewBookmarkService(bookmarkRepo, userRepo, lotRepo)
	adminService := service.NewAdminService(userRepo, lotRepo, ratingRepo, ratingService)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, int64(cfg.AccessTokenTTL.Seconds()))
	userHandler := handler.NewUserHandler(userService)
	ratingHandler := handler.NewRatingHandler(ratingService)
	lotHandler := handler.NewParkingLotHandler(lotService, recService)
	bookmarkHandler := handler.NewBookmarkHandler(bookmarkService)
	adminHandler := handler.NewAdminHandler(adminService, ratingService)

	if cfg.GoEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	authHandler.RegisterRoutes(api)

	authed := api.Group("", middleware.AuthMiddleware(authService))
	userHandler.RegisterRoutes(authed)
	bookmarkHandler.RegisterRoutes(authed)
	ratingHandler.RegisterRoutes(authed, api)
	lotHandler.RegisterRoutes(authed, api)

	admin := api.Group("/admin", middleware.AuthMiddleware(authService), middleware.RequireAdmin())
	adminHandler.RegisterRoutes(admin)

	// Expired refresh tokens pile up otherwise; sweep them hourly.
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				if err := refreshTokenRepo.DeleteExpired(); err != nil {
					logger.Warn("refresh token sweep failed", "error", err)
				}
			}
		}
	}()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
