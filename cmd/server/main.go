package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"globetrotter/docs"
	"globetrotter/internal/auth"
	"globetrotter/internal/cache"
	"globetrotter/internal/config"
	"globetrotter/internal/db"
	"globetrotter/internal/handler"
	"globetrotter/internal/logger"
	"globetrotter/internal/repository"
	"globetrotter/internal/router"
	"globetrotter/internal/service"
	"globetrotter/internal/upload"
)

// @title Globetrotter API
// @version 1.0
// @description Travel planner backend: registration, login and user profiles.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	zl, err := logger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := db.NewStore(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		zl.Fatal("database init", zap.Error(err))
	}
	defer store.Close()

	if err := store.InitializeSchema(ctx); err != nil {
		zl.Fatal("initialize schema", zap.Error(err))
	}
	zl.Info("database ready", zap.String("driver", cfg.DBDriver))

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if !cacheClient.Enabled() {
		zl.Warn("REDIS_ADDR not set: profile cache and refresh tokens are disabled")
	}

	photos, err := upload.NewPhotoStore(ctx, cfg)
	if err != nil {
		zl.Fatal("photo store init", zap.Error(err))
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(store)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, photos, jwtService, tokenStore, cfg.DefaultPassword)
	userService := service.NewUserService(userRepo, cacheClient)

	e := echo.New()
	e.HideBanner = true
	router.Register(
		e,
		cfg,
		zl,
		jwtService,
		handler.NewAuthHandler(authService),
		handler.NewUserHandler(userService),
	)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}
	zl.Info("swagger documentation available", zap.String("url", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html"))

	go func() {
		addr := ":" + cfg.ServerPort
		zl.Info("server listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			zl.Fatal("server start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zl.Error("server shutdown", zap.Error(err))
	}
}
