package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"greentask/internal/adapter/api"
	"greentask/internal/adapter/api/handler"
	apimiddleware "greentask/internal/adapter/api/middleware"
	"greentask/internal/adapter/api/router"
	"greentask/internal/adapter/repository"
	"greentask/internal/infrastructure/auth"
	"greentask/internal/infrastructure/ratelimit"
	"greentask/internal/infrastructure/scheduler"
	"greentask/internal/infrastructure/seed"
	"greentask/internal/infrastructure/websocket"
	"greentask/internal/usecase"
	"greentask/pkg/config"
	"greentask/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog := logger.New(os.Stdout, os.Stderr, cfg.IsDevelopment())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	jobs, err := scheduler.New(appLog)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}
	jobs.Start()

	limiter := ratelimit.NewRateLimiter()
	limiter.StartCleanupRoutine(ctx, 30*time.Minute)

	wsManager := websocket.NewManager(appLog, limiter)
	wsManager.Start(ctx)

	validator := api.NewValidator()
	sessionRepo := repository.NewMemorySessionRepository()
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL())

	sessionUseCase := usecase.NewSessionUseCase(
		sessionRepo,
		seed.NewMockProfileSeeder(),
		tokens,
		jobs,
		wsManager,
		appLog,
		cfg.WelcomeDelay,
		usecase.WithSessionValidator(validator.Engine()),
	)

	handler.Setup(sessionUseCase, wsManager, limiter, cfg.AllowedOrigins, appLog)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
	}))
	e.Use(apimiddleware.RateLimit(cfg.RateLimitRPS, appLog))

	e.Validator = validator

	authMiddleware := apimiddleware.NewAuthMiddleware(sessionUseCase)
	router.Setup(e, authMiddleware)

	go func() {
		appLog.Info("starting server", "port", cfg.ServerPort, "environment", cfg.Environment)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	appLog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sessionUseCase.CloseAll(shutdownCtx)
	if err := jobs.Shutdown(); err != nil {
		appLog.Warn("scheduler shutdown", "error", err)
	}
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLog.Error("server shutdown", "error", err)
	}
}
