package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/callcove/backoffice/internal/agents"
	internalhttp "github.com/callcove/backoffice/internal/api/http"
	"github.com/callcove/backoffice/internal/auth"
	"github.com/callcove/backoffice/internal/db"
	"github.com/callcove/backoffice/internal/kb"
	"github.com/callcove/backoffice/internal/revocation"
	"github.com/callcove/backoffice/internal/sessions"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

var AppVersion string

func main() {
	InitConfig()

	slog.Info("Call-Center Back Office Server", "version", AppVersion)

	ctx := context.Background()

	if err := db.RunMigrations(config.Db.Url, config.Db.Schema); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	pool, err := db.InitDB(ctx, config.Db.Url, config.Db.Schema)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	registry, err := newRegistry(config.Revocation)
	if err != nil {
		slog.Error("Failed to set up revocation registry", "error", err)
		os.Exit(1)
	}

	tokenConfig := auth.TokenConfig{
		Secret: config.Auth.Secret,
		TTL:    config.Auth.TokenTTL(),
	}

	agentRepo := agents.NewRepo(pool)
	services := &internalhttp.Services{
		Auth:     auth.NewService(tokenConfig, registry, agentRepo),
		Agents:   agents.NewService(agentRepo),
		Sessions: sessions.NewRepo(pool),
		KB:       kb.NewRepo(pool),
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"PUT", "PATCH", "GET", "POST", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(gin.Recovery())
	internalhttp.SetupRoute(engine, services)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", config.Http.Port),
		Handler: engine,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		slog.Error("Server error", "error", err)
	case sig := <-sigChan:
		slog.Info("Received shutdown signal", "signal", sig)
	}

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	slog.Info("Shutdown complete")
}

func newRegistry(cfg RevocationConfig) (revocation.Registry, error) {
	switch cfg.Backend {
	case "", "memory":
		return revocation.NewMemoryRegistry(), nil
	case "redis":
		opts, err := redis.ParseURL(cfg.RedisUrl)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		return revocation.NewRedisRegistry(redis.NewClient(opts)), nil
	default:
		return nil, fmt.Errorf("unknown revocation backend %q", cfg.Backend)
	}
}
