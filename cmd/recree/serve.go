// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"recree/internal/cache"
	"recree/internal/database"
	"recree/internal/handlers"
	"recree/internal/middleware"
	"recree/internal/router"
	"recree/internal/service"
	"recree/internal/session"
	"recree/internal/store"
)

const shutdownTimeout = 30 * time.Second

// serveCmd starts the HTTP server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Connect to PostgreSQL and Valkey, apply migrations and serve the
public and back-office APIs until SIGINT or SIGTERM.

In development the database is seeded with a default admin user.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("configuration loaded", "env", cfg.Env, "addr", cfg.Addr())

	pool, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.IsDev() {
		if err := database.Seed(ctx, pool); err != nil {
			return fmt.Errorf("seed database: %w", err)
		}
	}
	if err := prometheus.Register(database.NewPoolStatsCollector(pool)); err != nil {
		slog.Warn("pool stats collector not registered", "error", err)
	}

	valkey, err := cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		return fmt.Errorf("connect valkey: %w", err)
	}
	defer valkey.Close()

	// Session cookies are Secure outside development.
	secureCookies := !cfg.IsDev()
	sessions := session.NewStore(valkey, secureCookies)
	treeCache := cache.NewTaxonomyCache(valkey, cfg.TreeCacheTTL)

	topics := service.NewTopicService(store.NewTopicStore(pool), treeCache)
	tags := service.NewTagService(store.NewTagStore(pool), treeCache)

	loginLimiter := middleware.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateBurst, 10*time.Minute)
	defer loginLimiter.Stop()

	r := router.New(router.Deps{
		Sessions:      sessions,
		LoginLimiter:  loginLimiter,
		SecureCookies: secureCookies,
		Auth:          handlers.NewAuth(sessions, store.NewUserStore(pool)),
		Topics:        handlers.NewTopics(topics),
		Tags:          handlers.NewTags(tags),
		Public:        handlers.NewPublic(topics, tags),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	// Drain in-flight requests before the deferred closes run.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
