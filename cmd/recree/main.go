// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the reCree taxonomy service. Without a subcommand it
// serves the HTTP API; the other commands run migrations, import taxonomy
// fixtures and manage back-office users.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"recree/internal/config"
	"recree/internal/database"
)

var cfg *config.Config

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "recree",
	Short: "reCree taxonomy service",
	Long: `recree serves the reCree topic tree and tag groups.

Topics form a tree at most three levels deep and inherit display colors
from their ancestors. Tags are flat and grouped.

Run without arguments to start the HTTP server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		setupLogger(cfg)
		return nil
	},
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(userCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogger installs the default slog logger: text in development, JSON
// everywhere else.
func setupLogger(c *config.Config) {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	var h slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if c.IsDev() {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}

// openDB connects to PostgreSQL and applies pending migrations.
func openDB(ctx context.Context) (*pgxpool.Pool, error) {
	pool, err := database.Connect(ctx, cfg.DSN(), cfg.DBMaxConns)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return pool, nil
}
