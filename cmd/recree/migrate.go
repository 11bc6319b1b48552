// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"recree/internal/database"
)

// migrateCmd applies pending migrations
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		pool, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		pool.Close()
		return nil
	},
}

// migrateStatusCmd prints the migration status
var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show applied and pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		pool, err := database.Connect(cmd.Context(), cfg.DSN(), cfg.DBMaxConns)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer pool.Close()
		return database.MigrationStatus(cmd.Context(), pool)
	},
}

func init() {
	migrateCmd.AddCommand(migrateStatusCmd)
}
