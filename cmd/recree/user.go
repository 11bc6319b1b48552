// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"recree/internal/models"
	"recree/internal/store"
)

var (
	userEmail    string
	userName     string
	userRole     string
	userPassword string
)

// userCmd groups back-office user management
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage back-office users",
}

// userCreateCmd creates a user
var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a back-office user",
	Long: `Create a back-office user. The user enrolls in two-factor
authentication on first login.

The password may also be given through RECREE_USER_PASSWORD.`,
	RunE: runUserCreate,
}

func init() {
	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "Login email (required)")
	userCreateCmd.Flags().StringVar(&userName, "name", "", "Display name")
	userCreateCmd.Flags().StringVar(&userRole, "role", string(models.RoleEditor), "Role: admin or editor")
	userCreateCmd.Flags().StringVar(&userPassword, "password", "", "Initial password")
	_ = userCreateCmd.MarkFlagRequired("email")

	userCmd.AddCommand(userCreateCmd)
}

func runUserCreate(cmd *cobra.Command, args []string) error {
	role := models.Role(userRole)
	if !role.Valid() {
		return fmt.Errorf("invalid role %q", userRole)
	}
	password := userPassword
	if password == "" {
		password = os.Getenv("RECREE_USER_PASSWORD")
	}
	if len(password) < 12 {
		return fmt.Errorf("password must be at least 12 characters")
	}
	name := userName
	if name == "" {
		name = userEmail
	}

	pool, err := openDB(cmd.Context())
	if err != nil {
		return err
	}
	defer pool.Close()

	u, err := store.NewUserStore(pool).Create(cmd.Context(), userEmail, password, name, role)
	if err != nil {
		return err
	}
	slog.Info("user created", "id", u.ID, "email", u.Email, "role", u.Role)
	return nil
}
