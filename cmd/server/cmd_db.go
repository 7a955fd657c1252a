package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/rishavanand/bazario/config"
	"github.com/rishavanand/bazario/database/seeders"
	"github.com/rishavanand/bazario/internal/server"
	"github.com/rishavanand/bazario/pkg/database"
	"github.com/rishavanand/bazario/pkg/migration"
)

// dbContext boots the app and returns a runner plus a bounded context.
func dbContext() (*migration.Runner, context.Context, context.CancelFunc, error) {
	if err := config.Load(); err != nil {
		return nil, nil, nil, err
	}
	if err := database.Connect(); err != nil {
		return nil, nil, nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	return migration.New(database.DB), ctx, cancel, nil
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, ctx, cancel, err := dbContext()
		if err != nil {
			return err
		}
		defer cancel()
		return runner.Run(ctx)
	},
}

var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Roll back the last migration batch",
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, ctx, cancel, err := dbContext()
		if err != nil {
			return err
		}
		defer cancel()
		return runner.Rollback(ctx)
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show which migrations have run",
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, ctx, cancel, err := dbContext()
		if err != nil {
			return err
		}
		defer cancel()
		return runner.Status(ctx)
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with the admin user and starter categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := server.Boot(); err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		return seeders.RunAll(ctx)
	},
}
