package main

import (
	"fmt"
	"os"

	"github.com/gdugdh24/confhub-backend/internal/config"
	"github.com/gdugdh24/confhub-backend/internal/infrastructure/database"
	"github.com/gdugdh24/confhub-backend/internal/logging"
	"github.com/gdugdh24/confhub-backend/internal/repository/postgres"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply every pending migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(db *sqlx.DB) error {
			return postgres.MigrateUp(cmd.Context(), db)
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		steps, _ := cmd.Flags().GetInt("steps")
		return withDB(cmd, func(db *sqlx.DB) error {
			return postgres.MigrateDown(cmd.Context(), db, steps)
		})
	},
}

func init() {
	migrateDownCmd.Flags().Int("steps", 1, "number of migrations to roll back")
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
}

func withDB(cmd *cobra.Command, fn func(*sqlx.DB) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

	db, err := database.NewPostgresDB(cmd.Context(), &cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := fn(db); err != nil {
		return fmt.Errorf("%s: %w", cmd.CommandPath(), err)
	}
	logger.Info("migrations done", "command", cmd.CommandPath())
	return nil
}
