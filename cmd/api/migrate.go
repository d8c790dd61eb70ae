package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/redmonkez12/go-task-api/internal/config"
	"github.com/redmonkez12/go-task-api/internal/database"
	"github.com/redmonkez12/go-task-api/internal/logging"
)

func runMigrate(cmd *cobra.Command, args []string) error {
	status, _ := cmd.Flags().GetBool("status")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := logging.NewLogger(cfg.Server.IsDevelopment())

	db, err := database.Open(cfg.Database.ConnectionString(), 1, 1)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if status {
		return database.MigrationStatus(cmd.Context(), db.DB)
	}

	if err := database.Migrate(cmd.Context(), db.DB); err != nil {
		return err
	}

	logger.Info("database migrations applied")
	return nil
}
