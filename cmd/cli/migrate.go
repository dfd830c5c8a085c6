package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := app.database()
			if err != nil {
				return err
			}

			if err := db.RunMigrations(app.ctx); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}

			app.logger.Info("Migrations applied")
			return nil
		},
	}
}
