package main

import (
	"github.com/spf13/cobra"

	"toolplanet/services/marketplace-api/internal/repo"
	"toolplanet/shared/pkg/config"
	"toolplanet/shared/pkg/logger"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logger.New(serviceName, cfg.Common.LogLevel)

			db, err := connectPG(cmd.Context(), cfg.Postgres.DSN)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := repo.Migrate(cmd.Context(), db); err != nil {
				return err
			}
			log.Info().Msg("schema up to date")
			return nil
		},
	}
}
