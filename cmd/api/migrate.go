package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"hotelapi/internal/config"
	"hotelapi/internal/database"
)

func newMigrateCmd(cfg *config.AppConfig, log zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema if it is missing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := database.Connect(cmd.Context(), cfg.Database, log, true)
			if err != nil {
				return err
			}
			return db.Close()
		},
	}
}
