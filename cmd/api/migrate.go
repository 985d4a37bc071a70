package main

import (
	"restaurant/internal/infra/db"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			gormDB, err := db.Connect(cfg)
			if err != nil {
				return err
			}
			return db.Migrate(gormDB, logger)
		},
	}
}
