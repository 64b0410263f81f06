package main

import (
	"github.com/spf13/cobra"
	"github.com/studyswaps/learning-service/internal/config"
	"github.com/studyswaps/learning-service/internal/utils"
	"github.com/studyswaps/learning-service/pkg"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		logger := utils.NewLogger(cfg.Environment)

		db, err := pkg.InitDatabase(cfg)
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		defer sqlDB.Close()

		if err := pkg.Migrate(db); err != nil {
			return err
		}
		logger.Info("Database schema up to date")
		return nil
	},
}
