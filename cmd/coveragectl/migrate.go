package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"schichtpilot/backend/pkg/database"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "执行数据库迁移（auto_migrate 关闭时手动使用）",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadRuntime()
			if err != nil {
				return err
			}
			defer logger.Sync()

			db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
			if err != nil {
				return err
			}
			sqlDB, err := db.DB()
			if err != nil {
				return fmt.Errorf("获取底层 sql.DB 失败: %w", err)
			}
			defer sqlDB.Close()

			return database.RunMigrations(sqlDB, logger)
		},
	}
}
