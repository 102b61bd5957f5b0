package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"schichtpilot/backend/config"
	applogger "schichtpilot/backend/pkg/logger"
)

// coveragectl 运维命令行：离线计算快照覆盖、执行数据库迁移

var configPath string

var rootCmd = &cobra.Command{
	Use:           "coveragectl",
	Short:         "SchichtPilot 人员覆盖分析运维工具",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "配置文件路径（默认 ./config/config.yaml）")

	rootCmd.AddCommand(newEvaluateCmd())
	rootCmd.AddCommand(newMigrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

// loadRuntime 加载配置与日志，命令行默认输出 console 格式到 stderr
func loadRuntime() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	cfg.Log.Format = "console"
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("初始化日志失败: %w", err)
	}
	return cfg, logger, nil
}
