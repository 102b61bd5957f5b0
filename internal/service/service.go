package service

import (
	"go.uber.org/zap"

	"schichtpilot/backend/config"
	"schichtpilot/backend/internal/repository"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Coverage CoverageService
	Export   ExportService
}

// NewService 创建 Service 聚合
// cache 可为 nil 客户端，此时覆盖结果不缓存
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	cache CellCache,
	logger *zap.Logger,
) *Service {
	cov := NewCoverageService(cfg.Coverage, repo, cache, logger)
	return &Service{
		Coverage: cov,
		Export:   NewExportService(cov, logger),
	}
}
