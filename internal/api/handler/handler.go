package handler

import "schichtpilot/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Coverage *CoverageHandler
	Export   *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Coverage: NewCoverageHandler(svc.Coverage),
		Export:   NewExportHandler(svc.Export),
	}
}
