package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"schichtpilot/backend/internal/dto"
	"schichtpilot/backend/internal/service"
	"schichtpilot/backend/pkg/response"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportCoverage 导出区间覆盖结果
// GET /api/v1/export/coverage?from=2025-03-01&to=2025-03-31
func (h *ExportHandler) ExportCoverage(c *gin.Context) {
	var req dto.ExportCoverageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParams, "from 和 to 不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportCoverage(c.Request.Context(), &req)
	if err != nil {
		handleCoverageError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.PathEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, xlsxMIME, buf.Bytes())
}
