package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"schichtpilot/backend/internal/dto"
	"schichtpilot/backend/internal/service"
	"schichtpilot/backend/pkg/response"
)

// CoverageHandler 覆盖分析 HTTP 处理器
type CoverageHandler struct {
	coverageSvc service.CoverageService
}

// NewCoverageHandler 创建 CoverageHandler
func NewCoverageHandler(coverageSvc service.CoverageService) *CoverageHandler {
	return &CoverageHandler{coverageSvc: coverageSvc}
}

// GetGrid 区间覆盖状态
// GET /api/v1/coverage?from=2025-03-01&to=2025-03-31&shifts=F,S
func (h *CoverageHandler) GetGrid(c *gin.Context) {
	var req dto.CoverageGridRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParams, "from 和 to 不能为空")
		return
	}

	grid, err := h.coverageSvc.GetGrid(c.Request.Context(), &req)
	if err != nil {
		handleCoverageError(c, err)
		return
	}

	response.OK(c, grid)
}

// GetCell 单元格明细
// GET /api/v1/coverage/cell?date=2025-03-10&shift=F
func (h *CoverageHandler) GetCell(c *gin.Context) {
	var req dto.CoverageCellRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParams, "date 和 shift 不能为空")
		return
	}

	detail, err := h.coverageSvc.GetCell(c.Request.Context(), &req)
	if err != nil {
		handleCoverageError(c, err)
		return
	}

	response.OK(c, detail)
}

// Evaluate 基于请求体中的快照计算覆盖
// POST /api/v1/coverage/evaluate
func (h *CoverageHandler) Evaluate(c *gin.Context) {
	var req dto.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, http.StatusRequestEntityTooLarge, response.CodeBodyTooLarge, "请求体过大")
			return
		}
		response.BadRequest(c, response.CodeInvalidParams, "参数校验失败")
		return
	}

	grid, err := h.coverageSvc.Evaluate(c.Request.Context(), &req)
	if err != nil {
		handleCoverageError(c, err)
		return
	}

	response.OK(c, grid)
}

// ListShiftWindows 班次图例
// GET /api/v1/shift-windows
func (h *CoverageHandler) ListShiftWindows(c *gin.Context) {
	windows, err := h.coverageSvc.ListShiftWindows(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": windows})
}

// handleCoverageError 业务错误 → 响应码，导出接口共用
func handleCoverageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, response.CodeInvalidRange, "日期格式无效，应为 YYYY-MM-DD")
	case errors.Is(err, service.ErrInvalidRange):
		response.BadRequest(c, response.CodeInvalidRange, "结束日期不能早于开始日期")
	case errors.Is(err, service.ErrRangeTooLarge):
		response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeRangeTooLarge, "查询区间过大", err.Error())
	case errors.Is(err, service.ErrInvalidShift):
		response.BadRequest(c, response.CodeInvalidShift, "班次代码无效，仅支持 F/S/N")
	case errors.Is(err, service.ErrInvalidSnapshot):
		response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeInvalidSnapshot, "快照数据无效", err.Error())
	case errors.Is(err, service.ErrExportNoRequirements):
		response.NotFound(c, response.CodeExportEmpty, "所选区间内没有任何人员需求")
	case errors.Is(err, context.Canceled):
		// 客户端已断开，无需写响应体
		c.Status(499)
	default:
		response.InternalError(c)
	}
}
