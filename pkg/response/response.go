package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Details string      `json:"details,omitempty"`
}

// ── 业务错误码 ──
// 1xxxx 通用，13xxx 覆盖分析，16xxx 导出

const (
	CodeOK              = 0
	CodeInvalidParams   = 10001
	CodeRateLimited     = 10004
	CodeBodyTooLarge    = 10005
	CodeInvalidRange    = 13001
	CodeRangeTooLarge   = 13002
	CodeInvalidShift    = 13003
	CodeInvalidSnapshot = 13004
	CodeExportEmpty     = 16101
	CodeInternal        = 50000
)

// ── 成功响应 ──

// OK 200 成功响应
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeOK,
		Message: "success",
		Data:    data,
	})
}

// ── 错误响应 ──

// Error 通用错误响应
func Error(c *gin.Context, httpStatus int, code int, message string) {
	c.JSON(httpStatus, Response{
		Code:    code,
		Message: message,
	})
}

// ErrorWithDetails 带详情的错误响应
func ErrorWithDetails(c *gin.Context, httpStatus int, code int, message, details string) {
	c.JSON(httpStatus, Response{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// BadRequest 400
func BadRequest(c *gin.Context, code int, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

// NotFound 404
func NotFound(c *gin.Context, code int, message string) {
	Error(c, http.StatusNotFound, code, message)
}

// TooManyRequests 429
func TooManyRequests(c *gin.Context) {
	Error(c, http.StatusTooManyRequests, CodeRateLimited, "请求过于频繁，请稍后再试")
}

// InternalError 500
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, CodeInternal, "服务器内部错误")
}
