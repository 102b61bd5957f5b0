package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"schichtpilot/backend/pkg/response"
)

// BodyLimit 全局请求体大小限制中间件
// maxBytes: 允许的最大请求体字节数（如 1<<20 = 1MB），<=0 表示不限制
// 快照计算接口的请求体可能较大，上限由 server.max_body_bytes 配置
// 分块传输的请求在读取时才会超限，由处理器识别 *http.MaxBytesError 返回 413
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 {
			c.Next()
			return
		}

		// 已声明长度的请求直接拒绝
		if c.Request.ContentLength > maxBytes {
			response.Error(c, http.StatusRequestEntityTooLarge, response.CodeBodyTooLarge, "请求体过大")
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()
	}
}
