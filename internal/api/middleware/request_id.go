package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"
	// 外部传入的 Request-ID 最大长度，超长时重新生成
	requestIDMaxLen = 64
)

// RequestID 请求追踪 ID 中间件
// 优先沿用上游网关传入的 X-Request-ID，否则生成 UUID；
// 写入 gin.Context 供日志使用，并回写到响应头
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" || len(rid) > requestIDMaxLen {
			rid = uuid.New().String()
		}

		c.Set(requestIDKey, rid)
		c.Header(requestIDHeader, rid)

		c.Next()
	}
}

// GetRequestID 读取当前请求的追踪 ID
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
