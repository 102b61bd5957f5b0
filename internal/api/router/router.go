package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"schichtpilot/backend/config"
	"schichtpilot/backend/internal/api/handler"
	"schichtpilot/backend/internal/api/middleware"
)

// Setup 初始化并返回 Gin 路由引擎
// limiter 可为 nil 客户端，此时导出接口不限流
func Setup(cfg *config.Config, h *handler.Handler, limiter middleware.RateLimiter, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 覆盖分析（只读）
		cov := v1.Group("/coverage")
		{
			cov.GET("", h.Coverage.GetGrid)
			cov.GET("/cell", h.Coverage.GetCell)
			cov.POST("/evaluate", h.Coverage.Evaluate)
		}

		v1.GET("/shift-windows", h.Coverage.ListShiftWindows)

		// 导出模块：生成 Excel 开销较大，按 IP 限流
		export := v1.Group("/export")
		export.Use(middleware.RateLimit(limiter, cfg.Coverage.ExportRateLimit, time.Minute))
		{
			export.GET("/coverage", h.Export.ExportCoverage)
		}
	}

	return r
}
