package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"optimus-k/backend/config"
	"optimus-k/backend/internal/api/handler"
	"optimus-k/backend/internal/api/middleware"
	"optimus-k/backend/pkg/jwt"
	"optimus-k/backend/pkg/redis"
)

// 请求体上限
const maxBodyBytes = 1 << 20

// Setup 初始化并返回 Gin 路由引擎
// rdb 为 nil 时吊销检查与限流均跳过
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, db *gorm.DB, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// 接口变量不能直接接 nil 指针
	var (
		revoked middleware.RevocationChecker
		limiter middleware.Limiter
	)
	if rdb != nil {
		revoked = rdb
		limiter = rdb
	}

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "db": "down"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "redis": rdb != nil})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtMgr, revoked, logger))
	{
		// 会话
		v1.POST("/session/revoke", h.Session.Revoke)

		// 每周空闲声明
		availability := v1.Group("/availability")
		{
			availability.GET("", h.Availability.GetWeek)
			availability.PUT("", h.Availability.SaveWeek)
		}

		// 时段查找与预约
		slots := v1.Group("/slots")
		slots.Use(middleware.RateLimit(limiter, cfg.Server.RateLimit.Limit, cfg.Server.RateLimit.Window, logger))
		{
			slots.POST("/alternatives", h.Slot.FindAlternatives)
			slots.POST("/book", h.Slot.Book)
			slots.GET("", h.Slot.ListWeek)
			slots.GET("/calendar.ics", h.Slot.ExportCalendar)
		}

		// 阶段周计划
		phases := v1.Group("/phases/:phase")
		{
			phases.GET("/weekly", h.Phase.GetWeekly)
			phases.GET("/export", h.Phase.Export)
		}
		v1.GET("/members/:user_id/phases/:phase/export", middleware.RoleAuth("admin", "leader"), h.Phase.ExportMember)

		// 任务配额
		formula := v1.Group("/formula")
		{
			formula.POST("/preview", h.Formula.Preview)
			formula.GET("/me", h.Formula.Me)
		}
	}

	return r
}
