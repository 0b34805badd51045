package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lodymel/heartpass/config"
	"github.com/lodymel/heartpass/internal/api/handler"
	"github.com/lodymel/heartpass/internal/api/middleware"
	"github.com/lodymel/heartpass/pkg/jwt"
	"github.com/lodymel/heartpass/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 为 nil 时限流、黑名单与幂等缓存均降级放行
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	// 避免把 nil *redis.Client 装进非 nil 接口
	var (
		blacklist middleware.TokenChecker
		limiter   middleware.RateLimiter
		idemStore middleware.IdempotencyStore
	)
	if rdb != nil {
		blacklist, limiter, idemStore = rdb, rdb, rdb
	}

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Limit.BodyMaxBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authLimit := middleware.RateLimit(limiter, cfg.Limit.AuthRequests, cfg.Limit.Window)
	publicLimit := middleware.RateLimit(limiter, cfg.Limit.PublicRequests, cfg.Limit.Window)
	jwtAuth := middleware.JWTAuth(jwtMgr, blacklist, logger)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth", authLimit)
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 公开接口
		public := v1.Group("", publicLimit)
		{
			public.GET("/catalog", h.Catalog.GetCatalog)
			public.POST("/messages/generate", h.Message.Generate)
			public.POST("/contact", h.Contact.Submit)
			public.GET("/public/passes/:id", h.Pass.PublicView)
		}

		// 事件流是长连接，不挂请求超时
		v1.GET("/passes/events", jwtAuth, h.Event.Stream)

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(jwtAuth)
		authorized.Use(middleware.Idempotency(idemStore, cfg.Limit.IdempotencyTTL, logger))
		authorized.Use(middleware.Timeout(cfg.Server.RequestTimeout))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)

			// 卡券模块
			passes := authorized.Group("/passes")
			{
				passes.POST("", h.Pass.CreatePass)
				passes.GET("/sent", h.Pass.ListSent)
				passes.GET("/received", h.Pass.ListReceived)
				passes.GET("/received/summary", h.Pass.ReceivedSummary)
				passes.GET("/notifications", h.Pass.Notifications)
				passes.GET("/:id", h.Pass.GetPass)
				passes.PUT("/:id", h.Pass.UpdatePass)
				passes.DELETE("/:id", h.Pass.DeletePass)
				passes.POST("/:id/send", h.Pass.SendPass)
				passes.POST("/:id/accept", h.Pass.AcceptPass)
				passes.POST("/:id/decline", h.Pass.DeclinePass)
				passes.POST("/:id/use", h.Pass.UsePass)
				passes.POST("/:id/message/regenerate", h.Pass.RegenerateMessage)

				// 导出
				passes.GET("/export", h.Export.ExportSent)
				passes.GET("/received/calendar.ics", h.Export.ReceivedCalendar)
			}
		}
	}

	return r
}
