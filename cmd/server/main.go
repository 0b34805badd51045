package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/lodymel/heartpass/config"
	"github.com/lodymel/heartpass/internal/api/handler"
	"github.com/lodymel/heartpass/internal/api/router"
	"github.com/lodymel/heartpass/internal/events"
	"github.com/lodymel/heartpass/internal/repository"
	"github.com/lodymel/heartpass/internal/service"
	"github.com/lodymel/heartpass/pkg/ai"
	"github.com/lodymel/heartpass/pkg/database"
	"github.com/lodymel/heartpass/pkg/jwt"
	applogger "github.com/lodymel/heartpass/pkg/logger"
	"github.com/lodymel/heartpass/pkg/mailer"
	"github.com/lodymel/heartpass/pkg/redis"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "配置校验失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.String("timezone", cfg.App.Timezone),
	)

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	// 3.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，黑名单、限流、幂等缓存将不可用，事件仅在本实例内广播", zap.Error(err))
		rdb = nil
	}

	// 5. 外部依赖
	deps := service.Deps{}
	var broker events.Broker
	if rdb != nil {
		deps.Blacklist = rdb
		broker = events.NewRedisBroker(rdb, logger)
	} else {
		broker = events.NewMemoryBroker(logger)
	}
	deps.Broker = broker

	if cfg.AI.APIKey != "" {
		deps.Completer = ai.NewClient(&cfg.AI)
	} else if cfg.Feature.AIMessageEnabled {
		logger.Warn("未配置 AI API Key，祝福语将使用模板")
	}

	if cfg.Mail.Configured() {
		deps.Mailer = mailer.NewSMTPMailer(&cfg.Mail, logger)
	} else if cfg.Feature.EmailEnabled {
		logger.Warn("未配置 SMTP，邮件功能不可用")
	}

	// 6. 初始化 JWT 管理器
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 7. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, deps, logger)
	h := handler.NewHandler(svc, broker)

	// 8. 初始化路由
	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)

	// 9. 启动 HTTP 服务器（优雅关闭）
	// 事件流是长连接，WriteTimeout 不设上限，普通请求由 Timeout 中间件控制
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 10. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	// 先关闭事件广播，让 SSE 连接尽快返回
	if err := broker.Close(); err != nil {
		logger.Warn("关闭事件广播失败", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 关闭数据库连接
	if closeDB, _ := db.DB(); closeDB != nil {
		closeDB.Close()
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
