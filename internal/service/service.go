package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/lodymel/heartpass/config"
	"github.com/lodymel/heartpass/internal/events"
	"github.com/lodymel/heartpass/internal/repository"
	"github.com/lodymel/heartpass/pkg/ai"
	"github.com/lodymel/heartpass/pkg/jwt"
	"github.com/lodymel/heartpass/pkg/mailer"
)

// TokenBlacklist Token 黑名单（Redis 实现），为 nil 时登出仅依赖 Token 自然过期
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// Deps 可选的外部依赖，未配置的保持 nil
type Deps struct {
	Blacklist TokenBlacklist
	Completer ai.Completer
	Mailer    mailer.Sender
	Broker    events.Broker
}

// Service 所有 Service 的聚合入口
type Service struct {
	Auth     AuthService
	Pass     PassService
	Message  MessageGenerator
	Notifier Notifier
	Contact  ContactService
	Export   ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	deps Deps,
	logger *zap.Logger,
) *Service {
	if deps.Broker == nil {
		deps.Broker = events.NewMemoryBroker(logger)
	}

	generator := NewMessageGenerator(cfg, deps.Completer, logger)
	notifier := NewNotifier(cfg, deps.Mailer, logger)

	return &Service{
		Auth:     NewAuthService(cfg, repo, jwtMgr, deps.Blacklist, logger),
		Pass:     NewPassService(cfg, repo, generator, notifier, deps.Broker, logger),
		Message:  generator,
		Notifier: notifier,
		Contact:  NewContactService(notifier, logger),
		Export:   NewExportService(cfg, repo, logger),
	}
}
