package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/lodymel/heartpass/internal/dto"
	pkgerrors "github.com/lodymel/heartpass/pkg/errors"
)

var (
	ErrContactUnavailable = errors.New("contact form is temporarily unavailable")
	ErrContactSendFailed  = errors.New("failed to send your message, please try again")
)

// ContactService 联系表单
type ContactService interface {
	Submit(ctx context.Context, req *dto.ContactRequest) error
}

type contactService struct {
	notifier Notifier
	logger   *zap.Logger
}

// NewContactService 创建 ContactService 实例
func NewContactService(notifier Notifier, logger *zap.Logger) ContactService {
	return &contactService{notifier: notifier, logger: logger}
}

// Submit 联系表单没有落库，邮件失败即整体失败
func (s *contactService) Submit(ctx context.Context, req *dto.ContactRequest) error {
	err := s.notifier.SendContactInquiry(ctx, req)
	switch {
	case err == nil:
		s.logger.Info("收到联系表单", zap.String("from", req.Email))
		return nil
	case errors.Is(err, pkgerrors.ErrMailDisabled):
		return ErrContactUnavailable
	default:
		s.logger.Error("联系表单邮件发送失败", zap.String("from", req.Email), zap.Error(err))
		return ErrContactSendFailed
	}
}
