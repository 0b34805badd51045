package mailer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/lodymel/heartpass/config"
)

// ErrInvalidMessage 邮件缺少收件人或正文
var ErrInvalidMessage = errors.New("邮件缺少收件人或正文")

// Message 一封待发送的邮件
type Message struct {
	To      string
	ReplyTo string
	Subject string
	HTML    string
	Text    string
}

// Sender 邮件发送接口，便于在业务层替换
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// SMTPMailer 基于 gomail 的 SMTP 发送器
type SMTPMailer struct {
	dialer  *gomail.Dialer
	from    string
	timeout time.Duration
	logger  *zap.Logger
}

// NewSMTPMailer 创建 SMTP 发送器
func NewSMTPMailer(cfg *config.MailConfig, logger *zap.Logger) *SMTPMailer {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SMTPMailer{
		dialer:  gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Username, cfg.Password),
		from:    cfg.From,
		timeout: timeout,
		logger:  logger,
	}
}

// Send 发送邮件；gomail 本身不支持 context，这里用超时 + ctx 取消包裹一次投递
func (m *SMTPMailer) Send(ctx context.Context, msg *Message) error {
	if msg == nil || msg.To == "" || (msg.HTML == "" && msg.Text == "") {
		return ErrInvalidMessage
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	if msg.ReplyTo != "" {
		gm.SetHeader("Reply-To", msg.ReplyTo)
	}
	gm.SetHeader("Subject", msg.Subject)
	if msg.Text != "" {
		gm.SetBody("text/plain", msg.Text)
		if msg.HTML != "" {
			gm.AddAlternative("text/html", msg.HTML)
		}
	} else {
		gm.SetBody("text/html", msg.HTML)
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- m.dialer.DialAndSend(gm)
	}()

	select {
	case err := <-done:
		if err != nil {
			m.logger.Warn("邮件发送失败", zap.String("to", msg.To), zap.Error(err))
			return fmt.Errorf("邮件发送失败: %w", err)
		}
		m.logger.Info("邮件发送成功", zap.String("to", msg.To), zap.String("subject", msg.Subject))
		return nil
	case <-ctx.Done():
		m.logger.Warn("邮件发送超时", zap.String("to", msg.To), zap.Duration("timeout", m.timeout))
		return fmt.Errorf("邮件发送超时: %w", ctx.Err())
	}
}
