package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"go.uber.org/zap"

	"github.com/lodymel/heartpass/config"
	"github.com/lodymel/heartpass/internal/catalog"
	"github.com/lodymel/heartpass/internal/dto"
	"github.com/lodymel/heartpass/internal/model"
	pkgerrors "github.com/lodymel/heartpass/pkg/errors"
	"github.com/lodymel/heartpass/pkg/mailer"
)

// ErrNoSenderEmail 卡券没有发件人邮箱，无法通知
var ErrNoSenderEmail = errors.New("pass has no sender email")

// Notifier 邮件通知接口
// 调用方只把失败当作非致命警告，已落库的数据不回滚
type Notifier interface {
	SendPassEmail(ctx context.Context, to string, pass *model.Pass, message string) error
	SendAcceptedEmail(ctx context.Context, pass *model.Pass, recipientName string) error
	SendContactInquiry(ctx context.Context, req *dto.ContactRequest) error
}

// NewNotifier 邮件未开启或未配置时返回 noop 实现
func NewNotifier(cfg *config.Config, sender mailer.Sender, logger *zap.Logger) Notifier {
	if sender == nil || !cfg.Feature.EmailEnabled {
		logger.Info("邮件通知未启用")
		return noopNotifier{}
	}
	return &emailNotifier{
		sender:  sender,
		baseURL: strings.TrimRight(cfg.Server.BaseURL, "/"),
		support: cfg.Mail.Support,
		logger:  logger,
	}
}

// ────────────────────── noop ──────────────────────

type noopNotifier struct{}

func (noopNotifier) SendPassEmail(context.Context, string, *model.Pass, string) error {
	return pkgerrors.ErrMailDisabled
}

func (noopNotifier) SendAcceptedEmail(context.Context, *model.Pass, string) error {
	return pkgerrors.ErrMailDisabled
}

func (noopNotifier) SendContactInquiry(context.Context, *dto.ContactRequest) error {
	return pkgerrors.ErrMailDisabled
}

// ────────────────────── SMTP ──────────────────────

type emailNotifier struct {
	sender  mailer.Sender
	baseURL string
	support string
	logger  *zap.Logger
}

type passEmailData struct {
	SenderName    string
	RecipientName string
	GiftTitle     string
	GiftEmoji     string
	Message       string
	CardURL       string
}

func (n *emailNotifier) SendPassEmail(ctx context.Context, to string, pass *model.Pass, message string) error {
	data := n.passData(pass, message)
	if data.Message == "" {
		data.Message = "A special moment is waiting for you!"
	}

	html, text, err := render(passEmailHTML, passEmailText, data)
	if err != nil {
		return err
	}

	return n.sender.Send(ctx, &mailer.Message{
		To:      to,
		Subject: fmt.Sprintf("💝 %s sent you a HeartPass!", data.SenderName),
		HTML:    html,
		Text:    text,
	})
}

func (n *emailNotifier) SendAcceptedEmail(ctx context.Context, pass *model.Pass, recipientName string) error {
	if pass.SenderEmail == nil || *pass.SenderEmail == "" {
		return ErrNoSenderEmail
	}
	data := n.passData(pass, pass.Message)
	if name := strings.TrimSpace(recipientName); name != "" {
		data.RecipientName = name
	}

	html, text, err := render(acceptedEmailHTML, acceptedEmailText, data)
	if err != nil {
		return err
	}

	return n.sender.Send(ctx, &mailer.Message{
		To:      *pass.SenderEmail,
		Subject: fmt.Sprintf("🎉 %s accepted your HeartPass!", data.RecipientName),
		HTML:    html,
		Text:    text,
	})
}

func (n *emailNotifier) SendContactInquiry(ctx context.Context, req *dto.ContactRequest) error {
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		subject = "New inquiry"
	}

	html, text, err := render(contactEmailHTML, contactEmailText, req)
	if err != nil {
		return err
	}

	return n.sender.Send(ctx, &mailer.Message{
		To:      n.support,
		ReplyTo: req.Email,
		Subject: fmt.Sprintf("[HeartPass Contact] %s", subject),
		HTML:    html,
		Text:    text,
	})
}

func (n *emailNotifier) passData(pass *model.Pass, message string) passEmailData {
	sender := strings.TrimSpace(pass.SenderName)
	if sender == "" {
		sender = "Someone special"
	}
	recipient := strings.TrimSpace(pass.RecipientName)
	if recipient == "" {
		recipient = "Your recipient"
	}
	data := passEmailData{
		SenderName:    sender,
		RecipientName: recipient,
		GiftTitle:     catalog.GiftTitle(pass.GiftType),
		Message:       strings.TrimSpace(message),
		CardURL:       fmt.Sprintf("%s/card?id=%s", n.baseURL, pass.PassID),
	}
	if g, ok := catalog.LookupGift(pass.GiftType); ok {
		data.GiftEmoji = g.Emoji
	}
	return data
}

func render(html *htmltemplate.Template, text *texttemplate.Template, data interface{}) (string, string, error) {
	var hb, tb bytes.Buffer
	if err := html.Execute(&hb, data); err != nil {
		return "", "", fmt.Errorf("渲染 HTML 邮件失败: %w", err)
	}
	if err := text.Execute(&tb, data); err != nil {
		return "", "", fmt.Errorf("渲染文本邮件失败: %w", err)
	}
	return hb.String(), tb.String(), nil
}

// ── 邮件模板 ──

var passEmailHTML = htmltemplate.Must(htmltemplate.New("pass").Parse(`<!DOCTYPE html>
<html>
  <head><meta charset="utf-8"><title>You received a HeartPass!</title></head>
  <body style="font-family: -apple-system, 'Segoe UI', Roboto, Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background: #fff5f5; border-radius: 12px; padding: 40px; text-align: center;">
      <h1 style="color: #f20e0e; font-weight: 300;">💝 You received a HeartPass!</h1>
      <p style="font-size: 18px; color: #666;"><strong>{{.SenderName}}</strong> sent you a special pass!</p>
      <div style="background: white; border-radius: 8px; padding: 30px; margin: 20px 0;">
        <p style="font-size: 20px; margin: 0 0 12px 0;">{{.GiftEmoji}} {{.GiftTitle}}</p>
        <p style="font-size: 16px; line-height: 1.8;">{{.Message}}</p>
      </div>
      <a href="{{.CardURL}}" style="display: inline-block; background: #f20e0e; color: white; text-decoration: none; padding: 14px 32px; border-radius: 6px;">View Your Pass →</a>
      <p style="font-size: 14px; color: #999; margin-top: 30px;">Sign up with this email to accept and use your pass!</p>
    </div>
    <p style="text-align: center; font-size: 12px; color: #999;">Sent with ❤️ from HeartPass</p>
  </body>
</html>`))

var passEmailText = texttemplate.Must(texttemplate.New("pass").Parse(`You received a HeartPass!

{{.SenderName}} sent you a special pass: {{.GiftTitle}}

{{.Message}}

View your pass: {{.CardURL}}

Sign up with this email to accept and use your pass!

Sent with ❤️ from HeartPass
`))

var acceptedEmailHTML = htmltemplate.Must(htmltemplate.New("accepted").Parse(`<!DOCTYPE html>
<html>
  <head><meta charset="utf-8"><title>Your HeartPass was accepted!</title></head>
  <body style="font-family: -apple-system, 'Segoe UI', Roboto, Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background: #fff5f5; border-radius: 12px; padding: 40px; text-align: center;">
      <h1 style="color: #f20e0e; font-weight: 300;">🎉 {{.RecipientName}} accepted your HeartPass!</h1>
      <p style="font-size: 18px; color: #666;">{{.GiftEmoji}} {{.GiftTitle}}</p>
      <a href="{{.CardURL}}" style="display: inline-block; background: #f20e0e; color: white; text-decoration: none; padding: 14px 32px; border-radius: 6px;">View Pass →</a>
    </div>
  </body>
</html>`))

var acceptedEmailText = texttemplate.Must(texttemplate.New("accepted").Parse(`{{.RecipientName}} accepted your HeartPass!

{{.GiftTitle}}

View pass: {{.CardURL}}
`))

var contactEmailHTML = htmltemplate.Must(htmltemplate.New("contact").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: Arial, sans-serif; color: #333;">
    <h2>New contact form submission</h2>
    <p><strong>Name:</strong> {{.Name}}</p>
    <p><strong>Email:</strong> {{.Email}}</p>
    <p><strong>Subject:</strong> {{.Subject}}</p>
    <p style="white-space: pre-wrap;">{{.Message}}</p>
  </body>
</html>`))

var contactEmailText = texttemplate.Must(texttemplate.New("contact").Parse(`New contact form submission

Name: {{.Name}}
Email: {{.Email}}
Subject: {{.Subject}}

{{.Message}}
`))
