package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/lodymel/heartpass/internal/dto"
	"github.com/lodymel/heartpass/internal/model"
	pkgerrors "github.com/lodymel/heartpass/pkg/errors"
)

func strPtr(s string) *string { return &s }

func TestNotifier_DisabledReturnsErrMailDisabled(t *testing.T) {
	cfg := testConfig()
	mail := &fakeMailer{}

	// 开关关闭
	n := NewNotifier(cfg, mail, zap.NewNop())
	if err := n.SendPassEmail(context.Background(), "bob@example.com", &model.Pass{}, "hi"); !errors.Is(err, pkgerrors.ErrMailDisabled) {
		t.Errorf("期望 ErrMailDisabled，实际: %v", err)
	}

	// 未配置发送器
	cfg.Feature.EmailEnabled = true
	n = NewNotifier(cfg, nil, zap.NewNop())
	if err := n.SendContactInquiry(context.Background(), &dto.ContactRequest{}); !errors.Is(err, pkgerrors.ErrMailDisabled) {
		t.Errorf("期望 ErrMailDisabled，实际: %v", err)
	}
	if mail.count() != 0 {
		t.Error("关闭时不应发送邮件")
	}
}

func TestNotifier_PassEmailEscapesHTML(t *testing.T) {
	cfg := testConfig()
	cfg.Feature.EmailEnabled = true
	mail := &fakeMailer{}
	n := NewNotifier(cfg, mail, zap.NewNop())

	pass := &model.Pass{PassID: "p-1", SenderName: "<b>Alice</b>", GiftType: "spa-day"}
	if err := n.SendPassEmail(context.Background(), "bob@example.com", pass, "<script>x</script>"); err != nil {
		t.Fatalf("SendPassEmail 应成功: %v", err)
	}

	msg := mail.sent[0]
	if strings.Contains(msg.HTML, "<script>") {
		t.Error("HTML 正文应转义用户输入")
	}
	if !strings.Contains(msg.Text, "<script>x</script>") {
		t.Error("纯文本正文应保留原文")
	}
	if !strings.Contains(msg.Text, "Spa Day") || !strings.Contains(msg.Text, "http://localhost:3000/card?id=p-1") {
		t.Errorf("文本正文缺少礼物或链接:\n%s", msg.Text)
	}
}

func TestNotifier_AcceptedEmailNeedsSenderEmail(t *testing.T) {
	cfg := testConfig()
	cfg.Feature.EmailEnabled = true
	mail := &fakeMailer{}
	n := NewNotifier(cfg, mail, zap.NewNop())

	pass := &model.Pass{PassID: "p-1", GiftType: "spa-day", RecipientName: "Bob"}
	if err := n.SendAcceptedEmail(context.Background(), pass, ""); !errors.Is(err, ErrNoSenderEmail) {
		t.Errorf("期望 ErrNoSenderEmail，实际: %v", err)
	}

	pass.SenderEmail = strPtr("alice@example.com")
	if err := n.SendAcceptedEmail(context.Background(), pass, ""); err != nil {
		t.Fatalf("SendAcceptedEmail 应成功: %v", err)
	}
	if got := mail.sent[0]; got.To != "alice@example.com" || !strings.Contains(got.Subject, "Bob accepted") {
		t.Errorf("接受通知不正确: to=%s subject=%s", got.To, got.Subject)
	}
}

func TestContactService_Submit(t *testing.T) {
	cfg := testConfig()
	cfg.Feature.EmailEnabled = true
	mail := &fakeMailer{}
	svc := NewContactService(NewNotifier(cfg, mail, zap.NewNop()), zap.NewNop())

	req := &dto.ContactRequest{Name: "Dana", Email: "dana@example.com", Message: "Love the app!"}
	if err := svc.Submit(context.Background(), req); err != nil {
		t.Fatalf("Submit 应成功: %v", err)
	}
	msg := mail.sent[0]
	if msg.To != "support@heartpass.test" || msg.ReplyTo != "dana@example.com" {
		t.Errorf("收件人或回复地址不正确: to=%s reply_to=%s", msg.To, msg.ReplyTo)
	}
	if msg.Subject != "[HeartPass Contact] New inquiry" {
		t.Errorf("期望默认主题，实际=%s", msg.Subject)
	}

	mail.err = errors.New("smtp down")
	if err := svc.Submit(context.Background(), req); !errors.Is(err, ErrContactSendFailed) {
		t.Errorf("期望 ErrContactSendFailed，实际: %v", err)
	}

	disabled := NewContactService(NewNotifier(testConfig(), nil, zap.NewNop()), zap.NewNop())
	if err := disabled.Submit(context.Background(), req); !errors.Is(err, ErrContactUnavailable) {
		t.Errorf("期望 ErrContactUnavailable，实际: %v", err)
	}
}
