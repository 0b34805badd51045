package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/lodymel/heartpass/config"
	"github.com/lodymel/heartpass/internal/catalog"
	"github.com/lodymel/heartpass/pkg/ai"
)

// 祝福语来源
const (
	MessageSourceAI       = "ai"
	MessageSourceTemplate = "template"
	MessageSourceDefault  = "default"
)

const messageSystemPrompt = "You are a creative message writer who creates fun, warm, and action-oriented messages for coupon cards for loved ones."

// MessageRequest 生成祝福语的输入
type MessageRequest struct {
	GiftType      string
	Mood          string
	RecipientName string
	SenderName    string
}

// GeneratedMessage 生成结果，Text 永不为空
// Degraded 表示调用了模型但失败，已退回模板
type GeneratedMessage struct {
	Text     string
	Source   string
	Degraded bool
}

// MessageGenerator 祝福语生成接口
// 不返回错误：模型失败时退回模板，模板缺失时退回固定文案
type MessageGenerator interface {
	Generate(ctx context.Context, req MessageRequest) GeneratedMessage
}

type messageGenerator struct {
	completer ai.Completer
	enabled   bool
	logger    *zap.Logger
}

// NewMessageGenerator 创建 MessageGenerator；completer 为 nil 时只用模板
func NewMessageGenerator(cfg *config.Config, completer ai.Completer, logger *zap.Logger) MessageGenerator {
	return &messageGenerator{
		completer: completer,
		enabled:   cfg.Feature.AIMessageEnabled && completer != nil,
		logger:    logger,
	}
}

func (g *messageGenerator) Generate(ctx context.Context, req MessageRequest) GeneratedMessage {
	if g.enabled {
		text, err := g.completer.Complete(ctx, messageSystemPrompt, buildMessagePrompt(req))
		if err == nil && strings.TrimSpace(text) != "" {
			return GeneratedMessage{Text: strings.TrimSpace(text), Source: MessageSourceAI}
		}
		g.logger.Warn("AI 祝福语生成失败，使用模板",
			zap.String("gift_type", req.GiftType),
			zap.Error(err),
		)
	}

	text := catalog.RandomMessage(nil, req.GiftType, catalog.Mood(req.Mood), req.RecipientName, req.SenderName)
	source := MessageSourceTemplate
	if text == catalog.DefaultMessage {
		source = MessageSourceDefault
	}
	return GeneratedMessage{Text: text, Source: source, Degraded: g.enabled}
}

func buildMessagePrompt(req MessageRequest) string {
	recipient := strings.TrimSpace(req.RecipientName)
	if recipient == "" {
		recipient = "your loved one"
	}
	sender := strings.TrimSpace(req.SenderName)
	if sender == "" {
		sender = "me"
	}

	return fmt.Sprintf(`Write a short, fun, and action-oriented message %s for the following coupon card.
Coupon: %s
Recipient: %s
Sender: %s

Write 1-2 sentences in English, include emojis, and make it personal and warm.`,
		catalog.MoodStyle(req.Mood), catalog.GiftTitle(req.GiftType), recipient, sender)
}
