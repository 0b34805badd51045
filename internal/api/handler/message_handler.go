package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/lodymel/heartpass/internal/dto"
	"github.com/lodymel/heartpass/internal/service"
	"github.com/lodymel/heartpass/pkg/response"
)

// MessageHandler 祝福语生成 HTTP 处理器
type MessageHandler struct {
	generator service.MessageGenerator
}

// NewMessageHandler 创建 MessageHandler
func NewMessageHandler(generator service.MessageGenerator) *MessageHandler {
	return &MessageHandler{generator: generator}
}

// Generate 生成祝福语，永远返回一条可用文案
// POST /api/v1/messages/generate
func (h *MessageHandler) Generate(c *gin.Context) {
	var req dto.GenerateMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	mood := req.Mood
	if mood == "" {
		mood = "cute"
	}

	msg := h.generator.Generate(c.Request.Context(), service.MessageRequest{
		GiftType:      req.GiftType,
		Mood:          mood,
		RecipientName: req.RecipientName,
		SenderName:    req.SenderName,
	})

	response.OK(c, dto.GenerateMessageResponse{Message: msg.Text, Source: msg.Source})
}
