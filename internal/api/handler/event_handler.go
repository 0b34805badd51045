package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lodymel/heartpass/internal/events"
	"github.com/lodymel/heartpass/pkg/response"
)

const defaultHeartbeat = 25 * time.Second

// EventHandler 卡券变更推送（Server-Sent Events）
type EventHandler struct {
	broker    events.Broker
	heartbeat time.Duration
}

// NewEventHandler 创建 EventHandler
func NewEventHandler(broker events.Broker) *EventHandler {
	return &EventHandler{broker: broker, heartbeat: defaultHeartbeat}
}

// Stream 推送当前用户可见的卡券事件，客户端断开即结束
// GET /api/v1/passes/events
func (h *EventHandler) Stream(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	ch, cancel, err := h.broker.Subscribe(ctx)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusServiceUnavailable, 50001, "event stream is unavailable")
		return
	}
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.SSEvent("ready", gin.H{"user_id": actor.UserID})
	c.Writer.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case e, ok := <-ch:
			if !ok {
				return false
			}
			if e.VisibleTo(actor.UserID, actor.Email) {
				c.SSEvent(e.Type, e)
			}
			return true
		case <-ticker.C:
			c.SSEvent("ping", time.Now().Unix())
			return true
		}
	})
}
