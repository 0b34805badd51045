package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lodymel/heartpass/internal/dto"
	"github.com/lodymel/heartpass/internal/service"
	pkgerrors "github.com/lodymel/heartpass/pkg/errors"
	"github.com/lodymel/heartpass/pkg/response"
)

// PassHandler 卡券模块 HTTP 处理器
type PassHandler struct {
	passSvc service.PassService
}

// NewPassHandler 创建 PassHandler
func NewPassHandler(passSvc service.PassService) *PassHandler {
	return &PassHandler{passSvc: passSvc}
}

// CreatePass 创建卡券，带 recipient_email 时立即发送
// POST /api/v1/passes
func (h *PassHandler) CreatePass(c *gin.Context) {
	var req dto.CreatePassRequest
	if !bindJSON(c, &req) {
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	result, err := h.passSvc.Create(c.Request.Context(), actor, &req)
	if err != nil {
		h.handlePassError(c, err)
		return
	}

	response.CreatedWithWarning(c, result.Pass, result.Warning)
}

// GetPass 卡券详情
// GET /api/v1/passes/:id
func (h *PassHandler) GetPass(c *gin.Context) {
	id, ok := passIDParam(c)
	if !ok {
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	pass, err := h.passSvc.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.handlePassError(c, err)
		return
	}

	response.OK(c, pass)
}

// ListSent 我发出的卡券
// GET /api/v1/passes/sent?status=&page=&page_size=
func (h *PassHandler) ListSent(c *gin.Context) {
	var req dto.PassListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	list, total, err := h.passSvc.ListSent(c.Request.Context(), actor, &req)
	if err != nil {
		h.handlePassError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// ListReceived 我收到的卡券
// GET /api/v1/passes/received?status=&page=&page_size=
func (h *PassHandler) ListReceived(c *gin.Context) {
	var req dto.PassListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	list, total, err := h.passSvc.ListReceived(c.Request.Context(), actor, &req)
	if err != nil {
		h.handlePassError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// ReceivedSummary 收件箱各状态计数
// GET /api/v1/passes/received/summary
func (h *PassHandler) ReceivedSummary(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	summary, err := h.passSvc.ReceivedSummary(c.Request.Context(), actor)
	if err != nil {
		h.handlePassError(c, err)
		return
	}

	response.OK(c, summary)
}

// Notifications 待接受的卡券
// GET /api/v1/passes/notifications
func (h *PassHandler) Notifications(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	list, err := h.passSvc.Notifications(c.Request.Context(), actor)
	if err != nil {
		h.handlePassError(c, err)
		return
	}

	response.OK(c, list)
}

// UpdatePass 编辑卡券
// PUT /api/v1/passes/:id
func (h *PassHandler) UpdatePass(c *gin.Context) {
	id, ok := passIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdatePassRequest
	if !bindJSON(c, &req) {
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	pass, err := h.passSvc.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.handlePassError(c, err)
		return
	}

	response.OK(c, pass)
}

// SendPass 发送卡券
// POST /api/v1/passes/:id/send
func (h *PassHandler) SendPass(c *gin.Context) {
	id, ok := passIDParam(c)
	if !ok {
		return
	}

	var req dto.SendPassRequest
	if !bindJSON(c, &req) {
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	result, err := h.passSvc.Send(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.handlePassError(c, err)
		return
	}

	response.OKWithWarning(c, result.Pass, result.Warning)
}

// AcceptPass 接受卡券
// POST /api/v1/passes/:id/accept
func (h *PassHandler) AcceptPass(c *gin.Context) {
	id, ok := passIDParam(c)
	if !ok {
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	pass, err := h.passSvc.Accept(c.Request.Context(), actor, id)
	if err != nil {
		h.handlePassError(c, err)
		return
	}

	response.OK(c, pass)
}

// DeclinePass 拒绝卡券
// POST /api/v1/passes/:id/decline
func (h *PassHandler) DeclinePass(c *gin.Context) {
	id, ok := passIDParam(c)
	if !ok {
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	pass, err := h.passSvc.Decline(c.Request.Context(), actor, id)
	if err != nil {
		h.handlePassError(c, err)
		return
	}

	response.OK(c, pass)
}

// UsePass 标记已使用
// POST /api/v1/passes/:id/use
func (h *PassHandler) UsePass(c *gin.Context) {
	id, ok := passIDParam(c)
	if !ok {
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	pass, err := h.passSvc.MarkUsed(c.Request.Context(), actor, id)
	if err != nil {
		h.handlePassError(c, err)
		return
	}

	response.OK(c, pass)
}

// RegenerateMessage 重新生成祝福语
// POST /api/v1/passes/:id/message/regenerate
func (h *PassHandler) RegenerateMessage(c *gin.Context) {
	id, ok := passIDParam(c)
	if !ok {
		return
	}

	var req dto.RegenerateMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	result, err := h.passSvc.RegenerateMessage(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.handlePassError(c, err)
		return
	}

	response.OKWithWarning(c, result.Pass, result.Warning)
}

// DeletePass 删除卡券
// DELETE /api/v1/passes/:id
func (h *PassHandler) DeletePass(c *gin.Context) {
	id, ok := passIDParam(c)
	if !ok {
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	if err := h.passSvc.Delete(c.Request.Context(), actor, id); err != nil {
		h.handlePassError(c, err)
		return
	}

	response.OK(c, nil)
}

// PublicView 邮件链接打开的匿名预览
// GET /api/v1/public/passes/:id
func (h *PassHandler) PublicView(c *gin.Context) {
	id, ok := passIDParam(c)
	if !ok {
		return
	}

	pass, err := h.passSvc.PublicView(c.Request.Context(), id)
	if err != nil {
		h.handlePassError(c, err)
		return
	}

	response.OK(c, pass)
}

// passIDParam 取路径中的卡券 ID，非 UUID 直接按不存在处理
func passIDParam(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.NotFound(c, 21001, "pass not found")
		return "", false
	}
	return id, true
}

// handlePassError 统一处理卡券模块业务错误
func (h *PassHandler) handlePassError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPassNotFound):
		response.NotFound(c, 21001, "pass not found")
	case errors.Is(err, service.ErrPassAccessDenied):
		response.Forbidden(c, 21002, "access denied")
	case errors.Is(err, service.ErrPassCannotEdit):
		response.Conflict(c, 21003, "cannot edit this pass")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 21004, "pass was modified, refresh and retry")
	case errors.Is(err, service.ErrPassValidation):
		response.BadRequest(c, 21005, err.Error())
	case errors.Is(err, service.ErrPassInvalidState):
		response.Conflict(c, 21006, err.Error())
	case errors.Is(err, service.ErrInvalidGiftType):
		response.BadRequest(c, 21007, "unknown gift type")
	default:
		respondInternal(c, err)
	}
}
