package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lodymel/heartpass/internal/dto"
	"github.com/lodymel/heartpass/internal/service"
	"github.com/lodymel/heartpass/pkg/response"
)

// ContactHandler 联系表单 HTTP 处理器
type ContactHandler struct {
	contactSvc service.ContactService
}

// NewContactHandler 创建 ContactHandler
func NewContactHandler(contactSvc service.ContactService) *ContactHandler {
	return &ContactHandler{contactSvc: contactSvc}
}

// Submit 提交联系表单
// POST /api/v1/contact
func (h *ContactHandler) Submit(c *gin.Context) {
	var req dto.ContactRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.contactSvc.Submit(c.Request.Context(), &req); err != nil {
		switch {
		case errors.Is(err, service.ErrContactUnavailable):
			response.Error(c, http.StatusServiceUnavailable, 27001, err.Error())
		case errors.Is(err, service.ErrContactSendFailed):
			response.Error(c, http.StatusBadGateway, 27002, err.Error())
		default:
			respondInternal(c, err)
		}
		return
	}

	response.OK(c, nil)
}
