package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/lodymel/heartpass/internal/catalog"
	"github.com/lodymel/heartpass/internal/dto"
	"github.com/lodymel/heartpass/pkg/response"
)

// CatalogHandler 礼物目录
type CatalogHandler struct {
	resp dto.CatalogResponse
}

// NewCatalogHandler 目录是静态的，启动时构建一次
func NewCatalogHandler() *CatalogHandler {
	resp := dto.CatalogResponse{
		Gifts:          make([]dto.GiftResponse, 0, len(catalog.GiftTypes)),
		Moods:          make([]dto.MoodResponse, 0, len(catalog.Moods)),
		RecipientTypes: catalog.RecipientTypes,
	}
	for _, g := range catalog.GiftTypes {
		resp.Gifts = append(resp.Gifts, dto.GiftResponse{ID: g.ID, Title: g.Title, Description: g.Description, Emoji: g.Emoji})
	}
	for _, m := range catalog.Moods {
		resp.Moods = append(resp.Moods, dto.MoodResponse{ID: string(m.ID), Label: m.Label})
	}
	return &CatalogHandler{resp: resp}
}

// GetCatalog 礼物类型、语气与收件人类型
// GET /api/v1/catalog
func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	response.OK(c, h.resp)
}
