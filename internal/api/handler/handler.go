package handler

import (
	"github.com/lodymel/heartpass/internal/events"
	"github.com/lodymel/heartpass/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth    *AuthHandler
	Pass    *PassHandler
	Message *MessageHandler
	Catalog *CatalogHandler
	Contact *ContactHandler
	Export  *ExportHandler
	Event   *EventHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, broker events.Broker) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(svc.Auth),
		Pass:    NewPassHandler(svc.Pass),
		Message: NewMessageHandler(svc.Message),
		Catalog: NewCatalogHandler(),
		Contact: NewContactHandler(svc.Contact),
		Export:  NewExportHandler(svc.Export),
		Event:   NewEventHandler(broker),
	}
}
