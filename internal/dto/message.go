package dto

// ── 祝福语 / 联系表单 DTO ──

// GenerateMessageRequest 生成祝福语请求
type GenerateMessageRequest struct {
	GiftType      string `json:"gift_type"      binding:"required,max=50"`
	Mood          string `json:"mood"           binding:"omitempty,oneof=cute fun heartfelt event"`
	RecipientName string `json:"recipient_name" binding:"max=100"`
	SenderName    string `json:"sender_name"    binding:"max=100"`
}

// GenerateMessageResponse 生成祝福语响应
type GenerateMessageResponse struct {
	Message string `json:"message"`
	Source  string `json:"source"` // ai | template | default
}

// RegenerateMessageRequest 重新生成卡券祝福语
type RegenerateMessageRequest struct {
	Version int `json:"version" binding:"required,min=1"`
}

// ContactRequest 联系表单
type ContactRequest struct {
	Name    string `json:"name"    binding:"required,max=100"`
	Email   string `json:"email"   binding:"required,email,max=255"`
	Subject string `json:"subject" binding:"max=200"`
	Message string `json:"message" binding:"required,min=5,max=5000"`
}

// CatalogResponse 礼物目录
type CatalogResponse struct {
	Gifts          []GiftResponse `json:"gifts"`
	Moods          []MoodResponse `json:"moods"`
	RecipientTypes []string       `json:"recipient_types"`
}

// MoodResponse 语气
type MoodResponse struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}
