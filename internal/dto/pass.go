package dto

// DateLayout 日期字段统一格式
const DateLayout = "2006-01-02"

// ── 卡券模块 DTO ──

// CreatePassRequest 创建卡券请求
// 带 recipient_email 时创建后立即发送
type CreatePassRequest struct {
	RecipientType  string `json:"recipient_type"  binding:"omitempty,oneof=friend partner family"`
	GiftType       string `json:"gift_type"       binding:"required,max=50"`
	Mood           string `json:"mood"            binding:"omitempty,oneof=cute fun heartfelt event"`
	SenderName     string `json:"sender_name"     binding:"max=100"`
	RecipientName  string `json:"recipient_name"  binding:"max=100"`
	SenderEmail    string `json:"sender_email"    binding:"omitempty,email,max=255"`
	RecipientEmail string `json:"recipient_email" binding:"omitempty,email,max=255"`
	Message        string `json:"message"         binding:"max=1000"`
	UsageCondition string `json:"usage_condition" binding:"max=500"`
	ValidityType   string `json:"validity_type"   binding:"omitempty,oneof=lifetime date"`
	ValidityDate   string `json:"validity_date"` // "2026-12-31"，validity_type=date 时必填
}

// UpdatePassRequest 编辑卡券请求，字段为空表示不修改
type UpdatePassRequest struct {
	Version        int     `json:"version"         binding:"required,min=1"`
	RecipientType  *string `json:"recipient_type"  binding:"omitnil,oneof=friend partner family"`
	GiftType       *string `json:"gift_type"       binding:"omitempty,max=50"`
	Mood           *string `json:"mood"            binding:"omitnil,oneof=cute fun heartfelt event"`
	SenderName     *string `json:"sender_name"     binding:"omitempty,max=100"`
	RecipientName  *string `json:"recipient_name"  binding:"omitempty,max=100"`
	SenderEmail    *string `json:"sender_email"    binding:"omitempty,max=255"`
	Message        *string `json:"message"         binding:"omitempty,max=1000"`
	UsageCondition *string `json:"usage_condition" binding:"omitempty,max=500"`
	ValidityType   *string `json:"validity_type"   binding:"omitnil,oneof=lifetime date"`
	ValidityDate   *string `json:"validity_date"`
}

// SendPassRequest 发送卡券请求
type SendPassRequest struct {
	RecipientEmail string `json:"recipient_email" binding:"required,email,max=255"`
	SenderEmail    string `json:"sender_email"    binding:"omitempty,email,max=255"`
}

// PassListRequest 卡券列表查询参数
type PassListRequest struct {
	PaginationRequest
	Status string `form:"status" binding:"omitempty,oneof=all active pending accepted used expired cancelled"`
}

// ── 卡券模块响应 ──

// GiftResponse 礼物目录信息
type GiftResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Emoji       string `json:"emoji"`
}

// PassResponse 卡券详情响应
type PassResponse struct {
	ID              string        `json:"id"`
	OwnerUserID     string        `json:"owner_user_id"`
	SenderName      string        `json:"sender_name"`
	RecipientName   string        `json:"recipient_name"`
	SenderEmail     string        `json:"sender_email,omitempty"`
	RecipientEmail  string        `json:"recipient_email,omitempty"`
	RecipientUserID string        `json:"recipient_user_id,omitempty"`
	RecipientType   string        `json:"recipient_type"`
	GiftType        string        `json:"gift_type"`
	Gift            *GiftResponse `json:"gift,omitempty"`
	Mood            string        `json:"mood"`
	Message         string        `json:"message"`
	UsageCondition  string        `json:"usage_condition"`
	ValidityType    string        `json:"validity_type"`
	ValidityDate    string        `json:"validity_date,omitempty"`
	IssueDate       string        `json:"issue_date"`
	Status          string        `json:"status"`           // 落库状态
	EffectiveStatus string        `json:"effective_status"` // 展示状态（含 expired）
	Role            string        `json:"role,omitempty"`
	AllowedActions  []string      `json:"allowed_actions,omitempty"`
	UsedAt          string        `json:"used_at,omitempty"`
	SentAt          string        `json:"sent_at,omitempty"`
	Version         int           `json:"version"`
	CreatedAt       string        `json:"created_at"`
	UpdatedAt       string        `json:"updated_at"`
}

// PublicPassResponse 邮件链接打开的匿名预览，不含邮箱与账号信息
type PublicPassResponse struct {
	ID              string        `json:"id"`
	SenderName      string        `json:"sender_name"`
	RecipientName   string        `json:"recipient_name"`
	GiftType        string        `json:"gift_type"`
	Gift            *GiftResponse `json:"gift,omitempty"`
	Mood            string        `json:"mood"`
	Message         string        `json:"message"`
	UsageCondition  string        `json:"usage_condition"`
	ValidityType    string        `json:"validity_type"`
	ValidityDate    string        `json:"validity_date,omitempty"`
	IssueDate       string        `json:"issue_date"`
	EffectiveStatus string        `json:"effective_status"`
}

// PassSummaryResponse 收件箱各状态计数
type PassSummaryResponse struct {
	All       int `json:"all"`
	Active    int `json:"active"`
	Pending   int `json:"pending"`
	Accepted  int `json:"accepted"`
	Used      int `json:"used"`
	Expired   int `json:"expired"`
	Cancelled int `json:"cancelled"`
}

// PassMutationResult 写操作结果，下游失败时附带 Warning
type PassMutationResult struct {
	Pass    *PassResponse
	Warning string
}
