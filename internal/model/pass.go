package model

import "time"

// Pass 卡券表 对应 passes
// status 只落库 active | pending | accepted | used | cancelled，expired 由读取时推导
type Pass struct {
	PassID          string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"pass_id"`
	OwnerUserID     string     `gorm:"type:uuid;not null;index"                       json:"owner_user_id"`
	SenderName      string     `gorm:"type:varchar(100);not null;default:''"          json:"sender_name"`
	RecipientName   string     `gorm:"type:varchar(100);not null;default:''"          json:"recipient_name"`
	SenderEmail     *string    `gorm:"type:varchar(255)"                              json:"sender_email,omitempty"`
	RecipientEmail  *string    `gorm:"type:varchar(255);index"                        json:"recipient_email,omitempty"`
	RecipientUserID *string    `gorm:"type:uuid;index"                                json:"recipient_user_id,omitempty"`
	RecipientType   string     `gorm:"type:varchar(20);not null;default:'friend'"     json:"recipient_type"` // friend | partner | family
	GiftType        string     `gorm:"type:varchar(50);not null"                      json:"gift_type"`
	Mood            string     `gorm:"type:varchar(20);not null;default:'cute'"       json:"mood"` // cute | fun | heartfelt | event
	Message         string     `gorm:"type:text;not null;default:''"                  json:"message"`
	UsageCondition  string     `gorm:"type:text;not null;default:''"                  json:"usage_condition"`
	ValidityType    string     `gorm:"type:varchar(20);not null;default:'lifetime'"   json:"validity_type"` // lifetime | date
	ValidityDate    *time.Time `gorm:"type:date"                                      json:"validity_date,omitempty"`
	IssueDate       time.Time  `gorm:"type:date;not null"                             json:"issue_date"`
	Status          string     `gorm:"type:varchar(20);not null;default:'active'"     json:"status"`
	UsedAt          *time.Time `json:"used_at,omitempty"`
	SentAt          *time.Time `json:"sent_at,omitempty"`
	OwnerRemovedAt  *time.Time `json:"owner_removed_at,omitempty"`
	VersionedModel
}

// TableName 指定表名
func (Pass) TableName() string { return "passes" }
