package model

// User 用户表 对应 users
// Email 统一小写存储，用于与卡券 recipient_email 匹配
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	DisplayName  string `gorm:"type:varchar(100);not null"                     json:"display_name"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }
