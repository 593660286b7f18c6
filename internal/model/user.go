package model

import "time"

// User 账号主体；Username 入库前统一小写，保证大小写不敏感唯一
type User struct {
	ID               string `gorm:"primaryKey;type:varchar(36)"`
	Username         string `gorm:"type:varchar(64);uniqueIndex;not null"`
	Email            string `gorm:"type:varchar(255);uniqueIndex;not null"`
	FullName         string `gorm:"type:varchar(128)"`
	Avatar           string `gorm:"type:varchar(512)"`
	CoverImage       string `gorm:"type:varchar(512)"`
	Password         string `gorm:"type:varchar(128);not null"` // bcrypt hash
	RefreshTokenHash string `gorm:"type:varchar(64)"`           // 当前有效 refresh token 的 SHA-256，空串表示未登录
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (User) TableName() string { return "users" }
