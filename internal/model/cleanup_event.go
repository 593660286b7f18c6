package model

import "time"

// CleanupEvent 内容删除事件（与删除同事务写入，后台 worker 清理残留点赞边）
type CleanupEvent struct {
	ID           string      `gorm:"primaryKey;type:varchar(36)"`
	TargetKind   ContentKind `gorm:"type:varchar(16);not null"`
	TargetID     string      `gorm:"type:varchar(36);index:idx_cleanup_target;not null"`
	CreatedAt    time.Time   `gorm:"index"`
	Status       string      `gorm:"type:varchar(16);index"` // pending, processing, done
	UpdatedAt    time.Time
	ProcessedAt  *time.Time
	EdgesRemoved int64
}

func (CleanupEvent) TableName() string { return "cleanup_events" }
