package model

import "time"

// Like 点赞边（用户 -> 视频/评论/动态）
type Like struct {
	ID         string      `gorm:"primaryKey;type:varchar(36)"`
	LikedBy    string      `gorm:"type:varchar(36);index:idx_like_actor;index:idx_like_pair,unique;not null"`
	TargetKind ContentKind `gorm:"type:varchar(16);index:idx_like_pair,unique;index:idx_like_target;not null"`
	TargetID   string      `gorm:"type:varchar(36);index:idx_like_pair,unique;index:idx_like_target;not null"`
	// 复合唯一键，并发 toggle 不会产生重复边
	// idx_like_pair = (liked_by, target_kind, target_id)
	CreatedAt time.Time
}

func (Like) TableName() string { return "likes" }
