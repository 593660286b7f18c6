package model

import "time"

// ContentKind 可被点赞的内容类型
type ContentKind string

const (
	KindVideo   ContentKind = "video"
	KindTweet   ContentKind = "tweet"
	KindComment ContentKind = "comment"
)

func (k ContentKind) Valid() bool {
	switch k {
	case KindVideo, KindTweet, KindComment:
		return true
	}
	return false
}

// Video 视频元数据（媒体文件本体由上层上传，这里只存 URL）
type Video struct {
	ID          string `gorm:"primaryKey;type:varchar(36)"`
	OwnerID     string `gorm:"type:varchar(36);index:idx_video_owner;not null"`
	Title       string `gorm:"type:varchar(255);not null"`
	Description string `gorm:"type:text"`
	VideoURL    string `gorm:"type:varchar(512)"`
	Thumbnail   string `gorm:"type:varchar(512)"`
	Duration    float64
	Views       int64 `gorm:"default:0"`
	IsPublished bool  `gorm:"default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Video) TableName() string { return "videos" }

// Tweet 频道动态
type Tweet struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	OwnerID   string `gorm:"type:varchar(36);index:idx_tweet_owner;not null"`
	Content   string `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Tweet) TableName() string { return "tweets" }

// Comment 视频评论
type Comment struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	VideoID   string `gorm:"type:varchar(36);index:idx_comment_video;not null"`
	OwnerID   string `gorm:"type:varchar(36);index:idx_comment_owner;not null"`
	Content   string `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Comment) TableName() string { return "comments" }
