package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/vidtube/internal/model"
)

// FeedItem 动态/评论流里的条目，带点赞数与作者投影
type FeedItem struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	OwnerID    string    `json:"owner_id"`
	Username   string    `json:"username"`
	Avatar     string    `json:"avatar"`
	LikesCount int64     `json:"likes_count"`
	CreatedAt  time.Time `json:"created_at"`
}

type TweetRepository interface {
	Create(ctx context.Context, tweet *model.Tweet) error
	GetByID(ctx context.Context, id string) (*model.Tweet, error)
	UpdateContent(ctx context.Context, id, content string) error
	Delete(ctx context.Context, tx *gorm.DB, id string) error
	// ListByOwner 按创建时间倒序，条目带 likes_count 与作者摘要
	ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]FeedItem, error)
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
}

type tweetRepository struct {
	db *gorm.DB
}

func NewTweetRepository(db *gorm.DB) TweetRepository { return &tweetRepository{db: db} }

func (r *tweetRepository) Create(ctx context.Context, tweet *model.Tweet) error {
	return r.db.WithContext(ctx).Create(tweet).Error
}

func (r *tweetRepository) GetByID(ctx context.Context, id string) (*model.Tweet, error) {
	var t model.Tweet
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tweetRepository) UpdateContent(ctx context.Context, id, content string) error {
	return r.db.WithContext(ctx).Model(&model.Tweet{}).Where("id = ?", id).
		Update("content", content).Error
}

// Delete 可挂在外部事务里（删除与 cleanup 事件同事务落地）
func (r *tweetRepository) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.WithContext(ctx).Where("id = ?", id).Delete(&model.Tweet{}).Error
}

func (r *tweetRepository) ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]FeedItem, error) {
	rows := []FeedItem{}
	err := r.db.WithContext(ctx).
		Table("tweets").
		Select("tweets.id", "tweets.content", "tweets.owner_id", "tweets.created_at",
			"users.username", "users.avatar",
			"(SELECT COUNT(*) FROM likes WHERE likes.target_kind = 'tweet' AND likes.target_id = tweets.id) AS likes_count").
		Joins("JOIN users ON users.id = tweets.owner_id").
		Where("tweets.owner_id = ?", ownerID).
		Order("tweets.created_at DESC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *tweetRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Tweet{}).Where("owner_id = ?", ownerID).Count(&cnt).Error
	return cnt, err
}
