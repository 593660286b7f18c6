package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/vidtube/internal/model"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, id string) (*model.Comment, error)
	UpdateContent(ctx context.Context, id, content string) error
	Delete(ctx context.Context, tx *gorm.DB, id string) error
	// ListByVideo 按创建时间倒序，条目带 likes_count 与作者摘要
	ListByVideo(ctx context.Context, videoID string, offset, limit int) ([]FeedItem, error)
	CountByVideo(ctx context.Context, videoID string) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository { return &commentRepository{db: db} }

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	var c model.Comment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *commentRepository) UpdateContent(ctx context.Context, id, content string) error {
	return r.db.WithContext(ctx).Model(&model.Comment{}).Where("id = ?", id).
		Update("content", content).Error
}

func (r *commentRepository) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.WithContext(ctx).Where("id = ?", id).Delete(&model.Comment{}).Error
}

func (r *commentRepository) ListByVideo(ctx context.Context, videoID string, offset, limit int) ([]FeedItem, error) {
	rows := []FeedItem{}
	err := r.db.WithContext(ctx).
		Table("comments").
		Select("comments.id", "comments.content", "comments.owner_id", "comments.created_at",
			"users.username", "users.avatar",
			"(SELECT COUNT(*) FROM likes WHERE likes.target_kind = 'comment' AND likes.target_id = comments.id) AS likes_count").
		Joins("JOIN users ON users.id = comments.owner_id").
		Where("comments.video_id = ?", videoID).
		Order("comments.created_at DESC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *commentRepository) CountByVideo(ctx context.Context, videoID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Comment{}).Where("video_id = ?", videoID).Count(&cnt).Error
	return cnt, err
}
