package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/vidtube/internal/model"
)

// VideoSummary 点赞列表/观看历史里的视频投影
type VideoSummary struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Thumbnail     string `json:"thumbnail"`
	OwnerID       string `json:"owner_id"`
	OwnerUsername string `json:"owner_username"`
	OwnerFullName string `json:"owner_full_name"`
	OwnerAvatar   string `json:"owner_avatar"`
}

type LikeRepository interface {
	// Create 依赖 idx_like_pair 唯一键；返回 false 表示边已存在
	Create(ctx context.Context, actorID string, kind model.ContentKind, targetID string) (bool, error)
	// Delete 返回 false 表示边本就不存在
	Delete(ctx context.Context, actorID string, kind model.ContentKind, targetID string) (bool, error)
	Exists(ctx context.Context, actorID string, kind model.ContentKind, targetID string) (bool, error)
	CountByTarget(ctx context.Context, kind model.ContentKind, targetID string) (int64, error)
	// ListLikedVideos 按点赞时间倒序（最近点赞在前）
	ListLikedVideos(ctx context.Context, actorID string) ([]VideoSummary, error)
	DeleteByTarget(ctx context.Context, kind model.ContentKind, targetID string) (int64, error)
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository { return &likeRepository{db: db} }

func (r *likeRepository) Create(ctx context.Context, actorID string, kind model.ContentKind, targetID string) (bool, error) {
	l := &model.Like{
		ID:         uuid.New().String(),
		LikedBy:    actorID,
		TargetKind: kind,
		TargetID:   targetID,
		CreatedAt:  time.Now(),
	}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(l)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *likeRepository) Delete(ctx context.Context, actorID string, kind model.ContentKind, targetID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("liked_by = ? AND target_kind = ? AND target_id = ?", actorID, kind, targetID).
		Delete(&model.Like{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *likeRepository) Exists(ctx context.Context, actorID string, kind model.ContentKind, targetID string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Like{}).
		Where("liked_by = ? AND target_kind = ? AND target_id = ?", actorID, kind, targetID).
		Count(&cnt).Error
	if err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *likeRepository) CountByTarget(ctx context.Context, kind model.ContentKind, targetID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Like{}).
		Where("target_kind = ? AND target_id = ?", kind, targetID).
		Count(&cnt).Error
	return cnt, err
}

func (r *likeRepository) ListLikedVideos(ctx context.Context, actorID string) ([]VideoSummary, error) {
	rows := []VideoSummary{}
	err := r.db.WithContext(ctx).
		Table("likes").
		Select("videos.id", "videos.title", "videos.description", "videos.thumbnail",
			"users.id AS owner_id", "users.username AS owner_username",
			"users.full_name AS owner_full_name", "users.avatar AS owner_avatar").
		Joins("JOIN videos ON videos.id = likes.target_id").
		Joins("JOIN users ON users.id = videos.owner_id").
		Where("likes.liked_by = ? AND likes.target_kind = ?", actorID, model.KindVideo).
		Order("likes.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *likeRepository) DeleteByTarget(ctx context.Context, kind model.ContentKind, targetID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("target_kind = ? AND target_id = ?", kind, targetID).
		Delete(&model.Like{})
	return res.RowsAffected, res.Error
}
