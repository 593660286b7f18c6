package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/vidtube/internal/model"
)

type VideoRepository interface {
	Create(ctx context.Context, video *model.Video) error
	GetByID(ctx context.Context, id string) (*model.Video, error)
	Exists(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
	// UpdateMeta 只改元数据；thumbnail 为空串时保留现值
	UpdateMeta(ctx context.Context, id, title, description, thumbnail string) error
	SetPublished(ctx context.Context, id string, published bool) error
	// ListByOwner 频道视频列表，按发布时间倒序；includeUnpublished 仅对频道主开放
	ListByOwner(ctx context.Context, ownerID string, includeUnpublished bool, offset, limit int) ([]VideoSummary, error)
	CountByOwner(ctx context.Context, ownerID string, includeUnpublished bool) (int64, error)
	// ListSummariesByIDs 返回带作者投影的视频摘要；结果顺序不保证，由调用方按 ids 重排
	ListSummariesByIDs(ctx context.Context, ids []string) ([]VideoSummary, error)
}

type videoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) VideoRepository { return &videoRepository{db: db} }

func (r *videoRepository) Create(ctx context.Context, video *model.Video) error {
	return r.db.WithContext(ctx).Create(video).Error
}

func (r *videoRepository) GetByID(ctx context.Context, id string) (*model.Video, error) {
	var v model.Video
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *videoRepository) Exists(ctx context.Context, id string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Video{}).Where("id = ?", id).Count(&cnt).Error
	if err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *videoRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Video{}).Error
}

func (r *videoRepository) IncrementViews(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&model.Video{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

func (r *videoRepository) UpdateMeta(ctx context.Context, id, title, description, thumbnail string) error {
	updates := map[string]any{"title": title, "description": description}
	if thumbnail != "" {
		updates["thumbnail"] = thumbnail
	}
	return r.db.WithContext(ctx).Model(&model.Video{}).Where("id = ?", id).
		Updates(updates).Error
}

func (r *videoRepository) SetPublished(ctx context.Context, id string, published bool) error {
	return r.db.WithContext(ctx).Model(&model.Video{}).Where("id = ?", id).
		Update("is_published", published).Error
}

func (r *videoRepository) ListByOwner(ctx context.Context, ownerID string, includeUnpublished bool, offset, limit int) ([]VideoSummary, error) {
	rows := []VideoSummary{}
	q := r.db.WithContext(ctx).
		Table("videos").
		Select("videos.id", "videos.title", "videos.description", "videos.thumbnail",
			"users.id AS owner_id", "users.username AS owner_username",
			"users.full_name AS owner_full_name", "users.avatar AS owner_avatar").
		Joins("JOIN users ON users.id = videos.owner_id").
		Where("videos.owner_id = ?", ownerID)
	if !includeUnpublished {
		q = q.Where("videos.is_published = ?", true)
	}
	err := q.Order("videos.created_at DESC").Offset(offset).Limit(limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *videoRepository) CountByOwner(ctx context.Context, ownerID string, includeUnpublished bool) (int64, error) {
	var cnt int64
	q := r.db.WithContext(ctx).Model(&model.Video{}).Where("owner_id = ?", ownerID)
	if !includeUnpublished {
		q = q.Where("is_published = ?", true)
	}
	err := q.Count(&cnt).Error
	return cnt, err
}

func (r *videoRepository) ListSummariesByIDs(ctx context.Context, ids []string) ([]VideoSummary, error) {
	rows := []VideoSummary{}
	if len(ids) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).
		Table("videos").
		Select("videos.id", "videos.title", "videos.description", "videos.thumbnail",
			"users.id AS owner_id", "users.username AS owner_username",
			"users.full_name AS owner_full_name", "users.avatar AS owner_avatar").
		Joins("JOIN users ON users.id = videos.owner_id").
		Where("videos.id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
