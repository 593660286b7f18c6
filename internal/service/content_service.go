package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/vidtube/internal/model"
	"github.com/d60-Lab/vidtube/internal/repository"
	"github.com/d60-Lab/vidtube/pkg/apperr"
)

// ContentService 内容写侧：视频元数据、动态、评论。
// 删除内容时在同一事务里写 CleanupEvent，残留点赞边由后台 worker 清理。
type ContentService interface {
	PublishVideo(ctx context.Context, identity IdentityContext, title, description, videoURL, thumbnail string, duration float64) (*model.Video, error)
	// WatchVideo 读取视频并自增播放数；viewer 非空时异步记录观看历史。
	// 未发布的视频只有频道主自己能看。
	WatchVideo(ctx context.Context, viewerID, videoID string) (*model.Video, error)
	// UpdateVideo 只改元数据，不动 video_url/duration；thumbnail 为空串时保留现值
	UpdateVideo(ctx context.Context, identity IdentityContext, videoID, title, description, thumbnail string) (*model.Video, error)
	// TogglePublishStatus 翻转发布状态，返回翻转后的值
	TogglePublishStatus(ctx context.Context, identity IdentityContext, videoID string) (bool, error)
	DeleteVideo(ctx context.Context, identity IdentityContext, videoID string) error

	CreateTweet(ctx context.Context, identity IdentityContext, content string) (*model.Tweet, error)
	UpdateTweet(ctx context.Context, identity IdentityContext, tweetID, content string) (*model.Tweet, error)
	DeleteTweet(ctx context.Context, identity IdentityContext, tweetID string) error

	AddComment(ctx context.Context, identity IdentityContext, videoID, content string) (*model.Comment, error)
	UpdateComment(ctx context.Context, identity IdentityContext, commentID, content string) (*model.Comment, error)
	DeleteComment(ctx context.Context, identity IdentityContext, commentID string) error
}

type contentService struct {
	db          *gorm.DB
	videoRepo   repository.VideoRepository
	tweetRepo   repository.TweetRepository
	commentRepo repository.CommentRepository
	recorder    *HistoryRecorder
}

func NewContentService(
	db *gorm.DB,
	videoRepo repository.VideoRepository,
	tweetRepo repository.TweetRepository,
	commentRepo repository.CommentRepository,
	recorder *HistoryRecorder,
) ContentService {
	return &contentService{
		db:          db,
		videoRepo:   videoRepo,
		tweetRepo:   tweetRepo,
		commentRepo: commentRepo,
		recorder:    recorder,
	}
}

func (s *contentService) PublishVideo(ctx context.Context, identity IdentityContext, title, description, videoURL, thumbnail string, duration float64) (*model.Video, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(description) == "" {
		return nil, apperr.InvalidArgument("title and description are required")
	}
	v := &model.Video{
		ID:          uuid.New().String(),
		OwnerID:     identity.UserID,
		Title:       strings.TrimSpace(title),
		Description: description,
		VideoURL:    videoURL,
		Thumbnail:   thumbnail,
		Duration:    duration,
		IsPublished: true,
	}
	if err := s.videoRepo.Create(ctx, v); err != nil {
		return nil, storeErr("create video", err)
	}
	return v, nil
}

func (s *contentService) WatchVideo(ctx context.Context, viewerID, videoID string) (*model.Video, error) {
	if !validID(videoID) {
		return nil, apperr.InvalidArgument("malformed video id")
	}
	v, err := s.videoRepo.GetByID(ctx, videoID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("video not found")
	}
	if err != nil {
		return nil, storeErr("find video", err)
	}
	if !v.IsPublished && v.OwnerID != viewerID {
		// 对外不暴露未发布视频的存在
		return nil, apperr.NotFound("video not found")
	}
	if err := s.videoRepo.IncrementViews(ctx, videoID); err != nil {
		return nil, storeErr("increment views", err)
	}
	v.Views++
	if viewerID != "" && s.recorder != nil {
		s.recorder.Enqueue(viewerID, videoID)
	}
	return v, nil
}

func (s *contentService) UpdateVideo(ctx context.Context, identity IdentityContext, videoID, title, description, thumbnail string) (*model.Video, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(description) == "" {
		return nil, apperr.InvalidArgument("title and description are required")
	}
	v, err := s.ownedVideo(ctx, identity, videoID)
	if err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	if err := s.videoRepo.UpdateMeta(ctx, v.ID, title, description, thumbnail); err != nil {
		return nil, storeErr("update video", err)
	}
	v.Title = title
	v.Description = description
	if thumbnail != "" {
		v.Thumbnail = thumbnail
	}
	return v, nil
}

func (s *contentService) TogglePublishStatus(ctx context.Context, identity IdentityContext, videoID string) (bool, error) {
	v, err := s.ownedVideo(ctx, identity, videoID)
	if err != nil {
		return false, err
	}
	next := !v.IsPublished
	if err := s.videoRepo.SetPublished(ctx, v.ID, next); err != nil {
		return false, storeErr("toggle publish status", err)
	}
	return next, nil
}

func (s *contentService) DeleteVideo(ctx context.Context, identity IdentityContext, videoID string) error {
	v, err := s.ownedVideo(ctx, identity, videoID)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", v.ID).Delete(&model.Video{}).Error; err != nil {
			return err
		}
		return tx.Create(cleanupEvent(model.KindVideo, v.ID)).Error
	})
	if err != nil {
		return storeErr("delete video", err)
	}
	return nil
}

func (s *contentService) CreateTweet(ctx context.Context, identity IdentityContext, content string) (*model.Tweet, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperr.InvalidArgument("content is required")
	}
	t := &model.Tweet{
		ID:      uuid.New().String(),
		OwnerID: identity.UserID,
		Content: strings.TrimSpace(content),
	}
	if err := s.tweetRepo.Create(ctx, t); err != nil {
		return nil, storeErr("create tweet", err)
	}
	return t, nil
}

func (s *contentService) UpdateTweet(ctx context.Context, identity IdentityContext, tweetID, content string) (*model.Tweet, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperr.InvalidArgument("content is required")
	}
	t, err := s.ownedTweet(ctx, identity, tweetID)
	if err != nil {
		return nil, err
	}
	if err := s.tweetRepo.UpdateContent(ctx, t.ID, strings.TrimSpace(content)); err != nil {
		return nil, storeErr("update tweet", err)
	}
	t.Content = strings.TrimSpace(content)
	return t, nil
}

func (s *contentService) DeleteTweet(ctx context.Context, identity IdentityContext, tweetID string) error {
	t, err := s.ownedTweet(ctx, identity, tweetID)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.tweetRepo.Delete(ctx, tx, t.ID); err != nil {
			return err
		}
		return tx.Create(cleanupEvent(model.KindTweet, t.ID)).Error
	})
	if err != nil {
		return storeErr("delete tweet", err)
	}
	return nil
}

func (s *contentService) AddComment(ctx context.Context, identity IdentityContext, videoID, content string) (*model.Comment, error) {
	if !validID(videoID) {
		return nil, apperr.InvalidArgument("malformed video id")
	}
	if strings.TrimSpace(content) == "" {
		return nil, apperr.InvalidArgument("content is required")
	}
	exists, err := s.videoRepo.Exists(ctx, videoID)
	if err != nil {
		return nil, storeErr("check video", err)
	}
	if !exists {
		return nil, apperr.NotFound("video not found")
	}
	c := &model.Comment{
		ID:      uuid.New().String(),
		VideoID: videoID,
		OwnerID: identity.UserID,
		Content: strings.TrimSpace(content),
	}
	if err := s.commentRepo.Create(ctx, c); err != nil {
		return nil, storeErr("create comment", err)
	}
	return c, nil
}

func (s *contentService) UpdateComment(ctx context.Context, identity IdentityContext, commentID, content string) (*model.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperr.InvalidArgument("content is required")
	}
	c, err := s.ownedComment(ctx, identity, commentID)
	if err != nil {
		return nil, err
	}
	if err := s.commentRepo.UpdateContent(ctx, c.ID, strings.TrimSpace(content)); err != nil {
		return nil, storeErr("update comment", err)
	}
	c.Content = strings.TrimSpace(content)
	return c, nil
}

func (s *contentService) DeleteComment(ctx context.Context, identity IdentityContext, commentID string) error {
	c, err := s.ownedComment(ctx, identity, commentID)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.commentRepo.Delete(ctx, tx, c.ID); err != nil {
			return err
		}
		return tx.Create(cleanupEvent(model.KindComment, c.ID)).Error
	})
	if err != nil {
		return storeErr("delete comment", err)
	}
	return nil
}

func (s *contentService) ownedVideo(ctx context.Context, identity IdentityContext, videoID string) (*model.Video, error) {
	if !validID(videoID) {
		return nil, apperr.InvalidArgument("malformed video id")
	}
	v, err := s.videoRepo.GetByID(ctx, videoID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("video not found")
	}
	if err != nil {
		return nil, storeErr("find video", err)
	}
	if v.OwnerID != identity.UserID {
		return nil, apperr.InvalidOperation("cannot modify another user's video")
	}
	return v, nil
}

func (s *contentService) ownedTweet(ctx context.Context, identity IdentityContext, tweetID string) (*model.Tweet, error) {
	if !validID(tweetID) {
		return nil, apperr.InvalidArgument("malformed tweet id")
	}
	t, err := s.tweetRepo.GetByID(ctx, tweetID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("tweet not found")
	}
	if err != nil {
		return nil, storeErr("find tweet", err)
	}
	if t.OwnerID != identity.UserID {
		return nil, apperr.InvalidOperation("cannot modify another user's tweet")
	}
	return t, nil
}

func (s *contentService) ownedComment(ctx context.Context, identity IdentityContext, commentID string) (*model.Comment, error) {
	if !validID(commentID) {
		return nil, apperr.InvalidArgument("malformed comment id")
	}
	c, err := s.commentRepo.GetByID(ctx, commentID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("comment not found")
	}
	if err != nil {
		return nil, storeErr("find comment", err)
	}
	if c.OwnerID != identity.UserID {
		return nil, apperr.InvalidOperation("cannot modify another user's comment")
	}
	return c, nil
}

func cleanupEvent(kind model.ContentKind, targetID string) *model.CleanupEvent {
	return &model.CleanupEvent{
		ID:         uuid.New().String(),
		TargetKind: kind,
		TargetID:   targetID,
		CreatedAt:  time.Now(),
		Status:     "pending",
	}
}
