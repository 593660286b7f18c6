package service

import (
	"context"
	"errors"
	"strings"

	"github.com/d60-Lab/vidtube/internal/repository"
	"github.com/d60-Lab/vidtube/pkg/apperr"
)

// ChannelView 频道主页投影：订阅数聚合 + 当前观看者是否已订阅
type ChannelView struct {
	ID                string `json:"id"`
	Username          string `json:"username"`
	FullName          string `json:"full_name"`
	Avatar            string `json:"avatar"`
	CoverImage        string `json:"cover_image"`
	Email             string `json:"email"`
	SubscribersCount  int64  `json:"subscribers_count"`
	SubscribedToCount int64  `json:"subscribed_to_count"`
	IsSubscribed      bool   `json:"is_subscribed"`
}

// Feed 分页内容流
type Feed struct {
	Items      []repository.FeedItem `json:"items"`
	TotalCount int64                 `json:"total_count"`
	Page       int                   `json:"page"`
	TotalPages int64                 `json:"total_pages"`
}

// VideoFeed 频道视频分页列表
type VideoFeed struct {
	Items      []repository.VideoSummary `json:"items"`
	TotalCount int64                     `json:"total_count"`
	Page       int                       `json:"page"`
	TotalPages int64                     `json:"total_pages"`
}

// ViewService 读侧视图聚合，自身无状态
type ViewService interface {
	// GetChannelProfile viewerID 为空表示匿名访问，IsSubscribed 恒为 false
	GetChannelProfile(ctx context.Context, viewerID, channelUsername string) (*ChannelView, error)
	// GetLikedVideos 按点赞时间倒序；空列表是正常结果
	GetLikedVideos(ctx context.Context, viewerID string) ([]repository.VideoSummary, error)
	GetTweetFeed(ctx context.Context, ownerID string, page, limit int) (*Feed, error)
	// GetChannelVideos 频道视频列表；未发布的视频只有频道主自己能看到
	GetChannelVideos(ctx context.Context, viewerID, channelID string, page, limit int) (*VideoFeed, error)
	GetVideoComments(ctx context.Context, videoID string, page, limit int) (*Feed, error)
	// GetWatchHistory 最近观看在前
	GetWatchHistory(ctx context.Context, viewerID string) ([]repository.VideoSummary, error)
	GetChannelSubscribers(ctx context.Context, channelID string) ([]repository.UserSummary, error)
	GetSubscribedChannels(ctx context.Context, subscriberID string) ([]repository.UserSummary, error)
}

type viewService struct {
	userRepo    repository.UserRepository
	videoRepo   repository.VideoRepository
	tweetRepo   repository.TweetRepository
	commentRepo repository.CommentRepository
	likeRepo    repository.LikeRepository
	subRepo     repository.SubscriptionRepository
	historyRepo repository.WatchHistoryRepository
	relations   RelationService
}

func NewViewService(
	userRepo repository.UserRepository,
	videoRepo repository.VideoRepository,
	tweetRepo repository.TweetRepository,
	commentRepo repository.CommentRepository,
	likeRepo repository.LikeRepository,
	subRepo repository.SubscriptionRepository,
	historyRepo repository.WatchHistoryRepository,
	relations RelationService,
) ViewService {
	return &viewService{
		userRepo:    userRepo,
		videoRepo:   videoRepo,
		tweetRepo:   tweetRepo,
		commentRepo: commentRepo,
		likeRepo:    likeRepo,
		subRepo:     subRepo,
		historyRepo: historyRepo,
		relations:   relations,
	}
}

func (s *viewService) GetChannelProfile(ctx context.Context, viewerID, channelUsername string) (*ChannelView, error) {
	if strings.TrimSpace(channelUsername) == "" {
		return nil, apperr.InvalidArgument("username is required")
	}
	u, err := s.userRepo.GetByUsername(ctx, channelUsername)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("channel does not exist")
	}
	if err != nil {
		return nil, storeErr("find channel", err)
	}

	subscribers, err := s.relations.CountSubscribers(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	subscribedTo, err := s.relations.CountSubscriptions(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	isSubscribed := false
	if viewerID != "" {
		isSubscribed, err = s.relations.IsSubscribed(ctx, viewerID, u.ID)
		if err != nil {
			return nil, err
		}
	}

	return &ChannelView{
		ID:                u.ID,
		Username:          u.Username,
		FullName:          u.FullName,
		Avatar:            u.Avatar,
		CoverImage:        u.CoverImage,
		Email:             u.Email,
		SubscribersCount:  subscribers,
		SubscribedToCount: subscribedTo,
		IsSubscribed:      isSubscribed,
	}, nil
}

func (s *viewService) GetLikedVideos(ctx context.Context, viewerID string) ([]repository.VideoSummary, error) {
	rows, err := s.likeRepo.ListLikedVideos(ctx, viewerID)
	if err != nil {
		return nil, storeErr("list liked videos", err)
	}
	return rows, nil
}

func (s *viewService) GetTweetFeed(ctx context.Context, ownerID string, page, limit int) (*Feed, error) {
	if err := checkPage(page, limit); err != nil {
		return nil, err
	}
	if !validID(ownerID) {
		return nil, apperr.InvalidArgument("malformed user id")
	}
	items, err := s.tweetRepo.ListByOwner(ctx, ownerID, (page-1)*limit, limit)
	if err != nil {
		return nil, storeErr("list tweets", err)
	}
	total, err := s.tweetRepo.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, storeErr("count tweets", err)
	}
	return &Feed{Items: items, TotalCount: total, Page: page, TotalPages: totalPages(total, limit)}, nil
}

func (s *viewService) GetChannelVideos(ctx context.Context, viewerID, channelID string, page, limit int) (*VideoFeed, error) {
	if err := checkPage(page, limit); err != nil {
		return nil, err
	}
	if !validID(channelID) {
		return nil, apperr.InvalidArgument("malformed channel id")
	}
	includeUnpublished := viewerID == channelID
	items, err := s.videoRepo.ListByOwner(ctx, channelID, includeUnpublished, (page-1)*limit, limit)
	if err != nil {
		return nil, storeErr("list channel videos", err)
	}
	total, err := s.videoRepo.CountByOwner(ctx, channelID, includeUnpublished)
	if err != nil {
		return nil, storeErr("count channel videos", err)
	}
	return &VideoFeed{Items: items, TotalCount: total, Page: page, TotalPages: totalPages(total, limit)}, nil
}

func (s *viewService) GetVideoComments(ctx context.Context, videoID string, page, limit int) (*Feed, error) {
	if err := checkPage(page, limit); err != nil {
		return nil, err
	}
	if !validID(videoID) {
		return nil, apperr.InvalidArgument("malformed video id")
	}
	items, err := s.commentRepo.ListByVideo(ctx, videoID, (page-1)*limit, limit)
	if err != nil {
		return nil, storeErr("list comments", err)
	}
	total, err := s.commentRepo.CountByVideo(ctx, videoID)
	if err != nil {
		return nil, storeErr("count comments", err)
	}
	return &Feed{Items: items, TotalCount: total, Page: page, TotalPages: totalPages(total, limit)}, nil
}

func (s *viewService) GetWatchHistory(ctx context.Context, viewerID string) ([]repository.VideoSummary, error) {
	ids, err := s.historyRepo.List(ctx, viewerID)
	if err != nil {
		return nil, storeErr("read watch history", err)
	}
	if len(ids) == 0 {
		return []repository.VideoSummary{}, nil
	}
	rows, err := s.videoRepo.ListSummariesByIDs(ctx, ids)
	if err != nil {
		return nil, storeErr("load videos", err)
	}
	// 按历史顺序重排；已删除的视频直接跳过
	byID := make(map[string]repository.VideoSummary, len(rows))
	for _, r := range rows {
		byID[r.ID] = r
	}
	ordered := make([]repository.VideoSummary, 0, len(ids))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			ordered = append(ordered, r)
		}
	}
	return ordered, nil
}

func (s *viewService) GetChannelSubscribers(ctx context.Context, channelID string) ([]repository.UserSummary, error) {
	if !validID(channelID) {
		return nil, apperr.InvalidArgument("malformed channel id")
	}
	rows, err := s.subRepo.ListSubscribers(ctx, channelID)
	if err != nil {
		return nil, storeErr("list subscribers", err)
	}
	return rows, nil
}

func (s *viewService) GetSubscribedChannels(ctx context.Context, subscriberID string) ([]repository.UserSummary, error) {
	if !validID(subscriberID) {
		return nil, apperr.InvalidArgument("malformed user id")
	}
	rows, err := s.subRepo.ListChannels(ctx, subscriberID)
	if err != nil {
		return nil, storeErr("list channels", err)
	}
	return rows, nil
}

func checkPage(page, limit int) error {
	if page < 1 || limit < 1 {
		return apperr.InvalidArgument("page and limit must be positive")
	}
	return nil
}

func totalPages(total int64, limit int) int64 {
	return (total + int64(limit) - 1) / int64(limit)
}
