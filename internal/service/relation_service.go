package service

import (
	"context"
	"errors"

	"github.com/d60-Lab/vidtube/internal/model"
	"github.com/d60-Lab/vidtube/internal/repository"
	"github.com/d60-Lab/vidtube/pkg/apperr"
)

// RelationService 关系链服务：点赞与订阅的 toggle 语义。
// 唯一性由存储层复合唯一键保证，应用层读写只用来产出响应值。
type RelationService interface {
	// ToggleLike 无边则建边返回 true，有边则删边返回 false
	ToggleLike(ctx context.Context, actorID string, kind model.ContentKind, targetID string) (bool, error)
	// ToggleSubscription 同 ToggleLike，键为 (subscriber, channel)
	ToggleSubscription(ctx context.Context, subscriberID, channelID string) (bool, error)
	CountLikes(ctx context.Context, kind model.ContentKind, targetID string) (int64, error)
	CountSubscribers(ctx context.Context, channelID string) (int64, error)
	CountSubscriptions(ctx context.Context, subscriberID string) (int64, error)
	IsSubscribed(ctx context.Context, subscriberID, channelID string) (bool, error)
}

type relationService struct {
	likeRepo    repository.LikeRepository
	subRepo     repository.SubscriptionRepository
	userRepo    repository.UserRepository
	videoRepo   repository.VideoRepository
	tweetRepo   repository.TweetRepository
	commentRepo repository.CommentRepository
}

func NewRelationService(
	likeRepo repository.LikeRepository,
	subRepo repository.SubscriptionRepository,
	userRepo repository.UserRepository,
	videoRepo repository.VideoRepository,
	tweetRepo repository.TweetRepository,
	commentRepo repository.CommentRepository,
) RelationService {
	return &relationService{
		likeRepo:    likeRepo,
		subRepo:     subRepo,
		userRepo:    userRepo,
		videoRepo:   videoRepo,
		tweetRepo:   tweetRepo,
		commentRepo: commentRepo,
	}
}

func (s *relationService) ToggleLike(ctx context.Context, actorID string, kind model.ContentKind, targetID string) (bool, error) {
	if !kind.Valid() {
		return false, apperr.InvalidArgument("unknown content kind")
	}
	if !validID(targetID) {
		return false, apperr.InvalidArgument("malformed target id")
	}
	exists, err := s.targetExists(ctx, kind, targetID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, apperr.NotFound("target content not found")
	}

	// 先尝试建边；唯一键兜底，并发重复插入不会产生第二条边
	created, err := s.likeRepo.Create(ctx, actorID, kind, targetID)
	if err != nil {
		return false, storeErr("create like edge", err)
	}
	if created {
		return true, nil
	}
	// 边已存在：本次 toggle 即取消。并发删除抢先时结果一致（边不存在）。
	if _, err := s.likeRepo.Delete(ctx, actorID, kind, targetID); err != nil {
		return false, storeErr("delete like edge", err)
	}
	return false, nil
}

func (s *relationService) ToggleSubscription(ctx context.Context, subscriberID, channelID string) (bool, error) {
	if !validID(channelID) {
		return false, apperr.InvalidArgument("malformed channel id")
	}
	if subscriberID == channelID {
		return false, apperr.InvalidOperation("cannot subscribe to yourself")
	}
	exists, err := s.userRepo.Exists(ctx, channelID)
	if err != nil {
		return false, storeErr("check channel", err)
	}
	if !exists {
		return false, apperr.NotFound("channel not found")
	}

	created, err := s.subRepo.Create(ctx, subscriberID, channelID)
	if err != nil {
		return false, storeErr("create subscription edge", err)
	}
	if created {
		return true, nil
	}
	if _, err := s.subRepo.Delete(ctx, subscriberID, channelID); err != nil {
		return false, storeErr("delete subscription edge", err)
	}
	return false, nil
}

func (s *relationService) CountLikes(ctx context.Context, kind model.ContentKind, targetID string) (int64, error) {
	if !kind.Valid() {
		return 0, apperr.InvalidArgument("unknown content kind")
	}
	n, err := s.likeRepo.CountByTarget(ctx, kind, targetID)
	if err != nil {
		return 0, storeErr("count likes", err)
	}
	return n, nil
}

func (s *relationService) CountSubscribers(ctx context.Context, channelID string) (int64, error) {
	n, err := s.subRepo.CountSubscribers(ctx, channelID)
	if err != nil {
		return 0, storeErr("count subscribers", err)
	}
	return n, nil
}

func (s *relationService) CountSubscriptions(ctx context.Context, subscriberID string) (int64, error) {
	n, err := s.subRepo.CountSubscriptions(ctx, subscriberID)
	if err != nil {
		return 0, storeErr("count subscriptions", err)
	}
	return n, nil
}

func (s *relationService) IsSubscribed(ctx context.Context, subscriberID, channelID string) (bool, error) {
	ok, err := s.subRepo.Exists(ctx, subscriberID, channelID)
	if err != nil {
		return false, storeErr("check subscription", err)
	}
	return ok, nil
}

func (s *relationService) targetExists(ctx context.Context, kind model.ContentKind, targetID string) (bool, error) {
	var err error
	switch kind {
	case model.KindVideo:
		ok, e := s.videoRepo.Exists(ctx, targetID)
		if e == nil {
			return ok, nil
		}
		err = e
	case model.KindTweet:
		_, err = s.tweetRepo.GetByID(ctx, targetID)
	case model.KindComment:
		_, err = s.commentRepo.GetByID(ctx, targetID)
	}
	if err == nil {
		return true, nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return false, storeErr("check target content", err)
}
