package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/vidtube/internal/model"
)

// UserSummary 订阅者/频道列表里的用户投影，不含任何凭据字段
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Avatar   string `json:"avatar"`
}

type SubscriptionRepository interface {
	// Create 依赖 idx_sub_pair 唯一键；返回 false 表示已订阅
	Create(ctx context.Context, subscriberID, channelID string) (bool, error)
	Delete(ctx context.Context, subscriberID, channelID string) (bool, error)
	Exists(ctx context.Context, subscriberID, channelID string) (bool, error)
	CountSubscribers(ctx context.Context, channelID string) (int64, error)
	CountSubscriptions(ctx context.Context, subscriberID string) (int64, error)
	ListSubscribers(ctx context.Context, channelID string) ([]UserSummary, error)
	ListChannels(ctx context.Context, subscriberID string) ([]UserSummary, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(ctx context.Context, subscriberID, channelID string) (bool, error) {
	s := &model.Subscription{
		ID:           uuid.New().String(),
		SubscriberID: subscriberID,
		ChannelID:    channelID,
		CreatedAt:    time.Now(),
	}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(s)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *subscriptionRepository) Delete(ctx context.Context, subscriberID, channelID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Delete(&model.Subscription{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *subscriptionRepository) Exists(ctx context.Context, subscriberID, channelID string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Count(&cnt).Error
	if err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *subscriptionRepository) CountSubscribers(ctx context.Context, channelID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("channel_id = ?", channelID).Count(&cnt).Error
	return cnt, err
}

func (r *subscriptionRepository) CountSubscriptions(ctx context.Context, subscriberID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("subscriber_id = ?", subscriberID).Count(&cnt).Error
	return cnt, err
}

func (r *subscriptionRepository) ListSubscribers(ctx context.Context, channelID string) ([]UserSummary, error) {
	rows := []UserSummary{}
	err := r.db.WithContext(ctx).
		Table("subscriptions").
		Select("users.id", "users.username", "users.full_name", "users.avatar").
		Joins("JOIN users ON users.id = subscriptions.subscriber_id").
		Where("subscriptions.channel_id = ?", channelID).
		Order("subscriptions.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *subscriptionRepository) ListChannels(ctx context.Context, subscriberID string) ([]UserSummary, error) {
	rows := []UserSummary{}
	err := r.db.WithContext(ctx).
		Table("subscriptions").
		Select("users.id", "users.username", "users.full_name", "users.avatar").
		Joins("JOIN users ON users.id = subscriptions.channel_id").
		Where("subscriptions.subscriber_id = ?", subscriberID).
		Order("subscriptions.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
