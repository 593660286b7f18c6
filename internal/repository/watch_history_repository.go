package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// WatchHistoryRepository 观看历史存储：redis list，表头是最近观看。
// 重复观看会把视频挪到表头而不是产生重复项。
type WatchHistoryRepository interface {
	Push(ctx context.Context, userID, videoID string) error
	List(ctx context.Context, userID string) ([]string, error)
	Clear(ctx context.Context, userID string) error
}

type watchHistoryRepository struct {
	client *redis.Client
	cap    int64
}

func NewWatchHistoryRepository(client *redis.Client, cap int64) WatchHistoryRepository {
	if cap <= 0 {
		cap = 100
	}
	return &watchHistoryRepository{client: client, cap: cap}
}

func historyKey(userID string) string { return fmt.Sprintf("watch_history:%s", userID) }

func (r *watchHistoryRepository) Push(ctx context.Context, userID, videoID string) error {
	key := historyKey(userID)
	pipe := r.client.TxPipeline()
	pipe.LRem(ctx, key, 0, videoID)
	pipe.LPush(ctx, key, videoID)
	pipe.LTrim(ctx, key, 0, r.cap-1)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *watchHistoryRepository) List(ctx context.Context, userID string) ([]string, error) {
	ids, err := r.client.LRange(ctx, historyKey(userID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *watchHistoryRepository) Clear(ctx context.Context, userID string) error {
	return r.client.Del(ctx, historyKey(userID)).Err()
}
