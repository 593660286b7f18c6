package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestWatchHistoryRepository_MostRecentFirst(t *testing.T) {
	repo := NewWatchHistoryRepository(setupTestRedis(t), 100)
	ctx := context.Background()

	require.NoError(t, repo.Push(ctx, "u1", "v1"))
	require.NoError(t, repo.Push(ctx, "u1", "v2"))
	require.NoError(t, repo.Push(ctx, "u1", "v3"))

	ids, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, []string{"v3", "v2", "v1"}, ids)
}

func TestWatchHistoryRepository_RewatchMovesToHead(t *testing.T) {
	repo := NewWatchHistoryRepository(setupTestRedis(t), 100)
	ctx := context.Background()

	for _, v := range []string{"v1", "v2", "v3"} {
		require.NoError(t, repo.Push(ctx, "u1", v))
	}
	// 再看 v1：挪到表头，不产生重复项
	require.NoError(t, repo.Push(ctx, "u1", "v1"))

	ids, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, []string{"v1", "v3", "v2"}, ids)
}

func TestWatchHistoryRepository_CapTrimsOldest(t *testing.T) {
	repo := NewWatchHistoryRepository(setupTestRedis(t), 5)
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		require.NoError(t, repo.Push(ctx, "u1", fmt.Sprintf("v%d", i)))
	}
	ids, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, []string{"v7", "v6", "v5", "v4", "v3"}, ids)
}

func TestWatchHistoryRepository_ClearAndEmptyList(t *testing.T) {
	repo := NewWatchHistoryRepository(setupTestRedis(t), 100)
	ctx := context.Background()

	// 没有历史时是空列表
	ids, err := repo.List(ctx, "nobody")
	require.NoError(t, err)
	require.Empty(t, ids)

	require.NoError(t, repo.Push(ctx, "u1", "v1"))
	require.NoError(t, repo.Clear(ctx, "u1"))

	ids, err = repo.List(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, ids)
}
