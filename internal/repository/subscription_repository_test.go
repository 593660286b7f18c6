package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/vidtube/internal/model"
)

func TestSubscriptionRepository_ToggleCycle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, "alice", "bob")
	require.NoError(t, err)
	require.True(t, created)

	created, err = repo.Create(ctx, "alice", "bob")
	require.NoError(t, err)
	require.False(t, created)

	n, err := repo.CountSubscribers(ctx, "bob")
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	deleted, err := repo.Delete(ctx, "alice", "bob")
	require.NoError(t, err)
	require.True(t, deleted)

	n, err = repo.CountSubscribers(ctx, "bob")
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestSubscriptionRepository_CountsMatchEdgeSet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	const n = 7
	for i := 0; i < n; i++ {
		created, err := repo.Create(ctx, fmt.Sprintf("sub%d", i), "channel")
		require.NoError(t, err)
		require.True(t, created)
	}
	cnt, err := repo.CountSubscribers(ctx, "channel")
	require.NoError(t, err)
	require.EqualValues(t, n, cnt)

	_, err = repo.Delete(ctx, "sub0", "channel")
	require.NoError(t, err)
	cnt, err = repo.CountSubscribers(ctx, "channel")
	require.NoError(t, err)
	require.EqualValues(t, n-1, cnt)

	cnt, err = repo.CountSubscriptions(ctx, "sub1")
	require.NoError(t, err)
	require.EqualValues(t, 1, cnt)
}

func TestSubscriptionRepository_ListProjectionsExcludeCredentials(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	channel := model.User{ID: uuid.New().String(), Username: "channel", Email: "c@example.com", FullName: "C", Password: "secret"}
	sub := model.User{ID: uuid.New().String(), Username: "watcher", Email: "w@example.com", FullName: "W", Avatar: "w.png", Password: "secret"}
	require.NoError(t, db.Create(&channel).Error)
	require.NoError(t, db.Create(&sub).Error)

	_, err := repo.Create(ctx, sub.ID, channel.ID)
	require.NoError(t, err)

	subscribers, err := repo.ListSubscribers(ctx, channel.ID)
	require.NoError(t, err)
	require.Len(t, subscribers, 1)
	require.Equal(t, "watcher", subscribers[0].Username)
	require.Equal(t, "w.png", subscribers[0].Avatar)

	channels, err := repo.ListChannels(ctx, sub.ID)
	require.NoError(t, err)
	require.Len(t, channels, 1)
	require.Equal(t, "channel", channels[0].Username)

	// 没有订阅关系时返回空列表而不是错误
	empty, err := repo.ListSubscribers(ctx, sub.ID)
	require.NoError(t, err)
	require.Empty(t, empty)
}
