package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/vidtube/internal/model"
)

func TestLikeRepository_CreateIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, "u1", model.KindVideo, "v1")
	require.NoError(t, err)
	require.True(t, created)

	// 唯一键兜底：重复插入不报错，也不产生第二条边
	created, err = repo.Create(ctx, "u1", model.KindVideo, "v1")
	require.NoError(t, err)
	require.False(t, created)

	n, err := repo.CountByTarget(ctx, model.KindVideo, "v1")
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestLikeRepository_DeleteReportsPresence(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	deleted, err := repo.Delete(ctx, "u1", model.KindTweet, "t1")
	require.NoError(t, err)
	require.False(t, deleted)

	_, err = repo.Create(ctx, "u1", model.KindTweet, "t1")
	require.NoError(t, err)
	deleted, err = repo.Delete(ctx, "u1", model.KindTweet, "t1")
	require.NoError(t, err)
	require.True(t, deleted)

	exists, err := repo.Exists(ctx, "u1", model.KindTweet, "t1")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestLikeRepository_ConcurrentCreateSingleEdge(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	const workers = 16
	type result struct {
		created bool
		err     error
	}
	var wg sync.WaitGroup
	results := make(chan result, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			created, err := repo.Create(ctx, "u1", model.KindVideo, "v1")
			results <- result{created: created, err: err}
		}()
	}
	wg.Wait()
	close(results)

	wins := 0
	for r := range results {
		require.NoError(t, r.err)
		if r.created {
			wins++
		}
	}
	require.Equal(t, 1, wins, "exactly one concurrent insert should win")

	n, err := repo.CountByTarget(ctx, model.KindVideo, "v1")
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestLikeRepository_ListLikedVideosOrdering(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	owner := model.User{ID: uuid.New().String(), Username: "owner", Email: "o@example.com", FullName: "O", Avatar: "a.png", Password: "x"}
	require.NoError(t, db.Create(&owner).Error)

	videoIDs := make([]string, 3)
	for i := range videoIDs {
		v := model.Video{ID: uuid.New().String(), OwnerID: owner.ID, Title: fmt.Sprintf("v%d", i), Description: "d"}
		require.NoError(t, db.Create(&v).Error)
		videoIDs[i] = v.ID
	}

	for _, id := range videoIDs {
		_, err := repo.Create(ctx, "viewer", model.KindVideo, id)
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
	}

	rows, err := repo.ListLikedVideos(ctx, "viewer")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	// 最近点赞在前
	require.Equal(t, videoIDs[2], rows[0].ID)
	require.Equal(t, videoIDs[1], rows[1].ID)
	require.Equal(t, videoIDs[0], rows[2].ID)
	require.Equal(t, "owner", rows[0].OwnerUsername)
	require.Equal(t, "a.png", rows[0].OwnerAvatar)
}

func TestLikeRepository_DeleteByTarget(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := repo.Create(ctx, fmt.Sprintf("u%d", i), model.KindComment, "c1")
		require.NoError(t, err)
	}
	removed, err := repo.DeleteByTarget(ctx, model.KindComment, "c1")
	require.NoError(t, err)
	require.EqualValues(t, 5, removed)

	n, err := repo.CountByTarget(ctx, model.KindComment, "c1")
	require.NoError(t, err)
	require.Zero(t, n)
}
