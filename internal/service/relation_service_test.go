package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/vidtube/internal/model"
	"github.com/d60-Lab/vidtube/pkg/apperr"
)

func TestRelationService_ToggleLikeParity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.register(t, "owner")
	fan := env.register(t, "fan")
	v := env.publishVideo(t, owner, "clip")

	// 奇数次 toggle 后是点赞态，偶数次后回到未点赞
	for i := 0; i < 5; i++ {
		liked, err := env.relations.ToggleLike(ctx, fan.ID, model.KindVideo, v.ID)
		require.NoError(t, err)
		require.Equal(t, i%2 == 0, liked)
	}
	n, err := env.relations.CountLikes(ctx, model.KindVideo, v.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	liked, err := env.relations.ToggleLike(ctx, fan.ID, model.KindVideo, v.ID)
	require.NoError(t, err)
	require.False(t, liked)
	n, err = env.relations.CountLikes(ctx, model.KindVideo, v.ID)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestRelationService_ToggleLikeAllKinds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.register(t, "owner")
	fan := env.register(t, "fan")
	id := env.identity(owner)

	v := env.publishVideo(t, owner, "clip")
	tw, err := env.content.CreateTweet(ctx, id, "hello")
	require.NoError(t, err)
	cm, err := env.content.AddComment(ctx, id, v.ID, "first")
	require.NoError(t, err)

	for _, tc := range []struct {
		kind   model.ContentKind
		target string
	}{
		{model.KindVideo, v.ID},
		{model.KindTweet, tw.ID},
		{model.KindComment, cm.ID},
	} {
		liked, err := env.relations.ToggleLike(ctx, fan.ID, tc.kind, tc.target)
		require.NoError(t, err)
		require.True(t, liked)
		n, err := env.relations.CountLikes(ctx, tc.kind, tc.target)
		require.NoError(t, err)
		require.EqualValues(t, 1, n)
	}
}

func TestRelationService_ToggleLikeRejectsBadTargets(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	fan := env.register(t, "fan")

	_, err := env.relations.ToggleLike(ctx, fan.ID, model.ContentKind("playlist"), uuid.New().String())
	require.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))

	_, err = env.relations.ToggleLike(ctx, fan.ID, model.KindVideo, "not-a-uuid")
	require.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))

	// 合法 uuid 但内容不存在
	_, err = env.relations.ToggleLike(ctx, fan.ID, model.KindVideo, uuid.New().String())
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	_, err = env.relations.ToggleLike(ctx, fan.ID, model.KindTweet, uuid.New().String())
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestRelationService_ToggleSubscriptionRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")

	subscribed, err := env.relations.ToggleSubscription(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	require.True(t, subscribed)

	n, err := env.relations.CountSubscribers(ctx, alice.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
	n, err = env.relations.CountSubscriptions(ctx, bob.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
	ok, err := env.relations.IsSubscribed(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	require.True(t, ok)
	// 订阅是有向边
	ok, err = env.relations.IsSubscribed(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.False(t, ok)

	subscribed, err = env.relations.ToggleSubscription(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	require.False(t, subscribed)
	n, err = env.relations.CountSubscribers(ctx, alice.ID)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestRelationService_ToggleSubscriptionRejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")

	// 不能订阅自己
	_, err := env.relations.ToggleSubscription(ctx, alice.ID, alice.ID)
	require.Equal(t, apperr.KindInvalidOperation, apperr.KindOf(err))

	_, err = env.relations.ToggleSubscription(ctx, alice.ID, "not-a-uuid")
	require.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))

	_, err = env.relations.ToggleSubscription(ctx, alice.ID, uuid.New().String())
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestRelationService_CountLikesUnknownKind(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.relations.CountLikes(context.Background(), model.ContentKind("story"), uuid.New().String())
	require.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
}
