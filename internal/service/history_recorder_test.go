package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHistoryRecorder_AsyncPush(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	rec := NewHistoryRecorder(env.history, 64)
	stop := rec.Start(2)
	defer func() { _ = stop(ctx) }()

	rec.Enqueue("u1", "v1")
	rec.Enqueue("u1", "v2")

	require.Eventually(t, func() bool {
		ids, err := env.history.List(ctx, "u1")
		return err == nil && len(ids) == 2
	}, 2*time.Second, 10*time.Millisecond)

	ids, err := env.history.List(ctx, "u1")
	require.NoError(t, err)
	require.Contains(t, ids, "v1")
	require.Contains(t, ids, "v2")
}

func TestHistoryRecorder_DropsWhenQueueFull(t *testing.T) {
	env := newTestEnv(t)
	// 未启动 worker，队列填满后继续入队只丢弃不阻塞
	rec := NewHistoryRecorder(env.history, 2)
	rec.Enqueue("u1", "v1")
	rec.Enqueue("u1", "v2")
	rec.Enqueue("u1", "v3")
	require.Equal(t, 2, rec.QueueLen())
}

func TestHistoryRecorder_StopDrainsQueue(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	rec := NewHistoryRecorder(env.history, 64)
	// 先把队列堆满再启动 worker，停机时这些任务必须全部落库
	for i := 0; i < 10; i++ {
		rec.Enqueue("u1", fmt.Sprintf("v%d", i))
	}
	stop := rec.Start(1)

	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, stop(stopCtx))

	ids, err := env.history.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, ids, 10)

	// 停机后入队静默丢弃，不 panic
	rec.Enqueue("u1", "late")
	ids, err = env.history.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, ids, 10)
}

func TestHistoryRecorder_StopIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	rec := NewHistoryRecorder(env.history, 4)
	stop := rec.Start(1)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, stop(ctx))
	require.NoError(t, stop(ctx))
}
