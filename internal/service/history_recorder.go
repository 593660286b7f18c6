package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/vidtube/internal/repository"
	"github.com/d60-Lab/vidtube/pkg/logger"
)

type historyJob struct {
	userID  string
	videoID string
	enqAt   time.Time
}

// HistoryRecorder 观看历史的异步写入器：播放路径只入队，不等 redis 落地
type HistoryRecorder struct {
	historyRepo repository.WatchHistoryRepository
	ch          chan historyJob
	metricsCh   chan time.Duration

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

func NewHistoryRecorder(historyRepo repository.WatchHistoryRepository, queueSize int) *HistoryRecorder {
	if queueSize <= 0 {
		queueSize = 10000
	}
	return &HistoryRecorder{
		historyRepo: historyRepo,
		ch:          make(chan historyJob, queueSize),
		metricsCh:   make(chan time.Duration, 65536),
	}
}

// Start 启动 worker；返回的停止函数关闭队列并等 worker 排空存量任务。
func (r *HistoryRecorder) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 4
	}
	for i := 0; i < workers; i++ {
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			for job := range r.ch {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				if err := r.historyRepo.Push(ctx, job.userID, job.videoID); err != nil {
					logger.Warn("record watch history failed",
						zap.String("user", job.userID), zap.String("video", job.videoID), zap.Error(err))
				}
				cancel()
				if !job.enqAt.IsZero() {
					select {
					case r.metricsCh <- time.Since(job.enqAt):
					default:
					}
				}
			}
		}()
	}
	return func(ctx context.Context) error {
		r.mu.Lock()
		if !r.stopped {
			r.stopped = true
			close(r.ch)
		}
		r.mu.Unlock()

		done := make(chan struct{})
		go func() {
			r.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Enqueue 满了或已停止就丢弃，绝不阻塞播放路径
func (r *HistoryRecorder) Enqueue(userID, videoID string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.stopped {
		return
	}
	select {
	case r.ch <- historyJob{userID: userID, videoID: videoID, enqAt: time.Now()}:
	default:
		logger.Warn("history queue full, drop view", zap.String("user", userID), zap.String("video", videoID))
	}
}

// Metrics 返回入队到落地耗时的只读通道（每处理一条发送一次 duration）。
func (r *HistoryRecorder) Metrics() <-chan time.Duration { return r.metricsCh }

// QueueLen 返回当前队列长度（采样值）。
func (r *HistoryRecorder) QueueLen() int { return len(r.ch) }
